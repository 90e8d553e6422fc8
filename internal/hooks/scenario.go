package hooks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"bddBrowser/internal/artifacts"
	"bddBrowser/internal/browser"
	"bddBrowser/internal/database"
	"bddBrowser/internal/world"
)

// scenario - служебное состояние хуков для одного сценария.
type scenario struct {
	world   *world.World
	tags    scenarioTags
	feature string
	started time.Time
	runID   uint

	stepNo    int
	stepStart time.Time

	// recording - контекст пишет видео.
	recording bool
	traces    []string
	videos    []playwright.Video
}

type scenarioKey struct{}

func scenarioFrom(ctx context.Context) *scenario {
	st, _ := ctx.Value(scenarioKey{}).(*scenario)
	return st
}

func (s *Suite) newWorld(name string) *world.World {
	w := world.New(world.Options{
		Scenario: name,
		Settings: world.Settings{
			BaseURL:         s.Cfg.Browser.BaseURL,
			Timeout:         s.Cfg.Browser.Timeout,
			NavigateTimeout: s.Cfg.Browser.NavigateTimeout,
		},
		Fixtures:  s.fixtures,
		Log:       s.Log.Logger,
		Sanitizer: s.sanitizer,
		Artifacts: s.artifacts,
		Snapshots: s.snapshots,
		Sessions:  s.sessions,
	})
	w.Browser = s.Browser.Browser()
	return w
}

func (s *Suite) beforeScenario(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	if err := s.launchError(); err != nil {
		return ctx, fmt.Errorf("браузер не запущен: %w", err)
	}

	st := &scenario{
		tags:    parseTags(tagNames(sc)),
		feature: sc.Uri,
		started: time.Now(),
	}
	st.world = s.newWorld(sc.Name)

	storageState := ""
	if name := st.tags.Session; name != "" {
		if s.sessions.Exists(name) {
			storageState = s.sessions.Path(name)
		} else {
			st.world.Log.Warn("Сессия из тега не найдена, сценарий начнется без нее", zap.String("session", name))
		}
	}

	if err := s.open(st, storageState); err != nil {
		return ctx, err
	}
	st.world.Reopen = func(_ context.Context, path string) error {
		return s.reopen(st, path)
	}

	st.runID = s.startRun(st, sc.Name)
	st.world.Log.Info("Сценарий начат", zap.String("feature", sc.Uri))

	ctx = world.WithWorld(ctx, st.world)
	return context.WithValue(ctx, scenarioKey{}, st), nil
}

// open создает контекст и страницу сценария, при необходимости со
// storage state сохраненной сессии.
func (s *Suite) open(st *scenario, storageState string) error {
	opts := browser.ContextOptions{
		Device:           st.tags.Device,
		StorageStatePath: storageState,
	}
	if s.modes.videos.Enabled() && !st.tags.NoVideo {
		dir, err := s.artifacts.Dir(artifacts.Videos)
		if err != nil {
			return err
		}
		opts.VideoDir = dir
	}

	bc, err := s.Browser.NewContext(opts)
	if err != nil {
		return err
	}
	st.recording = opts.VideoDir != ""

	if s.modes.traces.Enabled() {
		err := bc.Tracing().Start(playwright.TracingStartOptions{
			Name:        playwright.String(artifacts.Slug(st.world.Scenario)),
			Title:       playwright.String(st.world.Scenario),
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
			Sources:     playwright.Bool(true),
		})
		if err != nil {
			_ = bc.Close()
			return fmt.Errorf("запуск трассировки: %w", err)
		}
	}

	page, err := s.Browser.NewPage(bc)
	if err != nil {
		_ = bc.Close()
		return err
	}

	st.world.Attach(bc, page)
	return nil
}

// close останавливает трассировку и закрывает страницу и контекст.
// Видео становится доступным только после закрытия контекста.
func (s *Suite) close(st *scenario) error {
	w := st.world
	if w.Context == nil {
		return nil
	}

	var errs []error
	if s.modes.traces.Enabled() {
		path, err := s.artifacts.Path(artifacts.Traces, w.Scenario, "zip")
		if err == nil {
			err = w.Context.Tracing().Stop(path)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("остановка трассировки: %w", err))
		} else {
			st.traces = append(st.traces, path)
		}
	}

	if w.Page != nil {
		if st.recording {
			if v := w.Page.Video(); v != nil {
				st.videos = append(st.videos, v)
			}
		}
		if err := w.Page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("закрытие страницы: %w", err))
		}
	}
	if err := w.Context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("закрытие контекста: %w", err))
	}

	w.Attach(nil, nil)
	return errors.Join(errs...)
}

func (s *Suite) reopen(st *scenario, storageState string) error {
	if err := st.world.Unroute(); err != nil {
		st.world.Log.Warn("Ошибка снятия перехватов", zap.Error(err))
	}
	if err := s.close(st); err != nil {
		return err
	}
	return s.open(st, storageState)
}

func (s *Suite) afterScenario(ctx context.Context, sc *godog.Scenario, scErr error) (context.Context, error) {
	st := scenarioFrom(ctx)
	if st == nil {
		return ctx, nil
	}
	w := st.world
	failed := scErr != nil

	res := database.RunResult{
		Status:   database.StatusPassed,
		Duration: time.Since(st.started),
	}
	if failed {
		res.Status = database.StatusFailed
		res.ErrorKind = world.Classify(scErr).String()
		res.Error = scErr.Error()
	}

	if s.modes.screenshots.Keep(failed) && w.Page != nil {
		path, err := s.screenshot(w)
		if err != nil {
			w.Log.Warn("Не удалось сделать скриншот сценария", zap.Error(err))
		} else {
			res.ScreenshotPath = path
		}
	}

	if err := errors.Join(w.Teardown(), s.close(st)); err != nil {
		w.Log.Warn("Ошибка завершения сценария", zap.Error(err))
	}
	res.TracePath = settle(w, st.traces, s.modes.traces.Keep(failed))
	res.VideoPath = s.settleVideos(st, s.modes.videos.Keep(failed))

	s.finishRun(st, res)

	fields := []zap.Field{
		zap.String("status", res.Status),
		zap.Duration("duration", res.Duration),
	}
	if failed {
		w.Log.Error("Сценарий провален", append(fields, zap.String("kind", res.ErrorKind), zap.Error(scErr))...)
	} else {
		w.Log.Info("Сценарий пройден", fields...)
	}
	return ctx, nil
}

func (s *Suite) screenshot(w *world.World) (string, error) {
	path, err := s.artifacts.Path(artifacts.Screenshots, w.Scenario, "png")
	if err != nil {
		return "", err
	}
	if _, err := w.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return "", err
	}
	w.Screenshots = append(w.Screenshots, path)
	return path, nil
}

// settle оставляет или удаляет файлы артефакта и возвращает сохраненные пути.
func settle(w *world.World, paths []string, keep bool) string {
	if keep {
		return strings.Join(paths, ",")
	}
	for _, path := range paths {
		if err := artifacts.Discard(path); err != nil {
			w.Log.Warn("Не удалось удалить артефакт", zap.String("path", path), zap.Error(err))
		}
	}
	return ""
}

func (s *Suite) settleVideos(st *scenario, keep bool) string {
	var kept []string
	for _, v := range st.videos {
		if !keep {
			if err := v.Delete(); err != nil {
				st.world.Log.Warn("Не удалось удалить видео", zap.Error(err))
			}
			continue
		}
		path, err := v.Path()
		if err != nil {
			st.world.Log.Warn("Видео недоступно", zap.Error(err))
			continue
		}
		kept = append(kept, path)
	}
	st.videos = nil
	return strings.Join(kept, ",")
}

func (s *Suite) beforeStep(ctx context.Context, _ *godog.Step) (context.Context, error) {
	if st := scenarioFrom(ctx); st != nil {
		st.stepNo++
		st.stepStart = time.Now()
	}
	return ctx, nil
}

func (s *Suite) afterStep(ctx context.Context, step *godog.Step, status godog.StepResultStatus, err error) (context.Context, error) {
	st := scenarioFrom(ctx)
	if st == nil {
		return ctx, nil
	}
	w := st.world
	d := time.Since(st.stepStart)
	text := w.MaskStep(step.Text)

	fields := []zap.Field{
		zap.Int("no", st.stepNo),
		zap.String("step", text),
		zap.String("status", status.String()),
		zap.Duration("duration", d),
	}
	if err != nil {
		w.Log.Warn("Шаг не выполнен", append(fields, zap.Error(err))...)
	} else {
		w.Log.Info("Шаг", fields...)
	}

	if st.runID != 0 {
		run := &database.StepRun{
			ScenarioRunID: st.runID,
			StepNo:        st.stepNo,
			Text:          text,
			Status:        stepStatus(status),
			DurationMs:    d.Milliseconds(),
		}
		if err != nil {
			run.Error = err.Error()
		}
		if recErr := s.Recorder.RecordStep(run); recErr != nil {
			w.Log.Warn("Не удалось записать шаг в историю", zap.Error(recErr))
		}
	}
	return ctx, nil
}

func stepStatus(status godog.StepResultStatus) string {
	switch status {
	case godog.StepPassed:
		return database.StatusPassed
	case godog.StepFailed:
		return database.StatusFailed
	case godog.StepSkipped:
		return database.StatusSkipped
	default:
		return database.StatusPending
	}
}

func (s *Suite) startRun(st *scenario, name string) uint {
	id, err := s.Recorder.StartRun(st.feature, name)
	if err != nil {
		st.world.Log.Warn("Не удалось записать прогон в историю", zap.Error(err))
		return 0
	}
	return id
}

func (s *Suite) finishRun(st *scenario, res database.RunResult) {
	if st.runID == 0 {
		return
	}
	if err := s.Recorder.FinishRun(st.runID, res); err != nil {
		st.world.Log.Warn("Не удалось завершить прогон в истории", zap.Error(err))
	}
}

// Standalone открывает World вне godog, например для консоли.
// Функция закрытия обрабатывает артефакты как для пройденного сценария.
func (s *Suite) Standalone(ctx context.Context, name string) (*world.World, func() error, error) {
	if err := s.Browser.Launch(ctx); err != nil {
		return nil, nil, err
	}

	st := &scenario{feature: "console", started: time.Now()}
	st.world = s.newWorld(name)
	if err := s.open(st, ""); err != nil {
		return nil, nil, err
	}
	st.world.Reopen = func(_ context.Context, path string) error {
		return s.reopen(st, path)
	}

	closeFn := func() error {
		err := errors.Join(st.world.Teardown(), s.close(st))
		settle(st.world, st.traces, s.modes.traces.Keep(false))
		s.settleVideos(st, s.modes.videos.Keep(false))
		return err
	}
	return st.world, closeFn, nil
}
