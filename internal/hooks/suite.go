// Package hooks связывает godog с браузером: общий браузер на прогон,
// контекст и страница на сценарий, артефакты и история прогонов.
package hooks

import (
	"context"
	"fmt"
	"sync"

	"github.com/cucumber/godog"
	"go.uber.org/zap"

	"bddBrowser/internal/artifacts"
	"bddBrowser/internal/browser"
	"bddBrowser/internal/config"
	"bddBrowser/internal/fixtures"
	"bddBrowser/internal/logger"
	"bddBrowser/internal/registry"
	"bddBrowser/internal/sanitizer"
	"bddBrowser/internal/session"
	"bddBrowser/internal/snapshot"
)

type modes struct {
	screenshots artifacts.Mode
	videos      artifacts.Mode
	traces      artifacts.Mode
}

func parseModes(cfg config.Artifacts) (modes, error) {
	var (
		m   modes
		err error
	)
	if m.screenshots, err = artifacts.ParseMode(cfg.Screenshots); err != nil {
		return m, fmt.Errorf("ENABLE_SCREENSHOTS: %w", err)
	}
	if m.videos, err = artifacts.ParseMode(cfg.Videos); err != nil {
		return m, fmt.Errorf("ENABLE_VIDEOS: %w", err)
	}
	if m.traces, err = artifacts.ParseMode(cfg.Trace); err != nil {
		return m, fmt.Errorf("ENABLE_TRACE: %w", err)
	}
	return m, nil
}

type Suite struct {
	Cfg      *config.Cfg
	Log      *logger.Zap
	Browser  *browser.Manager
	Registry *registry.Registry
	Recorder Recorder

	modes     modes
	fixtures  *fixtures.Set
	sanitizer *sanitizer.DataSanitizer
	artifacts *artifacts.Store
	snapshots *snapshot.Comparer
	sessions  *session.Store

	mu        sync.Mutex
	launchErr error
}

// New готовит общие ресурсы прогона. Браузер запускается в BeforeSuite.
func New(cfg *config.Cfg, log *logger.Zap, rec Recorder) (*Suite, error) {
	m, err := parseModes(cfg.Artifacts)
	if err != nil {
		return nil, err
	}

	fx, err := fixtures.Load(cfg.Fixtures.Path)
	if err != nil {
		return nil, err
	}

	if rec == nil {
		rec = NopRecorder{}
	}

	return &Suite{
		Cfg:       cfg,
		Log:       log,
		Browser:   browser.New(BrowserConfig(cfg.Browser)),
		Registry:  registry.Default(),
		Recorder:  rec,
		modes:     m,
		fixtures:  fx,
		sanitizer: sanitizer.New(),
		artifacts: artifacts.NewStore(cfg.Artifacts.Dir),
		snapshots: &snapshot.Comparer{
			Dir:           cfg.Snapshots.Dir,
			Threshold:     cfg.Snapshots.Threshold,
			MaxDiffPixels: cfg.Snapshots.MaxDiffPixels,
			Update:        cfg.Snapshots.Update,
		},
		sessions: session.NewStore(cfg.Sessions.Dir),
	}, nil
}

func BrowserConfig(cfg config.Browser) browser.Config {
	return browser.Config{
		Name:            cfg.Name,
		Headless:        cfg.Headless,
		SlowMo:          cfg.SlowMo,
		BaseURL:         cfg.BaseURL,
		MobileDevice:    cfg.MobileDevice,
		ViewportWidth:   cfg.ViewportWidth,
		ViewportHeight:  cfg.ViewportHeight,
		BrowsersPath:    cfg.BrowsersPath,
		Timeout:         cfg.Timeout,
		NavigateTimeout: cfg.NavigateTimeout,
	}
}

// TestSuite собирает godog.TestSuite поверх хуков.
func (s *Suite) TestSuite(name string, opts *godog.Options) godog.TestSuite {
	return godog.TestSuite{
		Name:                 name,
		TestSuiteInitializer: s.InitializeTestSuite,
		ScenarioInitializer:  s.InitializeScenario,
		Options:              opts,
	}
}

func (s *Suite) InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		err := s.Browser.Launch(context.Background())

		s.mu.Lock()
		s.launchErr = err
		s.mu.Unlock()

		if err != nil {
			s.Log.Error("Не удалось запустить браузер", zap.Error(err))
			return
		}
		cfg := s.Browser.Config()
		s.Log.Info("Браузер запущен",
			zap.String("browser", cfg.Name),
			zap.Bool("headless", cfg.Headless),
			zap.String("base_url", cfg.BaseURL),
			zap.String("screenshots", s.modes.screenshots.String()),
			zap.String("videos", s.modes.videos.String()),
			zap.String("trace", s.modes.traces.String()),
		)
	})

	ctx.AfterSuite(func() {
		if err := s.Browser.Close(); err != nil {
			s.Log.Warn("Ошибка закрытия браузера", zap.Error(err))
			return
		}
		s.Log.Info("Браузер закрыт")
	})
}

func (s *Suite) InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(s.beforeScenario)
	ctx.StepContext().Before(s.beforeStep)
	ctx.StepContext().After(s.afterStep)
	ctx.After(s.afterScenario)

	s.Registry.Bind(ctx)
}

func (s *Suite) launchError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.launchErr
}
