package hooks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bddBrowser/internal/artifacts"
	"bddBrowser/internal/config"
	"bddBrowser/internal/database"
	"bddBrowser/internal/logger"
	_ "bddBrowser/internal/steps"
	"bddBrowser/internal/world"
)

func TestParseTags(t *testing.T) {
	tags := parseTags([]string{"@smoke", "@session:admin", "@Device:iPhone_13", "@no-video"})

	assert.Equal(t, scenarioTags{Session: "admin", Device: "iPhone 13", NoVideo: true}, tags)
	assert.Equal(t, scenarioTags{}, parseTags(nil))
	assert.Equal(t, "b", parseTags([]string{"@session:a", "@session:b"}).Session)
}

func TestTagNames(t *testing.T) {
	sc := &godog.Scenario{Tags: []*messages.PickleTag{{Name: "@a"}, {Name: "@device:Pixel_7"}}}

	assert.Equal(t, []string{"@a", "@device:Pixel_7"}, tagNames(sc))
	assert.Nil(t, tagNames(nil))
}

func TestParseModes(t *testing.T) {
	m, err := parseModes(config.Artifacts{Screenshots: "failure", Videos: "on", Trace: ""})
	require.NoError(t, err)
	assert.Equal(t, artifacts.OnFailure, m.screenshots)
	assert.Equal(t, artifacts.Always, m.videos)
	assert.Equal(t, artifacts.Off, m.traces)

	_, err = parseModes(config.Artifacts{Trace: "sometimes"})
	assert.ErrorContains(t, err, "ENABLE_TRACE")
}

func testConfig(t *testing.T) *config.Cfg {
	dir := t.TempDir()
	return &config.Cfg{
		Browser: config.Browser{
			Name:            "firefox",
			Headless:        true,
			BaseURL:         "http://localhost:8080",
			ViewportWidth:   800,
			ViewportHeight:  600,
			Timeout:         time.Second,
			NavigateTimeout: 5 * time.Second,
		},
		Artifacts: config.Artifacts{Dir: filepath.Join(dir, "artifacts"), Screenshots: "failure"},
		Fixtures:  config.Fixtures{Path: filepath.Join(dir, "missing")},
		Sessions:  config.Sessions{Dir: filepath.Join(dir, "sessions")},
		Snapshots: config.Snapshots{Dir: filepath.Join(dir, "snapshots"), Threshold: 0.2},
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)

	s, err := New(cfg, logger.Nop(), nil)
	require.NoError(t, err)

	assert.IsType(t, NopRecorder{}, s.Recorder)
	assert.Equal(t, "firefox", s.Browser.Config().Name)
	assert.Equal(t, 0.2, s.snapshots.Threshold)
	assert.Greater(t, s.Registry.Len(), 0)

	cfg.Artifacts.Videos = "maybe"
	_, err = New(cfg, logger.Nop(), nil)
	assert.ErrorContains(t, err, "ENABLE_VIDEOS")
}

func TestBrowserConfig(t *testing.T) {
	cfg := testConfig(t).Browser
	cfg.MobileDevice = "Pixel 7"
	cfg.SlowMo = 50

	bc := BrowserConfig(cfg)
	assert.Equal(t, "Pixel 7", bc.MobileDevice)
	assert.Equal(t, 50.0, bc.SlowMo)
	assert.Equal(t, 5*time.Second, bc.NavigateTimeout)
}

func TestBeforeScenario_BrowserNotLaunched(t *testing.T) {
	s, err := New(testConfig(t), logger.Nop(), nil)
	require.NoError(t, err)
	s.launchErr = errors.New("no browsers installed")

	_, err = s.beforeScenario(context.Background(), &godog.Scenario{Name: "login"})
	assert.ErrorContains(t, err, "no browsers installed")
}

func TestAfterScenario_WithoutState(t *testing.T) {
	s, err := New(testConfig(t), logger.Nop(), nil)
	require.NoError(t, err)

	ctx, err := s.afterScenario(context.Background(), &godog.Scenario{}, errors.New("before failed"))
	assert.NoError(t, err)
	assert.NotNil(t, ctx)
}

type fakeRecorder struct {
	NopRecorder
	steps []*database.StepRun
}

func (r *fakeRecorder) RecordStep(step *database.StepRun) error {
	r.steps = append(r.steps, step)
	return nil
}

func TestStepHooks_RecordSteps(t *testing.T) {
	rec := &fakeRecorder{}
	s, err := New(testConfig(t), logger.Nop(), rec)
	require.NoError(t, err)

	st := &scenario{world: s.newWorld("checkout"), runID: 7}
	ctx := context.WithValue(context.Background(), scenarioKey{}, st)

	ctx, err = s.beforeStep(ctx, &godog.Step{Text: "I open \"/\""})
	require.NoError(t, err)
	_, err = s.afterStep(ctx, &godog.Step{Text: "I open \"/\""}, godog.StepPassed, nil)
	require.NoError(t, err)

	ctx, _ = s.beforeStep(ctx, &godog.Step{Text: "I click"})
	_, _ = s.afterStep(ctx, &godog.Step{Text: "I click"}, godog.StepFailed, world.Precondition("элемент не выбран"))

	require.Len(t, rec.steps, 2)
	assert.Equal(t, uint(7), rec.steps[0].ScenarioRunID)
	assert.Equal(t, 1, rec.steps[0].StepNo)
	assert.Equal(t, database.StatusPassed, rec.steps[0].Status)
	assert.Equal(t, 2, rec.steps[1].StepNo)
	assert.Equal(t, database.StatusFailed, rec.steps[1].Status)
	assert.Contains(t, rec.steps[1].Error, "элемент не выбран")
}

func TestStepHooks_MaskTypedSecrets(t *testing.T) {
	rec := &fakeRecorder{}
	s, err := New(testConfig(t), logger.Nop(), rec)
	require.NoError(t, err)

	st := &scenario{world: s.newWorld("login"), runID: 3}
	ctx := context.WithValue(context.Background(), scenarioKey{}, st)

	for _, text := range []string{`I type "hunter2" into "Password"`, `I find element by label "Password"`, `I type "hunter2"`} {
		if strings.HasPrefix(text, "I find") {
			st.world.ElementQuery = "Password"
		}
		ctx, _ = s.beforeStep(ctx, &godog.Step{Text: text})
		_, err = s.afterStep(ctx, &godog.Step{Text: text}, godog.StepPassed, nil)
		require.NoError(t, err)
	}

	require.Len(t, rec.steps, 3)
	for _, step := range rec.steps {
		assert.NotContains(t, step.Text, "hunter2")
	}
	assert.Equal(t, `I type "[FILTERED]"`, rec.steps[2].Text)
}

func TestStepHooks_NoRunID(t *testing.T) {
	rec := &fakeRecorder{}
	s, err := New(testConfig(t), logger.Nop(), rec)
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), scenarioKey{}, &scenario{world: s.newWorld("x")})
	_, err = s.afterStep(ctx, &godog.Step{Text: "I click"}, godog.StepPassed, nil)
	require.NoError(t, err)
	assert.Empty(t, rec.steps)
}

func TestStepStatus(t *testing.T) {
	assert.Equal(t, database.StatusPassed, stepStatus(godog.StepPassed))
	assert.Equal(t, database.StatusFailed, stepStatus(godog.StepFailed))
	assert.Equal(t, database.StatusSkipped, stepStatus(godog.StepSkipped))
	assert.Equal(t, database.StatusPending, stepStatus(godog.StepUndefined))
}

func TestSettle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.zip")
	b := filepath.Join(dir, "b.zip")
	for _, p := range []string{a, b} {
		require.NoError(t, os.WriteFile(p, []byte("zip"), 0o644))
	}
	w := world.New(world.Options{})

	assert.Equal(t, a+","+b, settle(w, []string{a, b}, true))
	assert.FileExists(t, a)

	assert.Empty(t, settle(w, []string{a, b}, false))
	assert.NoFileExists(t, a)
	assert.NoFileExists(t, b)
}
