package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bddBrowser/internal/database"
	"bddBrowser/internal/registry"
	"bddBrowser/internal/session"
	"bddBrowser/internal/world"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Add(`I open {string}`, func(ctx context.Context, url string) error {
		w, err := world.FromContext(ctx)
		if err != nil {
			return err
		}
		_, err = w.RequirePage()
		return err
	}))
	require.NoError(t, reg.Add(`I wait {int} millisecond(s)`, func(int) error { return nil }))
	return reg
}

func TestStepsHandler_List(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewStepsHandler(testRegistry(t), out)

	assert.Equal(t, 2, h.List("", true))
	assert.Contains(t, out.String(), `^I open "([^"]*)"$`)

	out.Reset()
	assert.Equal(t, 1, h.List("WAIT", false))
	assert.NotContains(t, out.String(), "I open")
}

func TestStepsHandler_Match(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewStepsHandler(testRegistry(t), out)

	require.NoError(t, h.Match(`I open "/login"`))
	assert.Contains(t, out.String(), "I open {string}")
	assert.Contains(t, out.String(), `"/login"`)

	assert.Error(t, h.Match("I jump"))
}

func TestBrowserHandler_Exec(t *testing.T) {
	out := &bytes.Buffer{}
	closed := 0
	open := func(context.Context) (*world.World, func() error, error) {
		return world.New(world.Options{}), func() error { closed++; return nil }, nil
	}
	h := NewBrowserHandler(testRegistry(t), open, out)

	require.NoError(t, h.Exec(context.Background(), "I wait 5 milliseconds"))
	assert.Contains(t, out.String(), "I wait {int} millisecond(s)")

	err := h.Exec(context.Background(), `I open "/"`)
	require.Error(t, err)
	assert.Contains(t, out.String(), "[precondition]")

	require.NoError(t, h.Close())
	assert.Equal(t, 1, closed)
	require.NoError(t, h.Close())
	assert.Equal(t, 1, closed)
}

func TestBrowserHandler_OpenError(t *testing.T) {
	out := &bytes.Buffer{}
	open := func(context.Context) (*world.World, func() error, error) {
		return nil, nil, errors.New("executable doesn't exist")
	}
	h := NewBrowserHandler(testRegistry(t), open, out)

	assert.Error(t, h.Exec(context.Background(), "I wait 1 millisecond"))
	assert.Contains(t, out.String(), "executable doesn't exist")
	assert.Nil(t, h.World())
}

type fakeRuns struct {
	runs  []database.ScenarioRun
	steps []database.StepRun
}

func (f *fakeRuns) GetRun(id uint) (*database.ScenarioRun, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRuns) ListRuns(int, int) ([]database.ScenarioRun, error) { return f.runs, nil }

func (f *fakeRuns) GetSteps(uint) ([]database.StepRun, error) { return f.steps, nil }

func TestRunsAndShow(t *testing.T) {
	runs := &fakeRuns{
		runs: []database.ScenarioRun{{
			ID: 4, Feature: "features/login.feature", Name: "wrong password",
			Status: database.StatusFailed, ErrorKind: "assertion", Error: "ожидалось \"Welcome\"",
			ScreenshotPath: "test-artifacts/screenshots/wrong-password.png",
			DurationMs:     (1500 * time.Millisecond).Milliseconds(),
		}},
		steps: []database.StepRun{
			{StepNo: 1, Text: `I open "/login"`, Status: database.StatusPassed, DurationMs: 120},
			{StepNo: 2, Text: `I see text "Welcome"`, Status: database.StatusFailed, Error: "ожидалось \"Welcome\""},
		},
	}
	out := &bytes.Buffer{}

	NewRunsHandler(runs, zap.NewNop(), out).List(10)
	assert.Contains(t, out.String(), "#4")
	assert.Contains(t, out.String(), "wrong password")

	out.Reset()
	show := NewShowHandler(runs, zap.NewNop(), out)
	show.Show("#4")
	assert.Contains(t, out.String(), "Прогон #4")
	assert.Contains(t, out.String(), "wrong-password.png")
	assert.Contains(t, out.String(), `I see text "Welcome"`)

	out.Reset()
	show.Show("7")
	assert.Contains(t, out.String(), "не найден")

	out.Reset()
	show.Show("abc")
	assert.Contains(t, out.String(), "Неверный ID")
}

func TestSessionsHandler(t *testing.T) {
	store := session.NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path("admin"), []byte(`{
  "cookies": [{"name": "sid", "value": "secret-sid", "domain": "localhost", "path": "/", "expires": -1, "httpOnly": true, "secure": false, "sameSite": "Lax"}],
  "origins": [{"origin": "http://localhost:8080", "localStorage": [{"name": "user", "value": "admin@example.com"}]}]
}`), 0o644))
	require.NoError(t, os.WriteFile(store.Path("broken"), []byte("{"), 0o644))

	out := &bytes.Buffer{}
	h := NewSessionsHandler(store, zap.NewNop(), out)

	h.List()
	assert.Contains(t, out.String(), "admin")
	assert.Contains(t, out.String(), "cookies: 1, origins: 1")
	assert.Contains(t, out.String(), "повреждена")

	out.Reset()
	require.NoError(t, h.Show(" admin "))
	assert.Contains(t, out.String(), "sid")
	assert.Contains(t, out.String(), "http://localhost:8080")
	assert.Contains(t, out.String(), "user")
	assert.NotContains(t, out.String(), "secret-sid")
	assert.NotContains(t, out.String(), "admin@example.com")

	assert.Error(t, h.Show("ghost"))
}

func TestSessionsHandler_Empty(t *testing.T) {
	out := &bytes.Buffer{}
	NewSessionsHandler(session.NewStore(t.TempDir()), zap.NewNop(), out).List()
	assert.Contains(t, out.String(), "Сохраненных сессий нет")
}
