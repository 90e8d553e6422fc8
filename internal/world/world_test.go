package world

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bddBrowser/internal/fixtures"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"login": {"submit": "#submit"}, "greeting": "Привет"}`), 0o644))
	set, err := fixtures.Load(path)
	require.NoError(t, err)

	return New(Options{
		Scenario: "test",
		Settings: Settings{BaseURL: "http://localhost:8080/"},
		Fixtures: set,
	})
}

func TestFromContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.Equal(t, KindPrecondition, Classify(err))

	w := New(Options{})
	got, err := FromContext(WithWorld(context.Background(), w))
	require.NoError(t, err)
	assert.Same(t, w, got)
}

func TestResolve(t *testing.T) {
	w := newTestWorld(t)
	w.Remember("order", "A-42")

	tests := []struct {
		in   string
		want string
	}{
		{"@order", "A-42"},
		{"login.submit", "#submit"},
		{"greeting", "Привет"},
		{"Save changes", "Save changes"},
		{"#literal", "#literal"},
		{"@", "@"},
		{"", ""},
	}

	for _, tt := range tests {
		got, err := w.Resolve(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := w.Resolve("@missing")
	assert.ErrorContains(t, err, "missing")
	assert.Equal(t, KindPrecondition, Classify(err))
}

func TestRememberRecall(t *testing.T) {
	w := New(Options{})
	w.Remember("@token", "abc")
	w.Remember("token", "def")

	v, err := w.Recall("@token")
	require.NoError(t, err)
	assert.Equal(t, "def", v)
}

func TestURL(t *testing.T) {
	w := newTestWorld(t)

	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/a", "https://example.com/a"},
		{"/login", "http://localhost:8080/login"},
		{"cart/items", "http://localhost:8080/cart/items"},
		{"?q=1", "http://localhost:8080?q=1"},
	}
	for _, tt := range tests {
		got, err := w.URL(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := w.URL("  ")
	assert.Error(t, err)

	w.Settings.BaseURL = ""
	_, err = w.URL("/login")
	assert.ErrorContains(t, err, "BASE_URL")
}

func TestRequire(t *testing.T) {
	w := New(Options{})

	_, err := w.RequirePage()
	assert.ErrorContains(t, err, "страница не открыта")
	_, err = w.RequireElement()
	assert.ErrorContains(t, err, "элемент не выбран")
	_, err = w.RequireElements()
	assert.Error(t, err)
	_, err = w.RequireContext()
	assert.Error(t, err)

	_, err = w.Locator("#x")
	assert.Equal(t, KindPrecondition, Classify(err))
	_, err = w.ByText("x", false)
	assert.Error(t, err)
	_, err = w.ByRole("", "x")
	assert.ErrorContains(t, err, "роль")

	assert.Error(t, w.Goto(context.Background(), "/"))
	assert.Error(t, w.Route("**/api", func(playwright.Route) {}))
	assert.Error(t, w.EnterFrame("#frame"))
}

func TestLocator_RejectsURL(t *testing.T) {
	w := New(Options{})
	_, err := w.Locator("https://example.com")
	assert.ErrorContains(t, err, "невалидный селектор")
}

func TestTeardown(t *testing.T) {
	w := New(Options{})

	var order []int
	w.Cleanup(func() error { order = append(order, 1); return nil })
	w.Cleanup(func() error { order = append(order, 2); return errors.New("boom") })

	err := w.Teardown()
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, []int{2, 1}, order)

	assert.NoError(t, w.Teardown())
}

type fakeDialog struct {
	playwright.Dialog
	message  string
	accepted *string
	dismiss  bool
}

func (d *fakeDialog) Message() string { return d.message }
func (d *fakeDialog) Type() string    { return "prompt" }
func (d *fakeDialog) Accept(text ...string) error {
	v := ""
	if len(text) > 0 {
		v = text[0]
	}
	d.accepted = &v
	return nil
}
func (d *fakeDialog) Dismiss() error {
	d.dismiss = true
	return nil
}

func TestDialogPolicy(t *testing.T) {
	w := New(Options{})

	first := &fakeDialog{message: "Удалить?"}
	w.handleDialog(first)
	assert.True(t, first.dismiss)
	assert.Nil(t, first.accepted)
	assert.Equal(t, "Удалить?", w.LastDialog())

	w.ExpectDialog(true, "Иван")
	second := &fakeDialog{message: "Имя?"}
	w.handleDialog(second)
	require.NotNil(t, second.accepted)
	assert.Equal(t, "Иван", *second.accepted)

	// политика действует только на один диалог
	third := &fakeDialog{message: "Еще?"}
	w.handleDialog(third)
	assert.True(t, third.dismiss)
}

func TestStepError(t *testing.T) {
	inner := errors.New("Timeout 10000ms exceeded")
	err := Browser("клик", inner)

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, KindBrowser, Classify(err))
	assert.Equal(t, "клик: Timeout 10000ms exceeded", err.Error())
	assert.Nil(t, Browser("клик", nil))

	wrapped := fmt.Errorf("шаг упал: %w", Assertion("ожидался текст %q", "a"))
	assert.Equal(t, KindAssertion, Classify(wrapped))

	named := &StepError{Kind: KindAssertion, Step: "I see text", Message: "нет текста"}
	assert.Equal(t, "I see text: нет текста", named.Error())

	assert.Equal(t, KindPrecondition, Classify(errors.New("элемент не найден")))
	assert.Equal(t, KindAssertion, Classify(errors.New("expected 3, got 2")))
	assert.Equal(t, KindBrowser, Classify(errors.New("target closed")))

	assert.Equal(t, "precondition", KindPrecondition.String())
	assert.Equal(t, "assertion", KindAssertion.String())
	assert.Equal(t, "browser", KindBrowser.String())
}

func TestMaskStep(t *testing.T) {
	w := newTestWorld(t)

	assert.Equal(t, `I type "secret1"`, w.MaskStep(`I type "secret1"`))

	w.ElementQuery = "#password"
	assert.Equal(t, `I type "[FILTERED]"`, w.MaskStep(`I type "secret1"`))
	assert.Equal(t, "[FILTERED]", w.Masked(w.ElementQuery, "secret1"))

	w.Attach(nil, nil)
	assert.Empty(t, w.ElementQuery)
}
