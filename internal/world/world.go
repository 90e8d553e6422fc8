// Package world хранит состояние одного сценария: контекст браузера,
// страницу, выбранные элементы, область iframe и сохраненные значения.
package world

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"bddBrowser/internal/artifacts"
	"bddBrowser/internal/browser"
	"bddBrowser/internal/fixtures"
	"bddBrowser/internal/sanitizer"
	"bddBrowser/internal/session"
	"bddBrowser/internal/snapshot"
)

type Settings struct {
	BaseURL         string
	Timeout         time.Duration
	NavigateTimeout time.Duration
}

// ReopenFunc пересоздает контекст и страницу сценария с указанным
// storage state. Устанавливается хуками, используется восстановлением сессии.
type ReopenFunc func(ctx context.Context, storageStatePath string) error

type World struct {
	Scenario string

	Browser  playwright.Browser
	Context  playwright.BrowserContext
	Page     playwright.Page
	Element  playwright.Locator
	Elements playwright.Locator
	Frame    playwright.FrameLocator

	// ElementQuery и ElementsQuery - запросы (селектор, текст, подпись),
	// которыми выбраны текущий элемент и набор. По ним маскируется ввод.
	ElementQuery  string
	ElementsQuery string

	// Data - значения, сохраненные шагами под алиасами.
	Data map[string]string

	Settings  Settings
	Fixtures  *fixtures.Set
	Log       *zap.Logger
	Sanitizer *sanitizer.DataSanitizer
	Artifacts *artifacts.Store
	Snapshots *snapshot.Comparer
	Sessions  *session.Store
	Reopen    ReopenFunc

	// Screenshots - снимки, сделанные шагами сценария.
	Screenshots []string

	frames  []string
	routes  []string
	cleanup []func() error

	mu         sync.Mutex
	nextDialog *dialogPolicy
	lastDialog string
}

type Options struct {
	Scenario  string
	Settings  Settings
	Fixtures  *fixtures.Set
	Log       *zap.Logger
	Sanitizer *sanitizer.DataSanitizer
	Artifacts *artifacts.Store
	Snapshots *snapshot.Comparer
	Sessions  *session.Store
}

func New(opts Options) *World {
	w := &World{
		Scenario:  opts.Scenario,
		Data:      make(map[string]string),
		Settings:  opts.Settings,
		Fixtures:  opts.Fixtures,
		Log:       opts.Log,
		Sanitizer: opts.Sanitizer,
		Artifacts: opts.Artifacts,
		Snapshots: opts.Snapshots,
		Sessions:  opts.Sessions,
	}

	if w.Fixtures == nil {
		w.Fixtures = fixtures.Empty()
	}
	if w.Log == nil {
		w.Log = zap.NewNop()
	}
	if w.Sanitizer == nil {
		w.Sanitizer = sanitizer.New()
	}
	if w.Settings.Timeout == 0 {
		w.Settings.Timeout = 10 * time.Second
	}
	if w.Settings.NavigateTimeout == 0 {
		w.Settings.NavigateTimeout = 30 * time.Second
	}
	w.Log = w.Log.With(zap.String("scenario", w.Scenario))

	return w
}

type worldKey struct{}

func WithWorld(ctx context.Context, w *World) context.Context {
	return context.WithValue(ctx, worldKey{}, w)
}

func FromContext(ctx context.Context) (*World, error) {
	w, ok := ctx.Value(worldKey{}).(*World)
	if !ok || w == nil {
		return nil, Precondition("состояние сценария не инициализировано")
	}
	return w, nil
}

// Attach делает page текущей страницей сценария и сбрасывает выбор элементов.
func (w *World) Attach(bc playwright.BrowserContext, page playwright.Page) {
	w.Context = bc
	w.Page = page
	w.Element = nil
	w.Elements = nil
	w.ElementQuery = ""
	w.ElementsQuery = ""
	w.Frame = nil
	w.frames = nil
	w.routes = nil

	if page != nil {
		page.OnDialog(w.handleDialog)
	}
}

func (w *World) RequirePage() (playwright.Page, error) {
	if w.Page == nil {
		return nil, Precondition("страница не открыта")
	}
	return w.Page, nil
}

func (w *World) RequireContext() (playwright.BrowserContext, error) {
	if w.Context == nil {
		return nil, Precondition("контекст браузера не создан")
	}
	return w.Context, nil
}

func (w *World) RequireElement() (playwright.Locator, error) {
	if w.Element == nil {
		return nil, Precondition("элемент не выбран: сначала найдите его шагом \"I find element ...\"")
	}
	return w.Element, nil
}

func (w *World) RequireElements() (playwright.Locator, error) {
	if w.Elements == nil {
		return nil, Precondition("набор элементов не выбран: сначала используйте \"I find elements by selector ...\"")
	}
	return w.Elements, nil
}

// Select делает locator, найденный по query, текущим элементом.
func (w *World) Select(locator playwright.Locator, query string) {
	w.Element = locator
	w.ElementQuery = query
}

// SelectAll делает locator текущим набором, а его первый элемент - текущим элементом.
func (w *World) SelectAll(locator playwright.Locator, query string) {
	w.Elements = locator
	w.ElementsQuery = query
	w.Select(locator.First(), query)
}

// Resolve раскрывает аргумент шага: "@name" - сохраненное значение,
// ключ фикстуры - значение из фикстур, иначе сам литерал.
func (w *World) Resolve(value string) (string, error) {
	if strings.HasPrefix(value, "@") && len(value) > 1 {
		return w.Recall(value[1:])
	}
	if v, ok := w.Fixtures.Lookup(value); ok {
		return v, nil
	}
	return value, nil
}

func (w *World) Remember(name, value string) {
	w.Data[strings.TrimPrefix(name, "@")] = value
}

func (w *World) Recall(name string) (string, error) {
	name = strings.TrimPrefix(name, "@")
	v, ok := w.Data[name]
	if !ok {
		return "", Precondition("алиас %q не найден", name)
	}
	return v, nil
}

// URL превращает путь в абсолютный адрес относительно BASE_URL.
func (w *World) URL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", Precondition("пустой адрес")
	}

	u, err := url.Parse(raw)
	if err == nil && u.IsAbs() {
		return raw, nil
	}

	base := strings.TrimRight(w.Settings.BaseURL, "/")
	if base == "" {
		return "", Precondition("относительный адрес %q, но BASE_URL не задан", raw)
	}
	if strings.HasPrefix(raw, "?") || strings.HasPrefix(raw, "#") {
		return base + raw, nil
	}
	return base + "/" + strings.TrimLeft(raw, "/"), nil
}

func (w *World) Goto(ctx context.Context, raw string) error {
	page, err := w.RequirePage()
	if err != nil {
		return err
	}

	target, err := w.URL(raw)
	if err != nil {
		return err
	}

	if err := browser.Navigate(ctx, page, target, w.Settings.NavigateTimeout); err != nil {
		return Browser("переход", err)
	}

	w.Element = nil
	w.Elements = nil
	w.ElementQuery = ""
	w.ElementsQuery = ""
	w.Frame = nil
	w.frames = nil
	return nil
}

// Route перехватывает запросы по шаблону, шаблон снимается при завершении сценария.
func (w *World) Route(pattern string, handler func(playwright.Route)) error {
	page, err := w.RequirePage()
	if err != nil {
		return err
	}
	if err := page.Route(pattern, handler); err != nil {
		return Browser(fmt.Sprintf("перехват %s", pattern), err)
	}
	w.routes = append(w.routes, pattern)
	return nil
}

func (w *World) Routes() []string {
	return append([]string(nil), w.routes...)
}

func (w *World) Unroute() error {
	if w.Page == nil {
		w.routes = nil
		return nil
	}
	var errs []error
	for _, pattern := range w.routes {
		if err := w.Page.Unroute(pattern); err != nil {
			errs = append(errs, fmt.Errorf("снятие перехвата %s: %w", pattern, err))
		}
	}
	w.routes = nil
	return errors.Join(errs...)
}

// Cleanup регистрирует функцию, которая выполнится при завершении сценария.
func (w *World) Cleanup(fn func() error) {
	w.cleanup = append(w.cleanup, fn)
}

// Teardown снимает перехваты и выполняет зарегистрированные функции
// в обратном порядке. Страницу и контекст закрывают хуки.
func (w *World) Teardown() error {
	errs := []error{w.Unroute()}
	for i := len(w.cleanup) - 1; i >= 0; i-- {
		errs = append(errs, w.cleanup[i]())
	}
	w.cleanup = nil
	return errors.Join(errs...)
}

// Debug пишет аргументы шага в лог, маскируя чувствительные значения.
func (w *World) Debug(msg string, fields ...zap.Field) {
	w.Log.Debug(msg, fields...)
}

// Masked возвращает значение поля в безопасном для лога виде.
func (w *World) Masked(selector, value string) string {
	return w.Sanitizer.SanitizeValue(selector, value)
}

// MaskStep готовит текст шага для лога и истории. Ввод без указания поля
// маскируется по запросу текущего элемента.
func (w *World) MaskStep(text string) string {
	return w.Sanitizer.SanitizeStep(text, w.ElementQuery)
}
