package steps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
	"github.com/playwright-community/playwright-go"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"bddBrowser/internal/registry"
	"bddBrowser/internal/world"
)

func init() {
	registry.Step(`I mock {string} with status {int} and body {string}`, mockBody)
	registry.Step(`I mock {string} with status {int} and JSON:`, mockJSON)
	registry.Step(`I mock {string} with file {string}`, mockFile)
	registry.Step(`I block requests to {string}`, blockRequests)
	registry.Step(`I remove all mocks`, removeMocks)
}

func validStatus(status int) error {
	if status < 100 || status > 599 {
		return world.Precondition("недопустимый HTTP-статус %d", status)
	}
	return nil
}

// fulfill устанавливает перехват, отвечающий заданным содержимым.
func fulfill(w *world.World, pattern string, opts playwright.RouteFulfillOptions) error {
	w.Debug("Мок запроса", zap.String("pattern", pattern), zap.Intp("status", opts.Status))
	return w.Route(pattern, func(route playwright.Route) {
		if err := route.Fulfill(opts); err != nil {
			w.Log.Warn("Ошибка ответа мока", zap.String("pattern", pattern), zap.Error(err))
		}
	})
}

func contentType(body string) string {
	trimmed := strings.TrimSpace(body)
	if (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) && gjson.Valid(trimmed) {
		return "application/json"
	}
	return http.DetectContentType([]byte(body))
}

func mockBody(ctx context.Context, pattern string, status int, body string) error {
	w, args, err := resolved(ctx, pattern, body)
	if err != nil {
		return err
	}
	if err := validStatus(status); err != nil {
		return err
	}
	return fulfill(w, args[0], playwright.RouteFulfillOptions{
		Status:      playwright.Int(status),
		Body:        args[1],
		ContentType: playwright.String(contentType(args[1])),
	})
}

func mockJSON(ctx context.Context, pattern string, status int, doc *godog.DocString) error {
	w, args, err := resolved(ctx, pattern)
	if err != nil {
		return err
	}
	if err := validStatus(status); err != nil {
		return err
	}
	body := strings.TrimSpace(doc.Content)
	if !json.Valid([]byte(body)) {
		return world.Precondition("тело мока %s не является JSON", args[0])
	}
	return fulfill(w, args[0], playwright.RouteFulfillOptions{
		Status:      playwright.Int(status),
		Body:        body,
		ContentType: playwright.String("application/json"),
	})
}

func mockFile(ctx context.Context, pattern, file string) error {
	w, args, err := resolved(ctx, pattern, file)
	if err != nil {
		return err
	}
	path := args[1]
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return world.Precondition("файл мока %q не найден", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return fulfill(w, args[0], playwright.RouteFulfillOptions{
		Status: playwright.Int(http.StatusOK),
		Path:   playwright.String(abs),
	})
}

func blockRequests(ctx context.Context, pattern string) error {
	w, args, err := resolved(ctx, pattern)
	if err != nil {
		return err
	}
	return w.Route(args[0], func(route playwright.Route) {
		if err := route.Abort("blockedbyclient"); err != nil {
			w.Log.Warn("Ошибка блокировки запроса", zap.String("pattern", args[0]), zap.Error(err))
		}
	})
}

func removeMocks(ctx context.Context) error {
	w, err := current(ctx)
	if err != nil {
		return err
	}
	w.Debug("Снятие моков", zap.Strings("routes", w.Routes()))
	return world.Browser("снятие моков", w.Unroute())
}
