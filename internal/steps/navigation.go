package steps

import (
	"context"
	"regexp"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"bddBrowser/internal/registry"
	"bddBrowser/internal/world"
)

func init() {
	registry.Step(`I open {string}`, openPage)
	registry.Step(`I visit {string}`, openPage)
	registry.Step(`I reload the page`, reloadPage)
	registry.Step(`I go back`, goBack)
	registry.Step(`I go forward`, goForward)
	registry.Step(`I set viewport size to {int} by {int}`, setViewport)
	registry.Step(`the page title should be {string}`, titleShouldBe)
	registry.Step(`the page url should contain {string}`, urlShouldContain)
	registry.Step(`the page url should be {string}`, urlShouldBe)
}

func openPage(ctx context.Context, rawURL string) error {
	w, args, err := resolved(ctx, rawURL)
	if err != nil {
		return err
	}
	w.Debug("Переход", zap.String("url", args[0]))
	return w.Goto(ctx, args[0])
}

func reloadPage(ctx context.Context) error {
	w, p, err := page(ctx)
	if err != nil {
		return err
	}
	if _, err := p.Reload(); err != nil {
		return world.Browser("перезагрузка страницы", err)
	}
	w.Element, w.Elements = nil, nil
	return nil
}

func goBack(ctx context.Context) error {
	w, p, err := page(ctx)
	if err != nil {
		return err
	}
	if _, err := p.GoBack(); err != nil {
		return world.Browser("переход назад", err)
	}
	w.Element, w.Elements = nil, nil
	return nil
}

func goForward(ctx context.Context) error {
	w, p, err := page(ctx)
	if err != nil {
		return err
	}
	if _, err := p.GoForward(); err != nil {
		return world.Browser("переход вперед", err)
	}
	w.Element, w.Elements = nil, nil
	return nil
}

func setViewport(ctx context.Context, width, height int) error {
	_, p, err := page(ctx)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return world.Precondition("недопустимый размер окна %dx%d", width, height)
	}
	return world.Browser("изменение размера окна", p.SetViewportSize(width, height))
}

func titleShouldBe(ctx context.Context, title string) error {
	w, args, err := resolved(ctx, title)
	if err != nil {
		return err
	}
	p, err := w.RequirePage()
	if err != nil {
		return err
	}
	return world.Failed("заголовок страницы", expect(w).Page(p).ToHaveTitle(args[0]))
}

func urlShouldContain(ctx context.Context, part string) error {
	w, args, err := resolved(ctx, part)
	if err != nil {
		return err
	}
	p, err := w.RequirePage()
	if err != nil {
		return err
	}
	re := regexp.MustCompile(regexp.QuoteMeta(args[0]))
	return world.Failed("адрес страницы", expect(w).Page(p).ToHaveURL(re))
}

func urlShouldBe(ctx context.Context, want string) error {
	w, args, err := resolved(ctx, want)
	if err != nil {
		return err
	}
	p, err := w.RequirePage()
	if err != nil {
		return err
	}

	full := args[0]
	if w.Settings.BaseURL != "" {
		if u, err := w.URL(args[0]); err == nil {
			full = u
		}
	}
	return world.Failed("адрес страницы", expect(w).Page(p).ToHaveURL(full, playwright.PageAssertionsToHaveURLOptions{
		Timeout: timeoutMs(w),
	}))
}
