package steps

import (
	"context"
	"net/url"

	"github.com/playwright-community/playwright-go"

	"bddBrowser/internal/registry"
	"bddBrowser/internal/world"
)

func init() {
	registry.Step(`I set cookie {string} with value {string}`, setCookie)
	registry.Step(`the cookie {string} should have value {string}`, cookieHasValue)
	registry.Step(`the cookie {string} should exist`, cookieExists)
	registry.Step(`the cookie {string} should not exist`, cookieAbsent)
	registry.Step(`I delete cookie {string}`, deleteCookie)
	registry.Step(`I clear all cookies`, clearCookies)
	registry.Step(`I save cookie {string} as {string}`, saveCookie)
}

// cookieURL - адрес, к которому привязывается новая cookie: текущая
// страница, если она открыта по http(s), иначе BASE_URL.
func cookieURL(w *world.World) (string, error) {
	if w.Page != nil {
		if u, err := url.Parse(w.Page.URL()); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
			return u.Scheme + "://" + u.Host + "/", nil
		}
	}
	if w.Settings.BaseURL != "" {
		return w.URL("/")
	}
	return "", world.Precondition("не удалось определить адрес для cookie: откройте страницу или задайте BASE_URL")
}

func findCookie(w *world.World, name string) (*playwright.Cookie, error) {
	bc, err := w.RequireContext()
	if err != nil {
		return nil, err
	}
	cookies, err := bc.Cookies()
	if err != nil {
		return nil, world.Browser("чтение cookies", err)
	}
	for i := range cookies {
		if cookies[i].Name == name {
			return &cookies[i], nil
		}
	}
	return nil, nil
}

func setCookie(ctx context.Context, name, value string) error {
	w, args, err := resolved(ctx, name, value)
	if err != nil {
		return err
	}
	bc, err := w.RequireContext()
	if err != nil {
		return err
	}
	target, err := cookieURL(w)
	if err != nil {
		return err
	}

	err = bc.AddCookies([]playwright.OptionalCookie{{
		Name:  args[0],
		Value: args[1],
		URL:   playwright.String(target),
	}})
	return world.Browser("установка cookie "+args[0], err)
}

func cookieHasValue(ctx context.Context, name, value string) error {
	w, args, err := resolved(ctx, name, value)
	if err != nil {
		return err
	}
	c, err := findCookie(w, args[0])
	if err != nil {
		return err
	}
	if c == nil {
		return world.Assertion("cookie %q не найдена", args[0])
	}
	if c.Value != args[1] {
		return world.Assertion("cookie %q: ожидалось %q, получено %q", args[0], args[1], c.Value)
	}
	return nil
}

func cookieExists(ctx context.Context, name string) error {
	w, args, err := resolved(ctx, name)
	if err != nil {
		return err
	}
	c, err := findCookie(w, args[0])
	if err != nil {
		return err
	}
	if c == nil {
		return world.Assertion("cookie %q не найдена", args[0])
	}
	return nil
}

func cookieAbsent(ctx context.Context, name string) error {
	w, args, err := resolved(ctx, name)
	if err != nil {
		return err
	}
	c, err := findCookie(w, args[0])
	if err != nil {
		return err
	}
	if c != nil {
		return world.Assertion("cookie %q существует со значением %q", args[0], c.Value)
	}
	return nil
}

func deleteCookie(ctx context.Context, name string) error {
	w, args, err := resolved(ctx, name)
	if err != nil {
		return err
	}
	bc, err := w.RequireContext()
	if err != nil {
		return err
	}
	return world.Browser("удаление cookie "+args[0], bc.ClearCookies(playwright.BrowserContextClearCookiesOptions{
		Name: args[0],
	}))
}

func clearCookies(ctx context.Context) error {
	w, err := current(ctx)
	if err != nil {
		return err
	}
	bc, err := w.RequireContext()
	if err != nil {
		return err
	}
	return world.Browser("очистка cookies", bc.ClearCookies())
}

func saveCookie(ctx context.Context, name, alias string) error {
	w, args, err := resolved(ctx, name)
	if err != nil {
		return err
	}
	c, err := findCookie(w, args[0])
	if err != nil {
		return err
	}
	if c == nil {
		return world.Precondition("cookie %q не найдена", args[0])
	}
	remember(w, alias, c.Value)
	return nil
}
