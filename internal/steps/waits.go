package steps

import (
	"context"
	"time"

	"bddBrowser/internal/browser"
	"bddBrowser/internal/registry"
	"bddBrowser/internal/world"
)

func init() {
	registry.Step(`I wait {int} millisecond(s)`, waitMilliseconds)
	registry.Step(`I wait {int} second(s)`, waitSeconds)
	registry.Step(`I wait for the page to load`, waitForLoad)
	registry.Step(`I wait for load state {string}`, waitForLoadState)
	registry.Step(`I wait for element {string}`, waitForElement)
	registry.Step(`I wait for the element to be visible`, waitForVisible)
	registry.Step(`I wait for the element to be hidden`, waitForHidden)
	registry.Step(`I wait for response {string}`, waitForResponse)
	registry.Step(`I wait for request {string}`, waitForRequest)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d < 0 {
		return world.Precondition("отрицательная пауза %v", d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func waitMilliseconds(ctx context.Context, ms int) error {
	return sleep(ctx, time.Duration(ms)*time.Millisecond)
}

func waitSeconds(ctx context.Context, s int) error {
	return sleep(ctx, time.Duration(s)*time.Second)
}

func waitForLoad(ctx context.Context) error {
	return waitForLoadState(ctx, "load")
}

func waitForLoadState(ctx context.Context, state string) error {
	w, p, err := page(ctx)
	if err != nil {
		return err
	}
	if _, err := browser.ParseLoadState(state); err != nil {
		return world.Precondition("%v", err)
	}
	return world.Browser("ожидание загрузки", browser.WaitForLoadState(p, state, w.Settings.NavigateTimeout))
}

func waitForElement(ctx context.Context, selector string) error {
	w, args, err := resolved(ctx, selector)
	if err != nil {
		return err
	}
	loc, err := w.Locator(args[0])
	if err != nil {
		return err
	}
	loc = loc.First()
	if err := browser.WaitFor(loc, "visible", w.Settings.Timeout); err != nil {
		return world.Browser("ожидание элемента "+args[0], err)
	}
	w.Select(loc, args[0])
	return nil
}

func waitForVisible(ctx context.Context) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Browser("ожидание видимости", browser.WaitFor(el, "visible", w.Settings.Timeout))
}

func waitForHidden(ctx context.Context) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Browser("ожидание скрытия", browser.WaitFor(el, "hidden", w.Settings.Timeout))
}

func waitForResponse(ctx context.Context, pattern string) error {
	w, args, err := resolved(ctx, pattern)
	if err != nil {
		return err
	}
	p, err := w.RequirePage()
	if err != nil {
		return err
	}
	return world.Browser("ожидание ответа", browser.WaitForResponse(ctx, p, args[0], w.Settings.Timeout))
}

func waitForRequest(ctx context.Context, pattern string) error {
	w, args, err := resolved(ctx, pattern)
	if err != nil {
		return err
	}
	p, err := w.RequirePage()
	if err != nil {
		return err
	}
	return world.Browser("ожидание запроса", browser.WaitForRequest(ctx, p, args[0], w.Settings.Timeout))
}
