package steps

import (
	"context"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"bddBrowser/internal/registry"
	"bddBrowser/internal/world"
)

func init() {
	registry.Step(`I find element by selector {string}`, findBySelector)
	registry.Step(`I find elements by selector {string}`, findAllBySelector)
	registry.Step(`I find element by text {string}`, findByText)
	registry.Step(`I find button {string}`, findButton)
	registry.Step(`I find link {string}`, findLink)
	registry.Step(`I find element by role {string} named {string}`, findByRole)
	registry.Step(`I find element by label {string}`, findByLabel)
	registry.Step(`I find element by placeholder {string}`, findByPlaceholder)
	registry.Step(`I find element by test id {string}`, findByTestID)
	registry.Step(`I select element number {int}`, selectNth)
	registry.Step(`I select the first element`, selectFirst)
	registry.Step(`I select the last element`, selectLast)
	registry.Step(`I switch to iframe {string}`, switchToFrame)
	registry.Step(`I switch to the main frame`, switchToMainFrame)
}

// find выполняет поиск и делает первый найденный элемент текущим.
func find(ctx context.Context, arg string, lookup func(w *world.World, v string) (playwright.Locator, error)) error {
	w, args, err := resolved(ctx, arg)
	if err != nil {
		return err
	}
	loc, err := lookup(w, args[0])
	if err != nil {
		return err
	}
	w.Select(loc.First(), args[0])
	w.Debug("Выбран элемент", zap.String("query", args[0]))
	return nil
}

func findBySelector(ctx context.Context, selector string) error {
	return find(ctx, selector, func(w *world.World, v string) (playwright.Locator, error) {
		return w.Locator(v)
	})
}

func findAllBySelector(ctx context.Context, selector string) error {
	w, args, err := resolved(ctx, selector)
	if err != nil {
		return err
	}
	loc, err := w.Locator(args[0])
	if err != nil {
		return err
	}
	w.SelectAll(loc, args[0])
	return nil
}

func findByText(ctx context.Context, text string) error {
	return find(ctx, text, func(w *world.World, v string) (playwright.Locator, error) {
		return w.ByText(v, false)
	})
}

func findButton(ctx context.Context, name string) error {
	return find(ctx, name, func(w *world.World, v string) (playwright.Locator, error) {
		return w.ByRole("button", v)
	})
}

func findLink(ctx context.Context, name string) error {
	return find(ctx, name, func(w *world.World, v string) (playwright.Locator, error) {
		return w.ByRole("link", v)
	})
}

func findByRole(ctx context.Context, role, name string) error {
	w, args, err := resolved(ctx, role, name)
	if err != nil {
		return err
	}
	loc, err := w.ByRole(args[0], args[1])
	if err != nil {
		return err
	}
	w.Select(loc.First(), args[1])
	return nil
}

func findByLabel(ctx context.Context, label string) error {
	return find(ctx, label, func(w *world.World, v string) (playwright.Locator, error) {
		return w.ByLabel(v)
	})
}

func findByPlaceholder(ctx context.Context, text string) error {
	return find(ctx, text, func(w *world.World, v string) (playwright.Locator, error) {
		return w.ByPlaceholder(v)
	})
}

func findByTestID(ctx context.Context, id string) error {
	return find(ctx, id, func(w *world.World, v string) (playwright.Locator, error) {
		return w.ByTestID(v)
	})
}

// selectNth выбирает элемент набора по номеру, начиная с 1.
func selectNth(ctx context.Context, n int) error {
	w, err := current(ctx)
	if err != nil {
		return err
	}
	all, err := w.RequireElements()
	if err != nil {
		return err
	}
	if n < 1 {
		return world.Precondition("номер элемента начинается с 1, получено %d", n)
	}

	count, err := all.Count()
	if err != nil {
		return world.Browser("подсчет элементов", err)
	}
	if n > count {
		return world.Precondition("элемент №%d не найден, всего элементов: %d", n, count)
	}

	w.Select(all.Nth(n-1), w.ElementsQuery)
	return nil
}

func selectFirst(ctx context.Context) error {
	w, err := current(ctx)
	if err != nil {
		return err
	}
	all, err := w.RequireElements()
	if err != nil {
		return err
	}
	w.Select(all.First(), w.ElementsQuery)
	return nil
}

func selectLast(ctx context.Context) error {
	w, err := current(ctx)
	if err != nil {
		return err
	}
	all, err := w.RequireElements()
	if err != nil {
		return err
	}
	w.Select(all.Last(), w.ElementsQuery)
	return nil
}

func switchToFrame(ctx context.Context, selector string) error {
	w, args, err := resolved(ctx, selector)
	if err != nil {
		return err
	}
	if err := w.EnterFrame(args[0]); err != nil {
		return err
	}
	w.Debug("Поиск внутри iframe", zap.Strings("frames", w.FramePath()))
	return nil
}

func switchToMainFrame(ctx context.Context) error {
	w, err := current(ctx)
	if err != nil {
		return err
	}
	w.LeaveFrames()
	return nil
}
