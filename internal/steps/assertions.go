package steps

import (
	"context"
	"fmt"
	"regexp"

	"github.com/cucumber/godog"
	"github.com/playwright-community/playwright-go"

	"bddBrowser/internal/registry"
	"bddBrowser/internal/world"
)

func init() {
	registry.Step(`I see text {string}`, seeText)
	registry.Step(`I do not see text {string}`, notSeeText)
	registry.Step(`I see the following texts:`, seeTexts)
	registry.Step(`the element should be visible`, elementVisible)
	registry.Step(`the element should be hidden`, elementHidden)
	registry.Step(`the element should be enabled`, elementEnabled)
	registry.Step(`the element should be disabled`, elementDisabled)
	registry.Step(`the element should be checked`, elementChecked)
	registry.Step(`the element should not be checked`, elementNotChecked)
	registry.Step(`the element should have text {string}`, elementHasText)
	registry.Step(`the element should contain text {string}`, elementContainsText)
	registry.Step(`the element should have value {string}`, elementHasValue)
	registry.Step(`the element should have attribute {string} with value {string}`, elementHasAttribute)
	registry.Step(`the element should have class {string}`, elementHasClass)
	registry.Step(`I should see {int} element(s)`, elementCount)
	registry.Step(`element {string} should be visible`, selectorVisible)
	registry.Step(`element {string} should not exist`, selectorAbsent)
}

func seeText(ctx context.Context, text string) error {
	w, args, err := resolved(ctx, text)
	if err != nil {
		return err
	}
	loc, err := w.ByText(args[0], false)
	if err != nil {
		return err
	}
	return world.Failed(fmt.Sprintf("текст %q не найден на странице", args[0]), expect(w).Locator(loc.First()).ToBeVisible())
}

func notSeeText(ctx context.Context, text string) error {
	w, args, err := resolved(ctx, text)
	if err != nil {
		return err
	}
	loc, err := w.ByText(args[0], false)
	if err != nil {
		return err
	}
	return world.Failed(fmt.Sprintf("текст %q виден на странице", args[0]), expect(w).Locator(loc.First()).ToBeHidden())
}

func seeTexts(ctx context.Context, table *godog.Table) error {
	rows := tableRows(table, "text")
	if len(rows) == 0 {
		return world.Precondition("таблица текстов пуста")
	}
	for _, row := range rows {
		for _, cell := range row {
			if cell == "" {
				continue
			}
			if err := seeText(ctx, cell); err != nil {
				return err
			}
		}
	}
	return nil
}

// elementCheck выполняет проверку над выбранным элементом.
func elementCheck(ctx context.Context, what string, check func(playwright.LocatorAssertions) error) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Failed(what, check(expect(w).Locator(el)))
}

func elementVisible(ctx context.Context) error {
	return elementCheck(ctx, "элемент не виден", func(a playwright.LocatorAssertions) error { return a.ToBeVisible() })
}

func elementHidden(ctx context.Context) error {
	return elementCheck(ctx, "элемент виден", func(a playwright.LocatorAssertions) error { return a.ToBeHidden() })
}

func elementEnabled(ctx context.Context) error {
	return elementCheck(ctx, "элемент недоступен", func(a playwright.LocatorAssertions) error { return a.ToBeEnabled() })
}

func elementDisabled(ctx context.Context) error {
	return elementCheck(ctx, "элемент доступен", func(a playwright.LocatorAssertions) error { return a.ToBeDisabled() })
}

func elementChecked(ctx context.Context) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Failed("элемент не отмечен", expect(w).Locator(el).ToBeChecked())
}

func elementNotChecked(ctx context.Context) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Failed("элемент отмечен", expect(w).Locator(el).Not().ToBeChecked())
}

func elementHasText(ctx context.Context, text string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	v, err := w.Resolve(text)
	if err != nil {
		return err
	}
	return world.Failed(fmt.Sprintf("ожидался текст %q", v), expect(w).Locator(el).ToHaveText(v))
}

func elementContainsText(ctx context.Context, text string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	v, err := w.Resolve(text)
	if err != nil {
		return err
	}
	return world.Failed(fmt.Sprintf("ожидалось, что текст содержит %q", v), expect(w).Locator(el).ToContainText(v))
}

func elementHasValue(ctx context.Context, value string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	v, err := w.Resolve(value)
	if err != nil {
		return err
	}
	return world.Failed(fmt.Sprintf("ожидалось значение %q", v), expect(w).Locator(el).ToHaveValue(v))
}

func elementHasAttribute(ctx context.Context, name, value string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	v, err := w.Resolve(value)
	if err != nil {
		return err
	}
	return world.Failed(fmt.Sprintf("ожидался атрибут %s=%q", name, v), expect(w).Locator(el).ToHaveAttribute(name, v))
}

func elementHasClass(ctx context.Context, class string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	re := regexp.MustCompile(`(^|\s)` + regexp.QuoteMeta(class) + `(\s|$)`)
	return world.Failed(fmt.Sprintf("ожидался класс %q", class), expect(w).Locator(el).ToHaveClass(re))
}

func elementCount(ctx context.Context, n int) error {
	w, err := current(ctx)
	if err != nil {
		return err
	}
	all, err := w.RequireElements()
	if err != nil {
		return err
	}
	return world.Failed(fmt.Sprintf("ожидалось элементов: %d", n), expect(w).Locator(all).ToHaveCount(n))
}

func selectorVisible(ctx context.Context, selector string) error {
	w, args, err := resolved(ctx, selector)
	if err != nil {
		return err
	}
	loc, err := w.Locator(args[0])
	if err != nil {
		return err
	}
	return world.Failed(fmt.Sprintf("элемент %s не виден", args[0]), expect(w).Locator(loc.First()).ToBeVisible())
}

func selectorAbsent(ctx context.Context, selector string) error {
	w, args, err := resolved(ctx, selector)
	if err != nil {
		return err
	}
	loc, err := w.Locator(args[0])
	if err != nil {
		return err
	}
	return world.Failed(fmt.Sprintf("элемент %s существует", args[0]), expect(w).Locator(loc).ToHaveCount(0))
}
