package steps

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"bddBrowser/internal/registry"
	"bddBrowser/internal/world"
)

func init() {
	registry.Step(`I save the element text as {string}`, saveElementText)
	registry.Step(`I save the element value as {string}`, saveElementValue)
	registry.Step(`I save the element attribute {string} as {string}`, saveElementAttribute)
	registry.Step(`I save the page url as {string}`, savePageURL)
	registry.Step(`I save {string} as {string}`, saveValue)
	registry.Step(`I save fixture {string} as {string}`, saveFixture)
	registry.Step(`the alias {string} should equal {string}`, aliasEquals)
	registry.Step(`the alias {string} should contain {string}`, aliasContains)
}

func remember(w *world.World, alias, value string) {
	w.Remember(alias, value)
	w.Debug("Сохранено значение", zap.String("alias", alias), zap.String("value", w.Masked(alias, value)))
}

func saveElementText(ctx context.Context, alias string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	text, err := el.InnerText()
	if err != nil {
		return world.Browser("чтение текста элемента", err)
	}
	remember(w, alias, strings.TrimSpace(text))
	return nil
}

func saveElementValue(ctx context.Context, alias string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	value, err := el.InputValue()
	if err != nil {
		return world.Browser("чтение значения поля", err)
	}
	remember(w, alias, value)
	return nil
}

func saveElementAttribute(ctx context.Context, name, alias string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	value, err := el.GetAttribute(name)
	if err != nil {
		return world.Browser("чтение атрибута "+name, err)
	}
	remember(w, alias, value)
	return nil
}

func savePageURL(ctx context.Context, alias string) error {
	w, p, err := page(ctx)
	if err != nil {
		return err
	}
	remember(w, alias, p.URL())
	return nil
}

func saveValue(ctx context.Context, value, alias string) error {
	w, args, err := resolved(ctx, value)
	if err != nil {
		return err
	}
	remember(w, alias, args[0])
	return nil
}

func aliasEquals(ctx context.Context, alias, want string) error {
	w, args, err := resolved(ctx, want)
	if err != nil {
		return err
	}
	got, err := w.Recall(alias)
	if err != nil {
		return err
	}
	if got != args[0] {
		return world.Assertion("алиас %q: ожидалось %q, получено %q", alias, args[0], got)
	}
	return nil
}

func aliasContains(ctx context.Context, alias, part string) error {
	w, args, err := resolved(ctx, part)
	if err != nil {
		return err
	}
	got, err := w.Recall(alias)
	if err != nil {
		return err
	}
	if !strings.Contains(got, args[0]) {
		return world.Assertion("алиас %q: ожидалось, что %q содержит %q", alias, got, args[0])
	}
	return nil
}

// saveFixture в отличие от Resolve не подставляет литерал: ключ обязан существовать.
func saveFixture(ctx context.Context, key, alias string) error {
	w, err := current(ctx)
	if err != nil {
		return err
	}
	v, err := w.Fixtures.MustLookup(key)
	if err != nil {
		return world.Precondition("%v", err)
	}
	remember(w, alias, v)
	return nil
}
