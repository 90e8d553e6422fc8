package steps

import (
	"context"
	"fmt"

	"bddBrowser/internal/registry"
	"bddBrowser/internal/world"
)

const (
	localStorage   = "localStorage"
	sessionStorage = "sessionStorage"
)

func init() {
	for _, kind := range []struct {
		phrase  string
		storage string
	}{
		{"local storage", localStorage},
		{"session storage", sessionStorage},
	} {
		storage := kind.storage
		registry.Step(`I set `+kind.phrase+` item {string} to {string}`, func(ctx context.Context, key, value string) error {
			return setStorageItem(ctx, storage, key, value)
		})
		registry.Step(`the `+kind.phrase+` item {string} should be {string}`, func(ctx context.Context, key, want string) error {
			return storageItemIs(ctx, storage, key, want)
		})
		registry.Step(`I remove `+kind.phrase+` item {string}`, func(ctx context.Context, key string) error {
			return removeStorageItem(ctx, storage, key)
		})
		registry.Step(`I clear `+kind.phrase, func(ctx context.Context) error {
			return clearStorage(ctx, storage)
		})
		registry.Step(`I save `+kind.phrase+` item {string} as {string}`, func(ctx context.Context, key, alias string) error {
			return saveStorageItem(ctx, storage, key, alias)
		})
	}
}

// getStorageItem возвращает значение и признак его наличия.
func getStorageItem(w *world.World, storage, key string) (string, bool, error) {
	p, err := w.RequirePage()
	if err != nil {
		return "", false, err
	}
	result, err := p.Evaluate(fmt.Sprintf(`(key) => window.%s.getItem(key)`, storage), key)
	if err != nil {
		return "", false, world.Browser("чтение "+storage, err)
	}
	if result == nil {
		return "", false, nil
	}
	return fmt.Sprintf("%v", result), true, nil
}

func setStorageItem(ctx context.Context, storage, key, value string) error {
	w, args, err := resolved(ctx, key, value)
	if err != nil {
		return err
	}
	p, err := w.RequirePage()
	if err != nil {
		return err
	}
	_, err = p.Evaluate(fmt.Sprintf(`([key, value]) => window.%s.setItem(key, value)`, storage), []string{args[0], args[1]})
	return world.Browser("запись "+storage, err)
}

func storageItemIs(ctx context.Context, storage, key, want string) error {
	w, args, err := resolved(ctx, key, want)
	if err != nil {
		return err
	}
	got, ok, err := getStorageItem(w, storage, args[0])
	if err != nil {
		return err
	}
	if !ok {
		return world.Assertion("%s: ключ %q отсутствует", storage, args[0])
	}
	if got != args[1] {
		return world.Assertion("%s[%q]: ожидалось %q, получено %q", storage, args[0], args[1], got)
	}
	return nil
}

func removeStorageItem(ctx context.Context, storage, key string) error {
	w, args, err := resolved(ctx, key)
	if err != nil {
		return err
	}
	p, err := w.RequirePage()
	if err != nil {
		return err
	}
	_, err = p.Evaluate(fmt.Sprintf(`(key) => window.%s.removeItem(key)`, storage), args[0])
	return world.Browser("удаление из "+storage, err)
}

func clearStorage(ctx context.Context, storage string) error {
	_, p, err := page(ctx)
	if err != nil {
		return err
	}
	_, err = p.Evaluate(fmt.Sprintf(`() => window.%s.clear()`, storage))
	return world.Browser("очистка "+storage, err)
}

func saveStorageItem(ctx context.Context, storage, key, alias string) error {
	w, args, err := resolved(ctx, key)
	if err != nil {
		return err
	}
	got, ok, err := getStorageItem(w, storage, args[0])
	if err != nil {
		return err
	}
	if !ok {
		return world.Precondition("%s: ключ %q отсутствует", storage, args[0])
	}
	remember(w, alias, got)
	return nil
}
