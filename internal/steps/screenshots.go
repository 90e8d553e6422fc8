package steps

import (
	"context"
	"errors"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"bddBrowser/internal/artifacts"
	"bddBrowser/internal/registry"
	"bddBrowser/internal/snapshot"
	"bddBrowser/internal/world"
)

func init() {
	registry.Step(`I take a screenshot`, takeScreenshot)
	registry.Step(`I take a screenshot named {string}`, takeNamedScreenshot)
	registry.Step(`I take a screenshot of the element named {string}`, takeElementScreenshot)
	registry.Step(`the page should match snapshot {string}`, pageMatchesSnapshot)
	registry.Step(`the element should match snapshot {string}`, elementMatchesSnapshot)
}

func screenshotPath(w *world.World, name string) (string, error) {
	if w.Artifacts == nil {
		return "", world.Precondition("каталог артефактов не настроен")
	}
	path, err := w.Artifacts.Path(artifacts.Screenshots, name, "png")
	if err != nil {
		return "", err
	}
	return path, nil
}

func takeScreenshot(ctx context.Context) error {
	w, err := current(ctx)
	if err != nil {
		return err
	}
	return pageScreenshot(w, w.Scenario)
}

func takeNamedScreenshot(ctx context.Context, name string) error {
	w, args, err := resolved(ctx, name)
	if err != nil {
		return err
	}
	return pageScreenshot(w, args[0])
}

func pageScreenshot(w *world.World, name string) error {
	p, err := w.RequirePage()
	if err != nil {
		return err
	}
	path, err := screenshotPath(w, name)
	if err != nil {
		return err
	}
	if _, err := p.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return world.Browser("скриншот страницы", err)
	}
	w.Screenshots = append(w.Screenshots, path)
	w.Log.Info("Скриншот", zap.String("path", path))
	return nil
}

func takeElementScreenshot(ctx context.Context, name string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	v, err := w.Resolve(name)
	if err != nil {
		return err
	}
	path, err := screenshotPath(w, v)
	if err != nil {
		return err
	}
	if _, err := el.Screenshot(playwright.LocatorScreenshotOptions{
		Path: playwright.String(path),
	}); err != nil {
		return world.Browser("скриншот элемента", err)
	}
	w.Screenshots = append(w.Screenshots, path)
	w.Log.Info("Скриншот элемента", zap.String("path", path))
	return nil
}

func compareSnapshot(w *world.World, name string, shot []byte) error {
	if w.Snapshots == nil {
		return world.Precondition("каталог эталонных снимков не настроен")
	}

	res, err := w.Snapshots.Compare(name, shot)
	if errors.Is(err, snapshot.ErrMismatch) {
		return &world.StepError{Kind: world.KindAssertion, Message: "визуальное сравнение", Err: err}
	}
	if err != nil {
		return err
	}

	switch {
	case res.Created:
		w.Log.Info("Создан эталонный снимок", zap.String("path", res.BaselinePath))
	case res.Updated:
		w.Log.Info("Обновлен эталонный снимок", zap.String("path", res.BaselinePath))
	default:
		w.Debug("Снимок совпадает с эталоном", zap.String("name", name), zap.Int("diff_pixels", res.DiffPixels))
	}
	return nil
}

func pageMatchesSnapshot(ctx context.Context, name string) error {
	w, args, err := resolved(ctx, name)
	if err != nil {
		return err
	}
	p, err := w.RequirePage()
	if err != nil {
		return err
	}
	shot, err := p.Screenshot(playwright.PageScreenshotOptions{
		FullPage:   playwright.Bool(true),
		Animations: playwright.ScreenshotAnimationsDisabled,
	})
	if err != nil {
		return world.Browser("скриншот страницы", err)
	}
	return compareSnapshot(w, args[0], shot)
}

func elementMatchesSnapshot(ctx context.Context, name string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	v, err := w.Resolve(name)
	if err != nil {
		return err
	}
	shot, err := el.Screenshot(playwright.LocatorScreenshotOptions{
		Animations: playwright.ScreenshotAnimationsDisabled,
	})
	if err != nil {
		return world.Browser("скриншот элемента", err)
	}
	return compareSnapshot(w, v, shot)
}
