package steps

import (
	"context"

	"go.uber.org/zap"

	"bddBrowser/internal/registry"
	"bddBrowser/internal/world"
)

func init() {
	registry.Step(`I save the session as {string}`, saveSession)
	registry.Step(`I restore the session {string}`, restoreSession)
	registry.Step(`I delete the session {string}`, deleteSession)
}

func sessions(ctx context.Context, name string) (*world.World, string, error) {
	w, args, err := resolved(ctx, name)
	if err != nil {
		return nil, "", err
	}
	if w.Sessions == nil {
		return nil, "", world.Precondition("каталог сессий не настроен")
	}
	return w, args[0], nil
}

func saveSession(ctx context.Context, name string) error {
	w, n, err := sessions(ctx, name)
	if err != nil {
		return err
	}
	bc, err := w.RequireContext()
	if err != nil {
		return err
	}
	path, err := w.Sessions.Save(bc, n)
	if err != nil {
		return world.Browser("сохранение сессии", err)
	}
	w.Log.Info("Сессия сохранена", zap.String("name", n), zap.String("path", path))
	return nil
}

// restoreSession пересоздает контекст браузера с сохраненным состоянием.
// Текущие страница, выбор элементов и моки сбрасываются.
func restoreSession(ctx context.Context, name string) error {
	w, n, err := sessions(ctx, name)
	if err != nil {
		return err
	}
	if !w.Sessions.Exists(n) {
		return world.Precondition("сессия %q не найдена в %s", n, w.Sessions.Dir)
	}
	if w.Reopen == nil {
		return world.Precondition("восстановление сессии недоступно вне сценария")
	}
	if err := w.Reopen(ctx, w.Sessions.Path(n)); err != nil {
		return world.Browser("восстановление сессии "+n, err)
	}
	w.Log.Info("Сессия восстановлена", zap.String("name", n))
	return nil
}

func deleteSession(ctx context.Context, name string) error {
	w, n, err := sessions(ctx, name)
	if err != nil {
		return err
	}
	return w.Sessions.Delete(n)
}
