package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"bddBrowser/internal/cli/ui"
	"bddBrowser/internal/registry"
	"bddBrowser/internal/world"
)

// Opener открывает World с живой страницей и возвращает функцию закрытия
type Opener func(ctx context.Context) (*world.World, func() error, error)

// BrowserHandler выполняет шаги в браузерной сессии консоли.
// Сессия открывается при первом шаге и живет до reset или exit.
type BrowserHandler struct {
	reg  *registry.Registry
	open Opener
	out  io.Writer

	world      *world.World
	closeWorld func() error
}

func NewBrowserHandler(reg *registry.Registry, open Opener, out io.Writer) *BrowserHandler {
	return &BrowserHandler{
		reg:  reg,
		open: open,
		out:  out,
	}
}

// Exec сопоставляет строку с шагом и выполняет его
func (h *BrowserHandler) Exec(ctx context.Context, line string) error {
	m, err := h.reg.Match(line)
	if err != nil {
		fmt.Fprintf(h.out, ui.ColorRed+ui.IconCross+" %v"+ui.ColorReset+"\n", err)
		fmt.Fprintln(h.out, ui.ColorGray+"Введите help для списка команд или steps для списка шагов"+ui.ColorReset)
		return err
	}

	if h.world == nil {
		fmt.Fprintln(h.out, ui.ColorCyan+ui.IconGlobe+" Запуск браузера..."+ui.ColorReset)
		w, closeFn, err := h.open(ctx)
		if err != nil {
			fmt.Fprintf(h.out, ui.ColorRed+ui.IconCross+" Ошибка запуска:"+ui.ColorReset+" %v\n", err)
			return err
		}
		h.world, h.closeWorld = w, closeFn
	}

	start := time.Now()
	if _, err := m.Invoke(world.WithWorld(ctx, h.world)); err != nil {
		fmt.Fprintf(h.out, ui.ColorRed+ui.IconCross+" [%s]"+ui.ColorReset+" %v\n", world.Classify(err), err)
		return err
	}
	fmt.Fprintf(h.out, ui.ColorGreen+ui.IconCheckmark+" %s"+ui.ColorReset+" "+ui.ColorGray+"%s"+ui.ColorReset+"\n",
		m.Definition.Expression, ui.FormatDuration(time.Since(start).Milliseconds()))
	return nil
}

// World возвращает текущее состояние сессии или nil
func (h *BrowserHandler) World() *world.World {
	return h.world
}

// Close закрывает сессию. Следующий шаг откроет новую.
func (h *BrowserHandler) Close() error {
	if h.world == nil {
		return nil
	}
	err := h.closeWorld()
	h.world, h.closeWorld = nil, nil
	if err != nil {
		return err
	}
	fmt.Fprintln(h.out, ui.ColorGray+"Браузерная сессия закрыта"+ui.ColorReset)
	return nil
}
