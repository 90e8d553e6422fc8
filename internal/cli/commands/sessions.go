package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"bddBrowser/internal/cli/ui"
)

// SessionStore - сохраненные сессии браузера
type SessionStore interface {
	List() ([]string, error)
	Load(name string) (*playwright.StorageState, error)
}

// SessionsHandler показывает сессии, доступные тегу @session:<имя>
type SessionsHandler struct {
	sessions SessionStore
	log      *zap.Logger
	out      io.Writer
}

func NewSessionsHandler(sessions SessionStore, log *zap.Logger, out io.Writer) *SessionsHandler {
	return &SessionsHandler{
		sessions: sessions,
		log:      log,
		out:      out,
	}
}

// List выводит сессии с числом cookies и источников localStorage.
func (h *SessionsHandler) List() {
	names, err := h.sessions.List()
	if err != nil {
		h.log.Error("Ошибка чтения сессий", zap.Error(err))
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Ошибка чтения сессий"+ui.ColorReset)
		return
	}
	if len(names) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"Сохраненных сессий нет. Сохраните шагом I save the session as \"<имя>\""+ui.ColorReset)
		return
	}

	fmt.Fprintln(h.out, "\n"+ui.ColorBold+ui.IconList+" Сессии:"+ui.ColorReset)
	fmt.Fprintln(h.out)
	for _, name := range names {
		state, err := h.sessions.Load(name)
		if err != nil {
			fmt.Fprintf(h.out, "  "+ui.ColorRed+ui.IconCross+" %s"+ui.ColorReset+" "+ui.ColorGray+"%v"+ui.ColorReset+"\n", name, err)
			continue
		}
		fmt.Fprintf(h.out, "  "+ui.ColorGreen+"%s"+ui.ColorReset+" "+ui.ColorGray+"cookies: %d, origins: %d"+ui.ColorReset+"\n",
			name, len(state.Cookies), len(state.Origins))
	}
	fmt.Fprintln(h.out)
}

// Show выводит имена cookies и ключи localStorage сессии. Значения не печатаются.
func (h *SessionsHandler) Show(name string) error {
	name = strings.TrimSpace(name)
	state, err := h.sessions.Load(name)
	if err != nil {
		fmt.Fprintf(h.out, ui.ColorRed+ui.IconCross+" %v"+ui.ColorReset+"\n", err)
		return err
	}

	fmt.Fprintln(h.out, "\n"+ui.ColorBold+"Сессия "+name+ui.ColorReset)
	for _, c := range state.Cookies {
		fmt.Fprintf(h.out, "  cookie "+ui.ColorGreen+"%s"+ui.ColorReset+" "+ui.ColorGray+"%s%s"+ui.ColorReset+"\n", c.Name, c.Domain, c.Path)
	}
	for _, o := range state.Origins {
		keys := make([]string, 0, len(o.LocalStorage))
		for _, item := range o.LocalStorage {
			keys = append(keys, item.Name)
		}
		fmt.Fprintf(h.out, "  localStorage "+ui.ColorGreen+"%s"+ui.ColorReset+" "+ui.ColorGray+"%s"+ui.ColorReset+"\n", o.Origin, strings.Join(keys, ", "))
	}
	fmt.Fprintln(h.out)
	return nil
}
