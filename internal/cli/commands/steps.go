package commands

import (
	"fmt"
	"io"
	"strings"

	"bddBrowser/internal/cli/ui"
	"bddBrowser/internal/registry"
)

// StepsHandler выводит зарегистрированные шаги и проверяет сопоставление
type StepsHandler struct {
	reg *registry.Registry
	out io.Writer
}

func NewStepsHandler(reg *registry.Registry, out io.Writer) *StepsHandler {
	return &StepsHandler{
		reg: reg,
		out: out,
	}
}

// List выводит шаги, выражение которых содержит filter
func (h *StepsHandler) List(filter string, withRegexp bool) int {
	filter = strings.ToLower(strings.TrimSpace(filter))

	n := 0
	for _, def := range h.reg.Definitions() {
		if filter != "" && !strings.Contains(strings.ToLower(def.Expression), filter) {
			continue
		}
		n++
		fmt.Fprintf(h.out, "  "+ui.ColorGreen+"%s"+ui.ColorReset+"\n", def.Expression)
		if withRegexp {
			fmt.Fprintf(h.out, "  "+ui.ColorGray+"└─ %s"+ui.ColorReset+"\n", def.Regexp.String())
		}
	}
	fmt.Fprintf(h.out, "\n"+ui.ColorGray+"Найдено шагов: %d"+ui.ColorReset+"\n", n)
	return n
}

// Match показывает определение и аргументы для текста шага
func (h *StepsHandler) Match(sentence string) error {
	m, err := h.reg.Match(strings.TrimSpace(sentence))
	if err != nil {
		fmt.Fprintf(h.out, ui.ColorRed+ui.IconCross+" %v"+ui.ColorReset+"\n", err)
		return err
	}

	fmt.Fprintf(h.out, ui.ColorGreen+ui.IconCheckmark+" %s"+ui.ColorReset+"\n", m.Definition.Expression)
	for i, arg := range m.Args {
		fmt.Fprintf(h.out, "  "+ui.ColorGray+"%d:"+ui.ColorReset+" %q\n", i+1, arg)
	}
	return nil
}
