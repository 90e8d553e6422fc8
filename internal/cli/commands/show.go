package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"bddBrowser/internal/cli/ui"
)

// ShowHandler обрабатывает команды просмотра деталей
type ShowHandler struct {
	runs RunStore
	log  *zap.Logger
	out  io.Writer
}

func NewShowHandler(runs RunStore, log *zap.Logger, out io.Writer) *ShowHandler {
	return &ShowHandler{
		runs: runs,
		log:  log,
		out:  out,
	}
}

// Show выводит детали прогона со всеми шагами
func (h *ShowHandler) Show(idStr string) {
	if h.runs == nil {
		fmt.Fprintln(h.out, ui.ColorYellow+"История прогонов недоступна: задайте DB_HOST"+ui.ColorReset)
		return
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(idStr), "#"), 10, 64)
	if err != nil {
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Неверный ID прогона"+ui.ColorReset)
		return
	}
	run, err := h.runs.GetRun(uint(id))
	if err != nil {
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Прогон не найден"+ui.ColorReset)
		return
	}

	_, color, statusText := ui.FormatStatus(run.Status)

	fmt.Fprintf(h.out, "\n"+ui.ColorBold+"=== Прогон #%d ==="+ui.ColorReset+"\n", run.ID)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconDocument+" Сценарий:"+ui.ColorReset+" %s\n", run.Name)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconDocument+" Feature:"+ui.ColorReset+" %s\n", run.Feature)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconChart+" Статус:"+ui.ColorReset+" %s%s"+ui.ColorReset+"\n", color, statusText)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconTime+" Начат:"+ui.ColorReset+" %s, %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"), ui.FormatDuration(run.DurationMs))
	if run.Error != "" {
		fmt.Fprintf(h.out, ui.ColorRed+"Ошибка (%s):"+ui.ColorReset+" %s\n", run.ErrorKind, run.Error)
	}
	if run.ScreenshotPath != "" {
		fmt.Fprintf(h.out, ui.ColorCyan+ui.IconCamera+" Скриншот:"+ui.ColorReset+" %s\n", run.ScreenshotPath)
	}
	if run.VideoPath != "" {
		fmt.Fprintf(h.out, ui.ColorCyan+ui.IconFilm+" Видео:"+ui.ColorReset+" %s\n", run.VideoPath)
	}
	if run.TracePath != "" {
		fmt.Fprintf(h.out, ui.ColorCyan+" Трассировка:"+ui.ColorReset+" %s\n", run.TracePath)
	}

	steps, err := h.runs.GetSteps(run.ID)
	if err != nil {
		h.log.Error("Ошибка получения шагов", zap.Error(err))
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Ошибка получения шагов"+ui.ColorReset)
		return
	}

	if len(steps) > 0 {
		fmt.Fprintf(h.out, "\n"+ui.ColorYellow+ui.IconList+" Шаги (%d):"+ui.ColorReset+"\n", len(steps))
		for _, step := range steps {
			icon, color, _ := ui.FormatStatus(step.Status)
			fmt.Fprintf(h.out, "  %s%s"+ui.ColorReset+" "+ui.ColorBold+"[%d]"+ui.ColorReset+" %s "+ui.ColorGray+"%s"+ui.ColorReset+"\n",
				color, icon, step.StepNo, step.Text, ui.FormatDuration(step.DurationMs))
			if step.Error != "" {
				fmt.Fprintf(h.out, "      "+ui.ColorRed+"%s"+ui.ColorReset+"\n", step.Error)
			}
		}
	} else {
		fmt.Fprintln(h.out, "\n"+ui.ColorGray+"Шаги не найдены"+ui.ColorReset)
	}
	fmt.Fprintln(h.out)
}
