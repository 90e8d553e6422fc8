package commands

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"bddBrowser/internal/cli/ui"
	"bddBrowser/internal/database"
)

// RunStore - чтение истории прогонов
type RunStore interface {
	GetRun(id uint) (*database.ScenarioRun, error)
	ListRuns(limit, offset int) ([]database.ScenarioRun, error)
	GetSteps(runID uint) ([]database.StepRun, error)
}

// RunsHandler выводит последние прогоны сценариев
type RunsHandler struct {
	runs RunStore
	log  *zap.Logger
	out  io.Writer
}

func NewRunsHandler(runs RunStore, log *zap.Logger, out io.Writer) *RunsHandler {
	return &RunsHandler{
		runs: runs,
		log:  log,
		out:  out,
	}
}

func (h *RunsHandler) List(limit int) {
	if h.runs == nil {
		fmt.Fprintln(h.out, ui.ColorYellow+"История прогонов недоступна: задайте DB_HOST"+ui.ColorReset)
		return
	}

	runs, err := h.runs.ListRuns(limit, 0)
	if err != nil {
		h.log.Error("Ошибка чтения прогонов", zap.Error(err))
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Ошибка чтения прогонов"+ui.ColorReset)
		return
	}
	if len(runs) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"Прогонов пока нет"+ui.ColorReset)
		return
	}

	fmt.Fprintln(h.out, "\n"+ui.ColorBold+ui.IconList+" Последние прогоны:"+ui.ColorReset)
	fmt.Fprintln(h.out)
	for _, r := range runs {
		icon, color, text := ui.FormatStatus(r.Status)
		fmt.Fprintf(h.out, "  "+ui.ColorBold+"#%d"+ui.ColorReset+" %s%s %s"+ui.ColorReset+" "+ui.ColorGray+"%s"+ui.ColorReset+"\n",
			r.ID, color, icon, text, ui.FormatDuration(r.DurationMs))
		fmt.Fprintf(h.out, "  "+ui.ColorGray+"└─"+ui.ColorReset+" %s "+ui.ColorGray+"(%s)"+ui.ColorReset+"\n", r.Name, r.Feature)
	}
	fmt.Fprintln(h.out)
}
