package database

import (
	"fmt"

	"gorm.io/gorm"
)

type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) CreateRun(run *ScenarioRun) error {
	if run.Status == "" {
		run.Status = StatusRunning
	}
	return r.db.Create(run).Error
}

func (r *RunRepository) FinishRun(id uint, res RunResult) error {
	return r.db.Model(&ScenarioRun{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          res.Status,
			"error_kind":      res.ErrorKind,
			"error":           res.Error,
			"screenshot_path": res.ScreenshotPath,
			"video_path":      res.VideoPath,
			"trace_path":      res.TracePath,
			"duration_ms":     res.Duration.Milliseconds(),
		}).Error
}

func (r *RunRepository) AddStep(step *StepRun) error {
	if step.ScenarioRunID == 0 {
		return fmt.Errorf("шаг %q без прогона сценария", step.Text)
	}
	return r.db.Create(step).Error
}

func (r *RunRepository) GetRun(id uint) (*ScenarioRun, error) {
	var run ScenarioRun
	if err := r.db.First(&run, id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunRepository) ListRuns(limit, offset int) ([]ScenarioRun, error) {
	var runs []ScenarioRun
	if err := r.db.Order("id DESC").Limit(limit).Offset(offset).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *RunRepository) GetSteps(runID uint) ([]StepRun, error) {
	var steps []StepRun
	if err := r.db.Where("scenario_run_id = ?", runID).Order("step_no ASC").Find(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}
