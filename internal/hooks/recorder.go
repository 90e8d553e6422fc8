package hooks

import (
	"bddBrowser/internal/database"
)

// Recorder сохраняет историю прогонов. Ошибки записи не валят сценарий.
type Recorder interface {
	StartRun(feature, scenario string) (uint, error)
	RecordStep(step *database.StepRun) error
	FinishRun(id uint, res database.RunResult) error
}

// NopRecorder используется, когда БД не настроена.
type NopRecorder struct{}

func (NopRecorder) StartRun(string, string) (uint, error) { return 0, nil }

func (NopRecorder) RecordStep(*database.StepRun) error { return nil }

func (NopRecorder) FinishRun(uint, database.RunResult) error { return nil }

type RepositoryRecorder struct {
	repo *database.RunRepository
}

func NewRepositoryRecorder(repo *database.RunRepository) *RepositoryRecorder {
	return &RepositoryRecorder{repo: repo}
}

func (r *RepositoryRecorder) StartRun(feature, scenario string) (uint, error) {
	run := database.ScenarioRun{
		Feature: feature,
		Name:    scenario,
		Status:  database.StatusRunning,
	}
	if err := r.repo.CreateRun(&run); err != nil {
		return 0, err
	}
	return run.ID, nil
}

func (r *RepositoryRecorder) RecordStep(step *database.StepRun) error {
	return r.repo.AddStep(step)
}

func (r *RepositoryRecorder) FinishRun(id uint, res database.RunResult) error {
	return r.repo.FinishRun(id, res)
}
