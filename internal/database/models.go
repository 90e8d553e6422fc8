// Package database хранит историю прогонов сценариев в PostgreSQL.
// Использует GORM ORM с prepared statements.
package database

import "time"

// Статусы прогона сценария и шага.
const (
	StatusRunning = "running"
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusPending = "pending"
)

// ScenarioRun представляет один прогон сценария.
type ScenarioRun struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Feature        string    `gorm:"type:text;not null" json:"feature"`                              // Путь к .feature файлу
	Name           string    `gorm:"type:text;not null" json:"name"`                                 // Имя сценария
	Status         string    `gorm:"type:varchar(16);not null;default:'running'" json:"status"`      // running, passed, failed
	ErrorKind      string    `gorm:"type:varchar(16)" json:"error_kind,omitempty"`                   // precondition, assertion, browser
	Error          string    `gorm:"type:text" json:"error,omitempty"`                               // Текст ошибки
	ScreenshotPath string    `gorm:"type:text" json:"screenshot_path,omitempty"`
	VideoPath      string    `gorm:"type:text" json:"video_path,omitempty"`
	TracePath      string    `gorm:"type:text" json:"trace_path,omitempty"`
	DurationMs     int64     `json:"duration_ms"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// StepRun представляет результат одного шага сценария.
type StepRun struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ScenarioRunID uint      `gorm:"index;not null" json:"scenario_run_id"`
	StepNo        int       `gorm:"not null" json:"step_no"`                       // Номер шага в сценарии
	Text          string    `gorm:"type:text;not null" json:"text"`                // Текст шага
	Status        string    `gorm:"type:varchar(16);not null" json:"status"`
	Error         string    `gorm:"type:text" json:"error,omitempty"`
	DurationMs    int64     `json:"duration_ms"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// RunResult описывает итог сценария для FinishRun.
type RunResult struct {
	Status         string
	ErrorKind      string
	Error          string
	ScreenshotPath string
	VideoPath      string
	TracePath      string
	Duration       time.Duration
}
