package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bddBrowser/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Database{Host: "db", Port: "5432", Name: "runs", User: "qa", Password: "secret"}

	assert.Equal(t, "host=db port=5432 user=qa password=secret dbname=runs sslmode=disable", DSN(cfg))
	assert.Equal(t, "postgres://qa:secret@db:5432/runs?sslmode=disable", URL(cfg))
}

func TestAddStep_RequiresRun(t *testing.T) {
	repo := NewRunRepository(nil)

	err := repo.AddStep(&StepRun{Text: "I click", Status: StatusPassed, DurationMs: time.Second.Milliseconds()})
	assert.ErrorContains(t, err, "без прогона")
}
