package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bddBrowser/internal/config"
	"bddBrowser/internal/database"
	"bddBrowser/internal/hooks"
	"bddBrowser/internal/logger"
	"bddBrowser/internal/migrations"

	_ "bddBrowser/internal/steps"
)

var rootCmd = &cobra.Command{
	Use:           "bddbrowser",
	Short:         "bddbrowser - шаги Gherkin для браузерных тестов на playwright",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app - общие зависимости команд, которым нужны конфигурация и история прогонов.
type app struct {
	cfg  *config.Cfg
	log  *logger.Zap
	db   *database.Database
	repo *database.RunRepository
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	if !cfg.Database.Enabled() {
		return a, nil
	}

	if err := migrations.Run(cfg, log); err != nil {
		log.Error("Ошибка миграций", zap.Error(err))
		return nil, err
	}
	db, err := database.New(cfg, log)
	if err != nil {
		log.Error("Ошибка подключения к БД", zap.Error(err))
		return nil, err
	}
	a.db = db
	a.repo = database.NewRunRepository(db.DB)
	return a, nil
}

func (a *app) recorder() hooks.Recorder {
	if a.repo == nil {
		return hooks.NopRecorder{}
	}
	return hooks.NewRepositoryRecorder(a.repo)
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close(a.log)
	}
	_ = a.log.Sync()
}
