package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bddBrowser/internal/cli"
	"bddBrowser/internal/cli/commands"
	"bddBrowser/internal/hooks"
	"bddBrowser/internal/registry"
	"bddBrowser/internal/session"
	"bddBrowser/internal/world"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Интерактивная консоль: шаги выполняются в живом браузере",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		suite, err := hooks.New(a.cfg, a.log, a.recorder())
		if err != nil {
			return err
		}
		defer func() {
			if err := suite.Browser.Close(); err != nil {
				a.log.Warn("Ошибка закрытия браузера", zap.Error(err))
			}
		}()

		open := func(ctx context.Context) (*world.World, func() error, error) {
			return suite.Standalone(ctx, "console")
		}

		var runs commands.RunStore
		if a.repo != nil {
			runs = a.repo
		}

		sessions := session.NewStore(a.cfg.Sessions.Dir)
		cli.New(registry.Default(), runs, sessions, open, a.log).Run(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
