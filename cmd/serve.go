package main

import (
	"errors"

	"github.com/spf13/cobra"

	"bddBrowser/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP API истории прогонов и артефактов",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		if a.repo == nil {
			return errors.New("история прогонов не настроена: задайте DB_HOST")
		}
		return server.New(a.cfg, a.log, a.repo).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
