package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bddBrowser/internal/cli/commands"
	"bddBrowser/internal/registry"
)

var stepsRegexp bool

var stepsCmd = &cobra.Command{
	Use:   "steps [filter]",
	Short: "Список зарегистрированных шагов",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := ""
		if len(args) == 1 {
			filter = args[0]
		}
		RunSteps(cmd.OutOrStdout(), filter, stepsRegexp)
		return nil
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <sentence>",
	Short: "Показать, какому шагу соответствует предложение",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunMatch(cmd.OutOrStdout(), strings.Join(args, " "))
	},
}

func init() {
	stepsCmd.Flags().BoolVar(&stepsRegexp, "regexp", false, "Показать скомпилированные регулярные выражения")
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(matchCmd)
}

func RunSteps(w io.Writer, filter string, withRegexp bool) int {
	return commands.NewStepsHandler(registry.Default(), w).List(filter, withRegexp)
}

func RunMatch(w io.Writer, sentence string) error {
	return commands.NewStepsHandler(registry.Default(), w).Match(sentence)
}
