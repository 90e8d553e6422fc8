package main

import (
	"fmt"
	"io"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"github.com/spf13/cobra"

	"bddBrowser/internal/hooks"
)

type runFlags struct {
	format        string
	tags          string
	concurrency   int
	strict        bool
	random        bool
	stopOnFailure bool
	noColors      bool
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Запустить .feature файлы",
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

		opts := godogOptions(runOpts, args, cmd.OutOrStdout(), time.Now)
		if status := suite.TestSuite("bddbrowser", &opts).Run(); status != 0 {
			return fmt.Errorf("прогон завершился с кодом %d", status)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runOpts.format, "format", "f", "pretty", "Формат вывода godog: pretty, progress, cucumber, junit")
	runCmd.Flags().StringVarP(&runOpts.tags, "tags", "t", "", "Фильтр по тегам, например \"@smoke && ~@wip\"")
	runCmd.Flags().IntVarP(&runOpts.concurrency, "concurrency", "c", 1, "Число параллельных сценариев")
	runCmd.Flags().BoolVar(&runOpts.strict, "strict", true, "Падать на неопределенных и pending шагах")
	runCmd.Flags().BoolVar(&runOpts.random, "random", false, "Случайный порядок сценариев")
	runCmd.Flags().BoolVar(&runOpts.stopOnFailure, "stop-on-failure", false, "Остановиться после первого провала")
	runCmd.Flags().BoolVar(&runOpts.noColors, "no-colors", false, "Вывод без цвета")
	rootCmd.AddCommand(runCmd)
}

func godogOptions(f runFlags, paths []string, out io.Writer, now func() time.Time) godog.Options {
	if len(paths) == 0 {
		paths = []string{"features"}
	}
	if f.concurrency < 1 {
		f.concurrency = 1
	}

	opts := godog.Options{
		Format:        f.format,
		Paths:         paths,
		Tags:          f.tags,
		Concurrency:   f.concurrency,
		Strict:        f.strict,
		StopOnFailure: f.stopOnFailure,
		NoColors:      f.noColors,
		Output:        colors.Colored(out),
	}
	if f.noColors {
		opts.Output = colors.Uncolored(out)
	}
	if f.random {
		opts.Randomize = now().UnixNano()
	}
	return opts
}
