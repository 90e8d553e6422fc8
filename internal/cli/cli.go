package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"bddBrowser/internal/cli/commands"
	"bddBrowser/internal/cli/ui"
	"bddBrowser/internal/logger"
	"bddBrowser/internal/registry"
)

const historyFile = ".bddbrowser-history"

type CLI struct {
	log             *logger.Zap
	out             io.Writer
	rl              *readline.Instance
	stdin           *bufio.Reader
	reg             *registry.Registry
	stepsHandler    *commands.StepsHandler
	runsHandler     *commands.RunsHandler
	showHandler     *commands.ShowHandler
	sessionsHandler *commands.SessionsHandler
	browserHandler  *commands.BrowserHandler
}

// New собирает консоль. runs может быть nil, если история прогонов не ведется.
func New(reg *registry.Registry, runs commands.RunStore, sessions commands.SessionStore, open commands.Opener, log *logger.Zap) *CLI {
	cli := &CLI{
		log: log,
		out: os.Stdout,
		reg: reg,
	}

	// Инициализация handlers
	cli.stepsHandler = commands.NewStepsHandler(reg, cli.out)
	cli.runsHandler = commands.NewRunsHandler(runs, log.Logger, cli.out)
	cli.showHandler = commands.NewShowHandler(runs, log.Logger, cli.out)
	cli.sessionsHandler = commands.NewSessionsHandler(sessions, log.Logger, cli.out)
	cli.browserHandler = commands.NewBrowserHandler(reg, open, cli.out)

	// Инициализация readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ui.ColorCyan + "bdd> " + ui.ColorReset,
		HistoryFile:     historyFile,
		AutoComplete:    completer(reg),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Warn("Не удалось инициализировать readline, будет использован fallback режим", zap.Error(err))
	} else {
		cli.rl = rl
		cli.out = rl.Stdout()
	}

	return cli
}

// completer подсказывает команды и начало выражений шагов.
func completer(reg *registry.Registry) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("steps"),
		readline.PcItem("match"),
		readline.PcItem("runs"),
		readline.PcItem("show"),
		readline.PcItem("sessions"),
		readline.PcItem("reset"),
		readline.PcItem("help"),
		readline.PcItem("clear"),
		readline.PcItem("exit"),
	}
	seen := make(map[string]bool)
	for _, def := range reg.Definitions() {
		prefix := stepPrefix(def.Expression)
		if prefix == "" || seen[prefix] {
			continue
		}
		seen[prefix] = true
		items = append(items, readline.PcItem(prefix))
	}
	return readline.NewPrefixCompleter(items...)
}

// stepPrefix - литеральное начало выражения до первого параметра.
func stepPrefix(expr string) string {
	if i := strings.IndexAny(expr, "{("); i >= 0 {
		expr = expr[:i]
	}
	return strings.TrimSpace(expr)
}

func (c *CLI) readLine() (string, error) {
	if c.rl != nil {
		return c.rl.Readline()
	}
	// Fallback для работы без readline
	if c.stdin == nil {
		c.stdin = bufio.NewReader(os.Stdin)
	}
	fmt.Fprint(c.out, ui.ColorCyan+"bdd> "+ui.ColorReset)
	line, err := c.stdin.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *CLI) close() {
	if err := c.browserHandler.Close(); err != nil {
		c.log.Warn("Ошибка закрытия браузерной сессии", zap.Error(err))
	}
	if c.rl != nil {
		c.rl.Close()
	}
}

func (c *CLI) Run(ctx context.Context) {
	ui.PrintWelcome(c.out, c.reg.Len())
	defer c.close()

	for {
		// Проверка отмены контекста
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out, "\n"+ui.ColorCyan+ui.IconWave+" Получен сигнал завершения..."+ui.ColorReset)
			return
		default:
		}

		line, err := c.readLine()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return
		} else if err != nil {
			c.log.Error("Ошибка чтения ввода", zap.Error(err))
			return
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !c.handleCommand(ctx, line) {
			return
		}
	}
}

// handleCommand выполняет строку консоли. false означает выход.
func (c *CLI) handleCommand(ctx context.Context, line string) bool {
	switch {
	case line == "exit" || line == "quit":
		fmt.Fprintln(c.out, ui.ColorCyan+ui.IconWave+" До свидания!"+ui.ColorReset)
		return false

	case line == "clear":
		ui.ClearScreen()

	case line == "help":
		ui.PrintHelp(c.out)

	case line == "steps":
		c.stepsHandler.List("", false)

	case strings.HasPrefix(line, "steps "):
		c.stepsHandler.List(strings.TrimPrefix(line, "steps "), false)

	case strings.HasPrefix(line, "match "):
		_ = c.stepsHandler.Match(strings.TrimPrefix(line, "match "))

	case line == "runs":
		c.runsHandler.List(20)

	case strings.HasPrefix(line, "show "):
		c.showHandler.Show(strings.TrimPrefix(line, "show "))

	case line == "sessions":
		c.sessionsHandler.List()

	case strings.HasPrefix(line, "sessions "):
		_ = c.sessionsHandler.Show(strings.TrimPrefix(line, "sessions "))

	case line == "reset":
		if err := c.browserHandler.Close(); err != nil {
			fmt.Fprintf(c.out, ui.ColorRed+ui.IconCross+" %v"+ui.ColorReset+"\n", err)
		}

	default:
		_ = c.browserHandler.Exec(ctx, stripKeyword(line))
	}
	return true
}

var keywords = []string{"Given ", "When ", "Then ", "And ", "But ", "* "}

// stripKeyword убирает ключевое слово Gherkin, чтобы строку можно было
// скопировать прямо из .feature файла.
func stripKeyword(line string) string {
	for _, kw := range keywords {
		if strings.HasPrefix(line, kw) {
			return strings.TrimSpace(strings.TrimPrefix(line, kw))
		}
	}
	return line
}
