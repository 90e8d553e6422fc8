// Package steps содержит определения шагов Gherkin поверх playwright.
//
// Каждый файл регистрирует свою группу шагов в init() через registry.Step.
// Строковые аргументы проходят через World.Resolve, поэтому вместо литерала
// можно передать "@алиас" или ключ фикстуры.
package steps

import (
	"context"
	"strings"

	"github.com/cucumber/godog"
	"github.com/playwright-community/playwright-go"

	"bddBrowser/internal/browser"
	"bddBrowser/internal/world"
)

func current(ctx context.Context) (*world.World, error) {
	return world.FromContext(ctx)
}

// resolved возвращает World и раскрытые аргументы шага.
func resolved(ctx context.Context, args ...string) (*world.World, []string, error) {
	w, err := world.FromContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	out := make([]string, len(args))
	for i, arg := range args {
		v, err := w.Resolve(arg)
		if err != nil {
			return nil, nil, err
		}
		out[i] = v
	}
	return w, out, nil
}

// element возвращает World и выбранный элемент.
func element(ctx context.Context) (*world.World, playwright.Locator, error) {
	w, err := world.FromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	el, err := w.RequireElement()
	if err != nil {
		return nil, nil, err
	}
	return w, el, nil
}

func page(ctx context.Context) (*world.World, playwright.Page, error) {
	w, err := world.FromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	p, err := w.RequirePage()
	if err != nil {
		return nil, nil, err
	}
	return w, p, nil
}

func expect(w *world.World) playwright.PlaywrightAssertions {
	return playwright.NewPlaywrightAssertions(float64(w.Settings.Timeout.Milliseconds()))
}

func timeoutMs(w *world.World) *float64 {
	return playwright.Float(float64(w.Settings.Timeout.Milliseconds()))
}

// target находит элемент по строке: селектор как есть, иначе по тексту.
func target(w *world.World, s string) (playwright.Locator, error) {
	if browser.LooksLikeSelector(s) {
		loc, err := w.Locator(s)
		if err != nil {
			return nil, err
		}
		return loc.First(), nil
	}
	loc, err := w.ByText(s, false)
	if err != nil {
		return nil, err
	}
	return loc.First(), nil
}

// tableRows возвращает строки таблицы как срезы ячеек. Первая строка
// пропускается, если совпадает с ожидаемым заголовком.
func tableRows(table *godog.Table, header ...string) [][]string {
	if table == nil {
		return nil
	}

	rows := make([][]string, 0, len(table.Rows))
	for i, row := range table.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.Value)
		}
		if i == 0 && isHeader(cells, header) {
			continue
		}
		rows = append(rows, cells)
	}
	return rows
}

func isHeader(cells, header []string) bool {
	if len(header) == 0 || len(cells) != len(header) {
		return false
	}
	for i := range cells {
		if !strings.EqualFold(cells[i], header[i]) {
			return false
		}
	}
	return true
}
