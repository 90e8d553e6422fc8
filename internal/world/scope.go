package world

import (
	"strings"

	"github.com/playwright-community/playwright-go"

	"bddBrowser/internal/browser"
)

// Все поиски элементов идут внутри активного iframe, если он выбран,
// иначе на странице.

func (w *World) Locator(selector string) (playwright.Locator, error) {
	sel, err := browser.PrepareSelector(selector)
	if err != nil {
		return nil, Precondition("%v", err)
	}
	if w.Frame != nil {
		return w.Frame.Locator(sel), nil
	}
	page, err := w.RequirePage()
	if err != nil {
		return nil, err
	}
	return page.Locator(sel), nil
}

func (w *World) ByText(text string, exact bool) (playwright.Locator, error) {
	if w.Frame != nil {
		return w.Frame.GetByText(text, playwright.FrameLocatorGetByTextOptions{Exact: playwright.Bool(exact)}), nil
	}
	page, err := w.RequirePage()
	if err != nil {
		return nil, err
	}
	return page.GetByText(text, playwright.PageGetByTextOptions{Exact: playwright.Bool(exact)}), nil
}

// ByRole ищет по ARIA-роли. Пустое имя означает любой элемент с этой ролью.
func (w *World) ByRole(role, name string) (playwright.Locator, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return nil, Precondition("роль элемента не указана")
	}

	if w.Frame != nil {
		opts := playwright.FrameLocatorGetByRoleOptions{}
		if name != "" {
			opts.Name = name
		}
		return w.Frame.GetByRole(playwright.AriaRole(role), opts), nil
	}

	page, err := w.RequirePage()
	if err != nil {
		return nil, err
	}
	opts := playwright.PageGetByRoleOptions{}
	if name != "" {
		opts.Name = name
	}
	return page.GetByRole(playwright.AriaRole(role), opts), nil
}

func (w *World) ByLabel(label string) (playwright.Locator, error) {
	if w.Frame != nil {
		return w.Frame.GetByLabel(label), nil
	}
	page, err := w.RequirePage()
	if err != nil {
		return nil, err
	}
	return page.GetByLabel(label), nil
}

func (w *World) ByPlaceholder(text string) (playwright.Locator, error) {
	if w.Frame != nil {
		return w.Frame.GetByPlaceholder(text), nil
	}
	page, err := w.RequirePage()
	if err != nil {
		return nil, err
	}
	return page.GetByPlaceholder(text), nil
}

func (w *World) ByTestID(id string) (playwright.Locator, error) {
	if w.Frame != nil {
		return w.Frame.GetByTestId(id), nil
	}
	page, err := w.RequirePage()
	if err != nil {
		return nil, err
	}
	return page.GetByTestId(id), nil
}

// Field находит поле формы по селектору, атрибуту name, подписи или placeholder.
func (w *World) Field(name string) (playwright.Locator, error) {
	if browser.LooksLikeSelector(name) {
		return w.Locator(name)
	}

	candidates := []func() (playwright.Locator, error){
		func() (playwright.Locator, error) { return w.ByLabel(name) },
		func() (playwright.Locator, error) {
			return w.Locator("[name='" + strings.ReplaceAll(name, "'", `\'`) + "']")
		},
		func() (playwright.Locator, error) { return w.ByPlaceholder(name) },
		func() (playwright.Locator, error) { return w.Locator("#" + name) },
	}

	for _, candidate := range candidates {
		loc, err := candidate()
		if err != nil {
			return nil, err
		}
		if n, err := loc.Count(); err == nil && n > 0 {
			return loc.First(), nil
		}
	}

	return nil, Precondition("поле %q не найдено ни по подписи, ни по name, ни по placeholder", name)
}

// EnterFrame переключает область поиска внутрь iframe. Повторный вызов
// входит во вложенный iframe.
func (w *World) EnterFrame(selector string) error {
	sel, err := browser.PrepareSelector(selector)
	if err != nil {
		return Precondition("%v", err)
	}

	if w.Frame != nil {
		w.Frame = w.Frame.FrameLocator(sel)
	} else {
		page, err := w.RequirePage()
		if err != nil {
			return err
		}
		w.Frame = page.FrameLocator(sel)
	}

	w.frames = append(w.frames, sel)
	w.Element, w.ElementQuery = nil, ""
	w.Elements, w.ElementsQuery = nil, ""
	return nil
}

func (w *World) LeaveFrames() {
	w.Frame = nil
	w.frames = nil
	w.Element, w.ElementQuery = nil, ""
	w.Elements, w.ElementsQuery = nil, ""
}

// FramePath возвращает цепочку селекторов активных iframe.
func (w *World) FramePath() []string {
	return append([]string(nil), w.frames...)
}
