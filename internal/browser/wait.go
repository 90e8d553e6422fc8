package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ParseLoadState переводит имя состояния загрузки в значение playwright.
func ParseLoadState(state string) (*playwright.LoadState, error) {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "", "load":
		return playwright.LoadStateLoad, nil
	case "domcontentloaded", "dom":
		return playwright.LoadStateDomcontentloaded, nil
	case "networkidle", "idle":
		return playwright.LoadStateNetworkidle, nil
	default:
		return nil, fmt.Errorf("неизвестное состояние загрузки %q (load, domcontentloaded, networkidle)", state)
	}
}

func WaitForLoadState(page playwright.Page, state string, timeout time.Duration) error {
	if page == nil {
		return fmt.Errorf("страница не открыта")
	}

	loadState, err := ParseLoadState(state)
	if err != nil {
		return err
	}

	return page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   loadState,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

// ParseSelectorState переводит имя состояния элемента в значение playwright.
func ParseSelectorState(state string) (*playwright.WaitForSelectorState, error) {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "attached":
		return playwright.WaitForSelectorStateAttached, nil
	case "detached":
		return playwright.WaitForSelectorStateDetached, nil
	case "", "visible":
		return playwright.WaitForSelectorStateVisible, nil
	case "hidden":
		return playwright.WaitForSelectorStateHidden, nil
	default:
		return nil, fmt.Errorf("неизвестное состояние элемента %q", state)
	}
}

// WaitFor ждет, пока локатор перейдет в состояние state.
func WaitFor(locator playwright.Locator, state string, timeout time.Duration) error {
	if locator == nil {
		return fmt.Errorf("элемент не выбран")
	}

	s, err := ParseSelectorState(state)
	if err != nil {
		return err
	}

	return locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   s,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

var popupCloseSelectors = []string{
	"[role='dialog'] button[aria-label*='close' i]",
	"[role='dialog'] button[aria-label*='закрыть' i]",
	".modal button.close",
	".popup button.close",
	"[data-dismiss='modal']",
	".close-button",
	"button:has-text('×')",
	"button:has-text('✕')",
	"[aria-label='Close']",
	"[aria-label='Закрыть']",
}

var overlaySelectors = []string{
	"[role='dialog']",
	".modal",
	".popup",
	".overlay",
	"[class*='modal']",
	"[class*='popup']",
	"[class*='overlay']",
}

// ClosePopups закрывает видимые модальные окна и баннеры по набору
// распространенных селекторов. Возвращает число нажатых кнопок.
func ClosePopups(page playwright.Page) (int, error) {
	if page == nil {
		return 0, fmt.Errorf("страница не открыта")
	}

	closed := 0
	for _, selector := range popupCloseSelectors {
		elements, err := page.QuerySelectorAll(selector)
		if err != nil {
			continue
		}

		for _, element := range elements {
			isVisible, err := element.IsVisible()
			if err != nil || !isVisible {
				continue
			}

			if err := element.Click(); err == nil {
				closed++
				time.Sleep(300 * time.Millisecond)
			}
		}
	}

	for _, selector := range overlaySelectors {
		elements, err := page.QuerySelectorAll(selector)
		if err != nil {
			continue
		}

		for _, element := range elements {
			isVisible, err := element.IsVisible()
			if err != nil || !isVisible {
				continue
			}

			closeButton, err := element.QuerySelector("button[aria-label*='close' i], button[aria-label*='закрыть' i], .close, [data-dismiss]")
			if err == nil && closeButton != nil {
				if err := closeButton.Click(); err == nil {
					closed++
					time.Sleep(300 * time.Millisecond)
				}
			}
		}
	}

	return closed, nil
}
