package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScrollToElement прокручивает страницу к элементу, если он вне области видимости.
func ScrollToElement(locator playwright.Locator) error {
	if locator == nil {
		return fmt.Errorf("элемент не выбран")
	}

	inView, err := IsInViewport(locator)
	if err == nil && inView {
		return nil
	}

	err = locator.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		// запасной вариант для элементов, которые playwright считает нестабильными
		_, err = locator.Evaluate(`el => {
			el.scrollIntoView({
				behavior: 'auto',
				block: 'center',
				inline: 'center'
			});
		}`, nil)
		if err != nil {
			return fmt.Errorf("ошибка прокрутки к элементу: %w", err)
		}
		time.Sleep(200 * time.Millisecond)
	}

	return nil
}

func IsInViewport(locator playwright.Locator) (bool, error) {
	if locator == nil {
		return false, fmt.Errorf("элемент не выбран")
	}

	result, err := locator.Evaluate(`el => {
		if (!el) return false;

		const rect = el.getBoundingClientRect();
		const windowHeight = window.innerHeight || document.documentElement.clientHeight;
		const windowWidth = window.innerWidth || document.documentElement.clientWidth;

		const vertInView = (rect.top <= windowHeight) && ((rect.top + rect.height) >= 0);
		const horInView = (rect.left <= windowWidth) && ((rect.left + rect.width) >= 0);

		return vertInView && horInView;
	}`, nil)
	if err != nil {
		return false, err
	}

	if inView, ok := result.(bool); ok {
		return inView, nil
	}

	return false, nil
}

func ScrollToTop(page playwright.Page) error {
	if page == nil {
		return fmt.Errorf("страница не открыта")
	}

	if _, err := page.Evaluate(`() => window.scrollTo({ top: 0, behavior: 'auto' })`); err != nil {
		return fmt.Errorf("ошибка прокрутки наверх: %w", err)
	}

	return nil
}

func ScrollToBottom(page playwright.Page) error {
	if page == nil {
		return fmt.Errorf("страница не открыта")
	}

	if _, err := page.Evaluate(`() => window.scrollTo({ top: document.body.scrollHeight, behavior: 'auto' })`); err != nil {
		return fmt.Errorf("ошибка прокрутки вниз: %w", err)
	}

	return nil
}

func ScrollBy(page playwright.Page, x, y int) error {
	if page == nil {
		return fmt.Errorf("страница не открыта")
	}

	_, err := page.Evaluate(`(coords) => {
		window.scrollBy({
			top: coords.y,
			left: coords.x,
			behavior: 'auto'
		});
	}`, map[string]int{"x": x, "y": y})
	if err != nil {
		return fmt.Errorf("ошибка прокрутки: %w", err)
	}

	return nil
}
