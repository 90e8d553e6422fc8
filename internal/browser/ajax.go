package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// WaitForRequest ждет следующий запрос, URL которого содержит urlPattern.
func WaitForRequest(ctx context.Context, page playwright.Page, urlPattern string, timeout time.Duration) error {
	if page == nil {
		return fmt.Errorf("страница не открыта")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan error, 1)
	done := make(chan struct{})

	page.OnRequest(func(request playwright.Request) {
		select {
		case <-done:
			return
		default:
		}
		if strings.Contains(request.URL(), urlPattern) {
			close(done)
			ch <- nil
		}
	})

	select {
	case <-ctx.Done():
		return fmt.Errorf("таймаут ожидания запроса с паттерном %s", urlPattern)
	case err := <-ch:
		return err
	}
}

// WaitForResponse ждет следующий ответ, URL которого содержит urlPattern.
// Статус вне диапазона 2xx-3xx считается ошибкой.
func WaitForResponse(ctx context.Context, page playwright.Page, urlPattern string, timeout time.Duration) error {
	if page == nil {
		return fmt.Errorf("страница не открыта")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan error, 1)
	done := make(chan struct{})

	page.OnResponse(func(response playwright.Response) {
		select {
		case <-done:
			return
		default:
		}
		if strings.Contains(response.URL(), urlPattern) {
			close(done)
			ch <- checkStatus(response.Status())
		}
	})

	select {
	case <-ctx.Done():
		return fmt.Errorf("таймаут ожидания ответа с паттерном %s", urlPattern)
	case err := <-ch:
		return err
	}
}

func checkStatus(status int) error {
	if status >= 200 && status < 400 {
		return nil
	}
	return fmt.Errorf("ответ с ошибкой: статус %d", status)
}
