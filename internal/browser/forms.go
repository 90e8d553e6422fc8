package browser

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// FieldKind определяет, как заполнять поле формы.
func FieldKind(locator playwright.Locator) (string, error) {
	result, err := locator.Evaluate(`el => {
		const tag = el.tagName.toLowerCase();
		if (tag !== 'input') return tag;
		return (el.getAttribute('type') || 'text').toLowerCase();
	}`, nil)
	if err != nil {
		return "", fmt.Errorf("ошибка определения типа элемента: %w", err)
	}
	return fmt.Sprintf("%v", result), nil
}

// FillField заполняет поле с учетом его типа: select выбирает опцию по
// значению или подписи, checkbox и radio отмечаются по истинности value,
// остальные поля заполняются текстом.
func FillField(locator playwright.Locator, value string) error {
	if locator == nil {
		return fmt.Errorf("поле формы не выбрано")
	}

	kind, err := FieldKind(locator)
	if err != nil {
		return err
	}

	switch kind {
	case "select":
		return SelectOption(locator, value)
	case "checkbox", "radio":
		return locator.SetChecked(IsTruthy(value))
	case "file":
		return locator.SetInputFiles(value)
	default:
		return locator.Fill(value)
	}
}

// SelectOption выбирает опцию по значению, а если такой нет - по подписи.
func SelectOption(locator playwright.Locator, option string) error {
	selected, err := locator.SelectOption(playwright.SelectOptionValues{Values: &[]string{option}})
	if err == nil && len(selected) > 0 {
		return nil
	}

	selected, labelErr := locator.SelectOption(playwright.SelectOptionValues{Labels: &[]string{option}})
	if labelErr != nil {
		if err != nil {
			return fmt.Errorf("не удалось выбрать опцию %q: %w", option, err)
		}
		return fmt.Errorf("не удалось выбрать опцию %q: %w", option, labelErr)
	}
	if len(selected) == 0 {
		return fmt.Errorf("опция %q не найдена", option)
	}
	return nil
}

func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "on", "1", "checked", "да", "x":
		return true
	default:
		return false
	}
}

// SubmitForm нажимает кнопку отправки внутри формы, а без нее - Enter
// в первом поле.
func SubmitForm(form playwright.Locator) error {
	if form == nil {
		return fmt.Errorf("форма не выбрана")
	}

	submit := form.Locator("button[type='submit'], input[type='submit'], button:has-text('Отправить'), button:has-text('Submit')").First()
	if visible, _ := submit.IsVisible(); visible {
		return submit.Click()
	}

	return form.Locator("input, textarea").First().Press("Enter")
}

// RequiredEmpty возвращает имена обязательных полей формы, оставшихся пустыми.
func RequiredEmpty(form playwright.Locator) ([]string, error) {
	if form == nil {
		return nil, fmt.Errorf("форма не выбрана")
	}

	result, err := form.Evaluate(`form => Array.from(form.querySelectorAll('input[required], textarea[required], select[required]'))
		.filter(el => !el.value)
		.map(el => el.name || el.id || 'поле')`, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска обязательных полей: %w", err)
	}

	items, _ := result.([]interface{})
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, fmt.Sprintf("%v", item))
	}
	return names, nil
}
