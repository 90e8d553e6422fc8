package steps

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/cucumber/godog"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"bddBrowser/internal/browser"
	"bddBrowser/internal/registry"
	"bddBrowser/internal/world"
)

func init() {
	registry.Step(`I click`, click)
	registry.Step(`I click on {string}`, clickOn)
	registry.Step(`I click on button {string}`, clickButton)
	registry.Step(`I click on link {string}`, clickLink)
	registry.Step(`I click on text {string}`, clickText)
	registry.Step(`I double click`, doubleClick)
	registry.Step(`I right click`, rightClick)
	registry.Step(`I hover`, hover)
	registry.Step(`I type {string}`, typeText)
	registry.Step(`I type {string} into {string}`, typeInto)
	registry.Step(`I clear the field`, clearField)
	registry.Step(`I press {string}`, pressKey)
	registry.Step(`I press {string} on the element`, pressOnElement)
	registry.Step(`I check the checkbox`, checkBox)
	registry.Step(`I uncheck the checkbox`, uncheckBox)
	registry.Step(`I select option {string}`, selectOption)
	registry.Step(`I upload file {string}`, uploadFile)
	registry.Step(`I fill the form:`, fillForm)
	registry.Step(`I submit the form`, submitForm)
	registry.Step(`the form should have no empty required fields`, requiredFieldsFilled)
	registry.Step(`I scroll to the element`, scrollToElement)
	registry.Step(`I scroll to the top`, scrollToTop)
	registry.Step(`I scroll to the bottom`, scrollToBottom)
	registry.Step(`I scroll by {int} and {int}`, scrollBy)
	registry.Step(`I close popups`, closePopups)
	registry.Step(`I accept the next dialog`, acceptDialog)
	registry.Step(`I accept the next prompt with {string}`, acceptPrompt)
	registry.Step(`I dismiss the next dialog`, dismissDialog)
}

func click(ctx context.Context) error {
	_, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Browser("клик", el.Click())
}

func clickOn(ctx context.Context, what string) error {
	w, args, err := resolved(ctx, what)
	if err != nil {
		return err
	}
	loc, err := target(w, args[0])
	if err != nil {
		return err
	}
	w.Select(loc, args[0])
	return world.Browser("клик по "+args[0], loc.Click())
}

func clickRole(ctx context.Context, role, name string) error {
	w, args, err := resolved(ctx, name)
	if err != nil {
		return err
	}
	loc, err := w.ByRole(role, args[0])
	if err != nil {
		return err
	}
	loc = loc.First()
	w.Select(loc, args[0])
	return world.Browser("клик по "+role+" "+args[0], loc.Click())
}

func clickButton(ctx context.Context, name string) error {
	return clickRole(ctx, "button", name)
}

func clickLink(ctx context.Context, name string) error {
	return clickRole(ctx, "link", name)
}

func clickText(ctx context.Context, text string) error {
	w, args, err := resolved(ctx, text)
	if err != nil {
		return err
	}
	loc, err := w.ByText(args[0], false)
	if err != nil {
		return err
	}
	loc = loc.First()
	w.Select(loc, args[0])
	return world.Browser("клик по тексту "+args[0], loc.Click())
}

func doubleClick(ctx context.Context) error {
	_, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Browser("двойной клик", el.Dblclick())
}

func rightClick(ctx context.Context) error {
	_, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Browser("правый клик", el.Click(playwright.LocatorClickOptions{
		Button: playwright.MouseButtonRight,
	}))
}

func hover(ctx context.Context) error {
	_, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Browser("наведение", el.Hover())
}

func typeText(ctx context.Context, text string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	v, err := w.Resolve(text)
	if err != nil {
		return err
	}
	w.Debug("Ввод текста", zap.String("value", w.Masked(w.ElementQuery, v)))
	return world.Browser("ввод текста", el.Fill(v))
}

func typeInto(ctx context.Context, text, field string) error {
	w, args, err := resolved(ctx, text, field)
	if err != nil {
		return err
	}
	loc, err := w.Field(args[1])
	if err != nil {
		return err
	}
	w.Select(loc, args[1])
	w.Debug("Ввод текста", zap.String("field", args[1]), zap.String("value", w.Masked(args[1], args[0])))
	return world.Browser("ввод в поле "+args[1], loc.Fill(args[0]))
}

func clearField(ctx context.Context) error {
	_, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Browser("очистка поля", el.Clear())
}

func pressKey(ctx context.Context, key string) error {
	_, p, err := page(ctx)
	if err != nil {
		return err
	}
	return world.Browser("нажатие "+key, p.Keyboard().Press(key))
}

func pressOnElement(ctx context.Context, key string) error {
	_, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Browser("нажатие "+key, el.Press(key))
}

func checkBox(ctx context.Context) error {
	_, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Browser("отметка чекбокса", el.Check())
}

func uncheckBox(ctx context.Context) error {
	_, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Browser("снятие отметки чекбокса", el.Uncheck())
}

func selectOption(ctx context.Context, option string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	v, err := w.Resolve(option)
	if err != nil {
		return err
	}
	return world.Browser("выбор опции", browser.SelectOption(el, v))
}

func uploadFile(ctx context.Context, path string) error {
	w, el, err := element(ctx)
	if err != nil {
		return err
	}
	file, err := w.Resolve(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		return world.Precondition("файл %q не найден", file)
	}
	return world.Browser("загрузка файла", el.SetInputFiles(file))
}

func fillForm(ctx context.Context, table *godog.Table) error {
	w, err := current(ctx)
	if err != nil {
		return err
	}

	rows := tableRows(table, "field", "value")
	if len(rows) == 0 {
		return world.Precondition("таблица формы пуста")
	}

	for i, row := range rows {
		if len(row) != 2 {
			return world.Precondition("строка %d формы: ожидалось 2 колонки (field | value), получено %d", i+1, len(row))
		}
		name, err := w.Resolve(row[0])
		if err != nil {
			return err
		}
		value, err := w.Resolve(row[1])
		if err != nil {
			return err
		}

		field, err := w.Field(name)
		if err != nil {
			return err
		}
		w.Debug("Заполнение поля", zap.String("field", name), zap.String("value", w.Masked(name, value)))
		if err := browser.FillField(field, value); err != nil {
			return world.Browser("заполнение поля "+name, err)
		}
	}
	return nil
}

// form возвращает выбранный элемент, если это форма, иначе первую форму страницы.
func form(ctx context.Context) (playwright.Locator, error) {
	w, err := current(ctx)
	if err != nil {
		return nil, err
	}
	if w.Element != nil {
		if tag, err := browser.FieldKind(w.Element); err == nil && strings.EqualFold(tag, "form") {
			return w.Element, nil
		}
	}
	loc, err := w.Locator("form")
	if err != nil {
		return nil, err
	}
	return loc.First(), nil
}

func submitForm(ctx context.Context) error {
	f, err := form(ctx)
	if err != nil {
		return err
	}
	return world.Browser("отправка формы", browser.SubmitForm(f))
}

func requiredFieldsFilled(ctx context.Context) error {
	f, err := form(ctx)
	if err != nil {
		return err
	}
	empty, err := browser.RequiredEmpty(f)
	if err != nil {
		return world.Browser("проверка формы", err)
	}
	if len(empty) > 0 {
		return world.Assertion("не заполнены обязательные поля: %s", strings.Join(empty, ", "))
	}
	return nil
}

func scrollToElement(ctx context.Context) error {
	_, el, err := element(ctx)
	if err != nil {
		return err
	}
	return world.Browser("прокрутка к элементу", browser.ScrollToElement(el))
}

func scrollToTop(ctx context.Context) error {
	_, p, err := page(ctx)
	if err != nil {
		return err
	}
	return world.Browser("прокрутка", browser.ScrollToTop(p))
}

func scrollToBottom(ctx context.Context) error {
	_, p, err := page(ctx)
	if err != nil {
		return err
	}
	return world.Browser("прокрутка", browser.ScrollToBottom(p))
}

func scrollBy(ctx context.Context, x, y int) error {
	_, p, err := page(ctx)
	if err != nil {
		return err
	}
	return world.Browser("прокрутка", browser.ScrollBy(p, x, y))
}

func closePopups(ctx context.Context) error {
	w, p, err := page(ctx)
	if err != nil {
		return err
	}
	closed, err := browser.ClosePopups(p)
	if err != nil {
		return world.Browser("закрытие попапов", err)
	}
	w.Debug("Закрыты попапы", zap.Int("count", closed))
	return nil
}

func acceptDialog(ctx context.Context) error {
	w, err := current(ctx)
	if err != nil {
		return err
	}
	w.ExpectDialog(true, "")
	return nil
}

func acceptPrompt(ctx context.Context, text string) error {
	w, args, err := resolved(ctx, text)
	if err != nil {
		return err
	}
	w.ExpectDialog(true, args[0])
	return nil
}

func dismissDialog(ctx context.Context) error {
	w, err := current(ctx)
	if err != nil {
		return err
	}
	w.ExpectDialog(false, "")
	return nil
}
