package world

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind int

const (
	KindBrowser ErrorKind = iota
	KindPrecondition
	KindAssertion
)

func (k ErrorKind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindAssertion:
		return "assertion"
	case KindBrowser:
		return "browser"
	default:
		return "unknown"
	}
}

// StepError - ошибка шага с видом, который попадает в историю прогонов.
type StepError struct {
	Kind    ErrorKind
	Step    string
	Message string
	Err     error
}

func (e *StepError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Step == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Step, msg)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Precondition сообщает, что шагу не хватает состояния: нет страницы,
// элемента, алиаса или файла.
func Precondition(format string, args ...any) error {
	return &StepError{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

// Assertion сообщает о непрошедшей проверке.
func Assertion(format string, args ...any) error {
	return &StepError{Kind: KindAssertion, Message: fmt.Sprintf(format, args...)}
}

// Failed оборачивает ошибку playwright-проверки (expect) как непрошедшую проверку.
func Failed(message string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Kind: KindAssertion, Message: message, Err: err}
}

// Browser оборачивает ошибку playwright с описанием действия.
func Browser(action string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Kind: KindBrowser, Message: action, Err: err}
}

// Classify определяет вид произвольной ошибки шага.
func Classify(err error) ErrorKind {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Kind
	}

	if err == nil {
		return KindBrowser
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "expected") ||
		strings.Contains(msg, "ожидал") ||
		strings.Contains(msg, "не совпадает"):
		return KindAssertion
	case strings.Contains(msg, "не найден") ||
		strings.Contains(msg, "не выбран") ||
		strings.Contains(msg, "не открыта"):
		return KindPrecondition
	default:
		return KindBrowser
	}
}
