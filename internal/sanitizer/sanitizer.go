// Package sanitizer маскирует чувствительные данные перед записью в лог
// и в историю прогонов.
package sanitizer

import (
	"regexp"
	"strings"
)

type Rule interface {
	Sanitize(text string) string
}

type DataSanitizer struct {
	rules []Rule
}

func New(extra ...Rule) *DataSanitizer {
	rules := make([]Rule, 0, len(defaultRules)+len(extra))
	rules = append(rules, defaultRules...)
	rules = append(rules, extra...)
	return &DataSanitizer{rules: rules}
}

func (s *DataSanitizer) Sanitize(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, rule := range s.rules {
		result = rule.Sanitize(result)
	}
	return result
}

// Эти слова выдают секрет в любом месте селектора.
var sensitiveFragments = []string{
	"password", "пароль", "passwd", "token", "secret", "api-key", "api_key", "apikey",
	"cvv", "cvc",
}

// Короткие слова считаются только целиком, иначе под маску попадают
// .spinner, shipping, discard и т.п.
var (
	sensitiveWord = regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])(pin|пин|otp|card|pwd)([^\p{L}\p{N}]|$)`)
	camelBoundary = regexp.MustCompile(`(\p{Ll}|\p{N})(\p{Lu})`)
)

func isSensitiveField(selector string) bool {
	lower := strings.ToLower(selector)
	for _, fragment := range sensitiveFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return sensitiveWord.MatchString(camelBoundary.ReplaceAllString(selector, "$1-$2"))
}

// IsSensitiveSelector сообщает, что поле по селектору скорее всего содержит секрет.
func (s *DataSanitizer) IsSensitiveSelector(selector string) bool {
	return isSensitiveField(selector)
}

var opaqueValue = regexp.MustCompile(`^[a-zA-Z0-9_-]{24,}$`)

// SanitizeValue маскирует значение, введенное в поле. Значение целиком заменяется,
// если поле чувствительное или значение похоже на ключ; иначе применяются правила.
func (s *DataSanitizer) SanitizeValue(selector, value string) string {
	if value == "" {
		return value
	}
	if s.IsSensitiveSelector(selector) || opaqueValue.MatchString(value) {
		return "[FILTERED]"
	}
	return s.Sanitize(value)
}

var typeStep = regexp.MustCompile(`^(I type\s+)"([^"]*)"$`)

// SanitizeStep маскирует текст шага. Для ввода без указания поля
// field - запрос, которым выбран текущий элемент.
func (s *DataSanitizer) SanitizeStep(text, field string) string {
	if m := typeStep.FindStringSubmatch(text); m != nil {
		return m[1] + `"` + s.SanitizeValue(field, m[2]) + `"`
	}
	return s.Sanitize(text)
}
