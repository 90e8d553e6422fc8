package browser

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	colonSpacePattern       = regexp.MustCompile(`^([^:]+):\s+(.+)$`)
	containsPatternDouble   = regexp.MustCompile(`:contains\("([^"]*)"\)`)
	containsPatternSingle   = regexp.MustCompile(`:contains\('([^']*)'\)`)
	containsPatternNoQuotes = regexp.MustCompile(`:contains\(([^)"']+)\)`)
)

var knownPseudoClasses = []string{":hover", ":focus", ":active", ":visited", ":link", ":checked",
	":disabled", ":enabled", ":first-child", ":last-child", ":nth-child", ":nth-of-type",
	":has-text", ":has", ":not", ":contains", ":text", ":visible", ":nth-match"}

// NormalizeSelector приводит селектор к синтаксису Playwright.
// jQuery :contains() превращается в :has-text(), а запись вида
// "button: Текст" - в button:has-text("Текст").
// Возвращает нормализованный селектор и признак изменения.
func NormalizeSelector(selector string) (string, bool) {
	if selector == "" {
		return selector, false
	}

	normalized := selector
	changed := false

	if submatch := colonSpacePattern.FindStringSubmatch(normalized); len(submatch) == 3 {
		tagPart := strings.TrimSpace(submatch[1])
		textPart := strings.TrimSpace(submatch[2])

		isPseudo := false
		for _, pseudo := range knownPseudoClasses {
			if strings.HasSuffix(tagPart, pseudo) || strings.Contains(normalized, pseudo+"(") {
				isPseudo = true
				break
			}
		}

		if !isPseudo && tagPart != "" && textPart != "" && !strings.ContainsAny(tagPart, "=>") {
			changed = true
			textPart = strings.ReplaceAll(textPart, `"`, `\"`)
			normalized = tagPart + `:has-text("` + textPart + `")`
		}
	}

	normalized = containsPatternDouble.ReplaceAllStringFunc(normalized, func(match string) string {
		changed = true
		text := containsPatternDouble.FindStringSubmatch(match)[1]
		text = strings.ReplaceAll(text, `\`, `\\`)
		return `:has-text("` + text + `")`
	})

	normalized = containsPatternSingle.ReplaceAllStringFunc(normalized, func(match string) string {
		changed = true
		text := containsPatternSingle.FindStringSubmatch(match)[1]
		text = strings.ReplaceAll(text, `\`, `\\`)
		return `:has-text('` + text + `')`
	})

	normalized = containsPatternNoQuotes.ReplaceAllStringFunc(normalized, func(match string) string {
		changed = true
		text := strings.TrimSpace(containsPatternNoQuotes.FindStringSubmatch(match)[1])
		return `:has-text("` + text + `")`
	})

	return normalized, changed
}

// ValidateSelector отсекает пустые селекторы и URL, переданные вместо селектора.
func ValidateSelector(selector string) error {
	trimmed := strings.TrimSpace(selector)
	if trimmed == "" {
		return fmt.Errorf("селектор не может быть пустым")
	}

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return fmt.Errorf("селектор не может быть URL, для перехода используйте шаг 'I open': %s", selector)
	}

	if strings.Contains(trimmed, "://") {
		return fmt.Errorf("селектор не может содержать протокол (://): %s", selector)
	}

	return nil
}

// PrepareSelector проверяет и нормализует селектор.
func PrepareSelector(selector string) (string, error) {
	if err := ValidateSelector(selector); err != nil {
		return "", fmt.Errorf("невалидный селектор: %w", err)
	}
	normalized, _ := NormalizeSelector(strings.TrimSpace(selector))
	return normalized, nil
}

// LooksLikeSelector отличает CSS/XPath/Playwright-селектор от
// человекочитаемого имени поля ("Email", "Имя пользователя").
func LooksLikeSelector(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	switch s[0] {
	case '#', '.', '[', '/', '(':
		return true
	}
	if strings.HasPrefix(s, "xpath=") || strings.HasPrefix(s, "css=") ||
		strings.HasPrefix(s, "text=") || strings.HasPrefix(s, "data-testid=") {
		return true
	}
	return strings.ContainsAny(s, "[]>:=")
}
