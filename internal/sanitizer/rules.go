package sanitizer

import "regexp"

// patternRule заменяет все совпадения набора выражений на replacement.
type patternRule struct {
	name        string
	patterns    []*regexp.Regexp
	replacement string
}

func (r patternRule) Sanitize(text string) string {
	for _, pattern := range r.patterns {
		text = pattern.ReplaceAllString(text, r.replacement)
	}
	return text
}

// typedValueRule прячет значение в шаге `I type "<v>" into "<поле>"`,
// если поле чувствительное или значение похоже на ключ.
type typedValueRule struct{}

var typeIntoStep = regexp.MustCompile(`(?i)\b(type\s+)"([^"]*)"(\s+into\s+)"([^"]*)"`)

func (typedValueRule) Sanitize(text string) string {
	return typeIntoStep.ReplaceAllStringFunc(text, func(m string) string {
		g := typeIntoStep.FindStringSubmatch(m)
		if g[2] == "" || (!isSensitiveField(g[4]) && !opaqueValue.MatchString(g[2])) {
			return m
		}
		return g[1] + `"[FILTERED]"` + g[3] + `"` + g[4] + `"`
	})
}

func rule(name, replacement string, exprs ...string) patternRule {
	patterns := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		patterns[i] = regexp.MustCompile(expr)
	}
	return patternRule{name: name, patterns: patterns, replacement: replacement}
}

// Порядок важен: ключ=значение обрабатываются раньше, чем общие шаблоны
// вроде номеров карт и телефонов.
var defaultRules = []Rule{
	typedValueRule{},
	rule("password", `${1}: [FILTERED]`,
		`(?i)(password|пароль)\s*[:=]\s*["']?([^"'\s]{3,})["']?`,
		`(?i)(passwd|pwd)\s*[:=]\s*["']?([^"'\s]{3,})["']?`,
	),
	rule("token", `${1}[FILTERED]`,
		`(?i)(token|токен)\s*[:=]\s*["']?([a-zA-Z0-9_-]{20,})["']?`,
		`(?i)(bearer\s+)([a-zA-Z0-9_.-]{20,})`,
		`(?i)(authorization\s*[:=]\s*["']?bearer\s+)([a-zA-Z0-9_.-]{20,})["']?`,
	),
	rule("api key", `${1}: [FILTERED]`,
		`(?i)(api[_-]?key|api[_-]?secret)\s*[:=]\s*["']?([a-zA-Z0-9_-]{20,})["']?`,
		`(?i)(secret[_-]?key|secret[_-]?token)\s*[:=]\s*["']?([a-zA-Z0-9_-]{20,})["']?`,
		`(?i)(access[_-]?token|access[_-]?key)\s*[:=]\s*["']?([a-zA-Z0-9_-]{20,})["']?`,
	),
	rule("provider key", `[FILTERED]`,
		`sk-[a-zA-Z0-9]{32,}`,
		`pk_[a-zA-Z0-9]{32,}`,
	),
	rule("cookie", `${1}[FILTERED]`,
		`(?i)(session[_-]?id\s*[:=]\s*["']?)([a-zA-Z0-9_-]{10,})["']?`,
		`(?i)(set-cookie\s*[:=]\s*["']?)([^"'\n]{10,})["']?`,
		`(?i)(cookie\s*[:=]\s*["']?)([^"'\n]{10,})["']?`,
	),
	rule("card", `[FILTERED]`,
		`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`,
		`(?i)(cvv2?|cvc2?)\s*[:=]\s*["']?(\d{3,4})["']?`,
	),
	rule("email", `[FILTERED_EMAIL]`,
		`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`,
	),
	rule("phone", `[FILTERED_PHONE]`,
		`\+7\s?\(?\d{3}\)?\s?\d{3}[-.\s]?\d{2}[-.\s]?\d{2}`,
		`\+\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{2,4}[-.\s]?\d{2,4}[-.\s]?\d{0,4}`,
	),
}
