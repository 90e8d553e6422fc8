package registry

import (
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"

	cucumberexpressions "github.com/cucumber/cucumber-expressions/go/v16"
)

// isRegexp сообщает, что выражение уже записано как регулярное выражение.
func isRegexp(expr string) bool {
	return strings.HasPrefix(expr, "^") || strings.HasSuffix(expr, "$")
}

// expression - скомпилированное выражение шага: cucumber expression
// или обычное регулярное выражение (тогда expr == nil).
type expression struct {
	re    *regexp.Regexp
	expr  cucumberexpressions.Expression
	arity int
}

func compileExpression(source string, params *cucumberexpressions.ParameterTypeRegistry) (*expression, error) {
	if isRegexp(source) {
		re, err := regexp.Compile(source)
		if err != nil {
			return nil, fmt.Errorf("шаг %q: %w", source, err)
		}
		return &expression{re: re, arity: re.NumSubexp()}, nil
	}

	expr, err := cucumberexpressions.NewCucumberExpression(source, params)
	if err != nil {
		return nil, fmt.Errorf("выражение %q: %w", source, err)
	}
	re := expr.Regexp()
	arity, err := parameterGroups(re)
	if err != nil {
		return nil, fmt.Errorf("выражение %q: %w", source, err)
	}
	return &expression{re: re, expr: expr, arity: arity}, nil
}

// parameterGroups считает группы захвата верхнего уровня. Каждый параметр
// выражения - одна такая группа, вложенные группы принадлежат типу параметра.
func parameterGroups(re *regexp.Regexp) (int, error) {
	tree, err := syntax.Parse(re.String(), syntax.Perl)
	if err != nil {
		return 0, err
	}
	return countCaptures(tree), nil
}

func countCaptures(re *syntax.Regexp) int {
	if re.Op == syntax.OpCapture {
		return 1
	}
	n := 0
	for _, sub := range re.Sub {
		n += countCaptures(sub)
	}
	return n
}

// args возвращает аргументы шага в текстовом виде. ok == false, если текст
// не подходит под выражение.
func (e *expression) args(text string) (args []string, ok bool, err error) {
	if e.expr == nil {
		groups := e.re.FindStringSubmatch(text)
		if groups == nil {
			return nil, false, nil
		}
		return groups[1:], true, nil
	}

	if !e.re.MatchString(text) {
		return nil, false, nil
	}
	matched, err := e.expr.Match(text)
	if err != nil {
		return nil, true, err
	}
	args = make([]string, 0, len(matched))
	for _, a := range matched {
		args = append(args, argString(a.GetValue()))
	}
	return args, true, nil
}

func argString(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	default:
		return fmt.Sprint(v)
	}
}
