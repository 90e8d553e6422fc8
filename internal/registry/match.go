package registry

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

type Match struct {
	Definition *Definition
	Args       []string
	Table      *godog.Table
	DocString  *godog.DocString
}

// Match находит единственный шаг, соответствующий тексту.
func (r *Registry) Match(text string) (*Match, error) {
	text = strings.TrimSpace(text)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []*Match
	for _, def := range r.defs {
		m, err := def.match(text)
		if err != nil {
			return nil, err
		}
		if m != nil {
			found = append(found, m)
		}
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("шаг не найден: %q", text)
	case 1:
		return found[0], nil
	default:
		exprs := make([]string, 0, len(found))
		for _, m := range found {
			exprs = append(exprs, m.Definition.Expression)
		}
		return nil, fmt.Errorf("неоднозначный шаг %q, подходят: %s", text, strings.Join(exprs, "; "))
	}
}

// match сопоставляет текст с определением. nil без ошибки - текст не подходит.
func (d *Definition) match(text string) (*Match, error) {
	args, ok, err := d.expr.args(text)
	if !ok {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("шаг %q: %w", d.Expression, err)
	}
	return &Match{Definition: d, Args: args}, nil
}

type stepKey struct{}

func withStep(ctx context.Context, st *godog.Step) context.Context {
	return context.WithValue(ctx, stepKey{}, st)
}

// run - обработчик, который видит godog. Аргументы берутся из текста
// текущего шага, таблица и многострочный текст из его аргумента.
func (d *Definition) run(ctx context.Context) (context.Context, error) {
	st, _ := ctx.Value(stepKey{}).(*godog.Step)
	if st == nil {
		return ctx, fmt.Errorf("шаг %q вызван вне сценария godog", d.Expression)
	}
	m, err := d.match(st.Text)
	if err != nil {
		return ctx, err
	}
	if m == nil {
		return ctx, fmt.Errorf("шаг %q не подходит под текст %q", d.Expression, st.Text)
	}
	if arg := st.Argument; arg != nil {
		m.Table = arg.DataTable
		m.DocString = arg.DocString
	}
	return m.Invoke(ctx)
}

// Invoke вызывает обработчик шага с аргументами, приведенными к типам параметров.
func (m *Match) Invoke(ctx context.Context) (context.Context, error) {
	def := m.Definition

	in := make([]reflect.Value, 0, len(def.argTypes)+2)
	if def.withCtx {
		in = append(in, reflect.ValueOf(ctx))
	}
	for i, t := range def.argTypes {
		v, err := convertArg(m.Args[i], t)
		if err != nil {
			return ctx, fmt.Errorf("шаг %q, аргумент %d: %w", def.Expression, i+1, err)
		}
		in = append(in, v)
	}
	switch def.tail {
	case tableType:
		if m.Table == nil {
			return ctx, fmt.Errorf("шаг %q ожидает таблицу данных", def.Expression)
		}
		in = append(in, reflect.ValueOf(m.Table))
	case docStringType:
		if m.DocString == nil {
			return ctx, fmt.Errorf("шаг %q ожидает многострочный текст", def.Expression)
		}
		in = append(in, reflect.ValueOf(m.DocString))
	}

	out := def.fn.Call(in)

	if def.returnsCtx {
		if c, ok := out[0].Interface().(context.Context); ok && c != nil {
			ctx = c
		}
		return ctx, asError(out[1])
	}
	return ctx, asError(out[0])
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

func convertArg(raw string, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(raw).Convert(t), nil
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q не является целым числом", raw)
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q не является числом", raw)
		}
		return reflect.ValueOf(f).Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("неподдерживаемый тип %s", t)
}
