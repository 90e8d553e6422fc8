// Package registry хранит определения шагов и сопоставляет их с предложениями Gherkin.
//
// Шаги регистрируются через Step() в init() пакетов с шагами и затем
// привязываются к godog.ScenarioContext. Тот же реестр умеет сам находить
// шаг по тексту и вызывать его, это используется интерактивной консолью.
package registry

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	cucumberexpressions "github.com/cucumber/cucumber-expressions/go/v16"
	"github.com/cucumber/godog"
)

// ScenarioContext - часть godog.ScenarioContext, нужная для привязки шагов.
type ScenarioContext interface {
	Step(expr, stepFunc interface{})
}

// stepHooks реализуется *godog.ScenarioContext.
type stepHooks interface {
	StepContext() godog.StepContext
}

type Definition struct {
	Expression string
	Regexp     *regexp.Regexp
	Handler    interface{}

	expr       *expression
	fn         reflect.Value
	withCtx    bool
	tail       reflect.Type // *godog.Table или *godog.DocString, если есть
	argTypes   []reflect.Type
	returnsCtx bool
}

type Registry struct {
	mu     sync.RWMutex
	defs   []*Definition
	params *cucumberexpressions.ParameterTypeRegistry
}

func New() *Registry {
	return &Registry{params: cucumberexpressions.NewParameterTypeRegistry()}
}

var defaultRegistry = New()

// Default возвращает реестр, в который пишет Step().
func Default() *Registry {
	return defaultRegistry
}

// Step регистрирует шаг в реестре по умолчанию. Ошибка регистрации - ошибка
// программиста, поэтому вызывает панику.
func Step(expression string, handler interface{}) {
	if err := defaultRegistry.Add(expression, handler); err != nil {
		panic(err)
	}
}

// DefineParameterType регистрирует пользовательский тип {name} в реестре по умолчанию.
func DefineParameterType(name, pattern string) {
	if err := defaultRegistry.DefineParameterType(name, pattern); err != nil {
		panic(err)
	}
}

func (r *Registry) DefineParameterType(name, pattern string) error {
	if name == "" || strings.ContainsAny(name, "{}() /") {
		return fmt.Errorf("недопустимое имя типа параметра %q", name)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("тип параметра {%s}: %w", name, err)
	}
	if re.NumSubexp() != 0 {
		return fmt.Errorf("тип параметра {%s}: используйте только незахватывающие группы (?:...)", name)
	}

	pt, err := cucumberexpressions.NewParameterType(name, []*regexp.Regexp{re}, name, func(args ...*string) interface{} {
		if len(args) == 0 || args[0] == nil {
			return ""
		}
		return *args[0]
	}, false, false, false)
	if err != nil {
		return fmt.Errorf("тип параметра {%s}: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.params.DefineParameterType(pt); err != nil {
		return fmt.Errorf("тип параметра {%s} уже определен: %w", name, err)
	}
	return nil
}

var (
	ctxType       = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType       = reflect.TypeOf((*error)(nil)).Elem()
	tableType     = reflect.TypeOf((*godog.Table)(nil))
	docStringType = reflect.TypeOf((*godog.DocString)(nil))
)

func (r *Registry) Add(expression string, handler interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	expr, err := compileExpression(expression, r.params)
	if err != nil {
		return err
	}

	def, err := newDefinition(expression, expr, handler)
	if err != nil {
		return err
	}

	for _, existing := range r.defs {
		if existing.Expression == expression {
			return fmt.Errorf("шаг %q уже зарегистрирован", expression)
		}
	}

	r.defs = append(r.defs, def)
	return nil
}

func newDefinition(expression string, expr *expression, handler interface{}) (*Definition, error) {
	fn := reflect.ValueOf(handler)
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("шаг %q: обработчик должен быть функцией, получен %T", expression, handler)
	}
	ft := fn.Type()

	def := &Definition{
		Expression: expression,
		Regexp:     expr.re,
		Handler:    handler,
		expr:       expr,
		fn:         fn,
	}

	in := make([]reflect.Type, 0, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		in = append(in, ft.In(i))
	}
	if len(in) > 0 && in[0] == ctxType {
		def.withCtx = true
		in = in[1:]
	}
	if n := len(in); n > 0 && (in[n-1] == tableType || in[n-1] == docStringType) {
		def.tail = in[n-1]
		in = in[:n-1]
	}
	for _, t := range in {
		if !supportedArg(t) {
			return nil, fmt.Errorf("шаг %q: неподдерживаемый тип аргумента %s", expression, t)
		}
	}
	if len(in) != expr.arity {
		return nil, fmt.Errorf("шаг %q: %d параметров в выражении, но %d аргументов у обработчика",
			expression, expr.arity, len(in))
	}
	def.argTypes = in

	switch {
	case ft.NumOut() == 1 && ft.Out(0) == errType:
	case ft.NumOut() == 2 && ft.Out(0) == ctxType && ft.Out(1) == errType:
		def.returnsCtx = true
	default:
		return nil, fmt.Errorf("шаг %q: обработчик должен возвращать error или (context.Context, error)", expression)
	}

	return def, nil
}

func supportedArg(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Int, reflect.Int64, reflect.Float64:
		return true
	}
	return false
}

// Definitions возвращает копию списка определений, отсортированную по выражению.
func (r *Registry) Definitions() []*Definition {
	r.mu.RLock()
	defs := make([]*Definition, len(r.defs))
	copy(defs, r.defs)
	r.mu.RUnlock()

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Expression < defs[j].Expression
	})
	return defs
}

// Bind привязывает все шаги к сценарию godog. godog находит шаг по
// регулярному выражению, а аргументы разбирает реестр: обработчик получает
// текст шага из контекста, куда его кладет хук перед шагом.
func (r *Registry) Bind(sc ScenarioContext) {
	if h, ok := sc.(stepHooks); ok {
		h.StepContext().Before(func(ctx context.Context, st *godog.Step) (context.Context, error) {
			return withStep(ctx, st), nil
		})
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, def := range r.defs {
		sc.Step(def.Regexp, def.run)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
