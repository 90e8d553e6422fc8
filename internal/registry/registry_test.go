package registry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCompileExpression(t *testing.T) {
	tests := []struct {
		expr  string
		text  string
		match bool
		args  []string
	}{
		{`I click on button {string}`, `I click on button "Save"`, true, []string{"Save"}},
		{`I click on button {string}`, `I click on button 'Save'`, true, []string{"Save"}},
		{`I click on button {string}`, `I click on button "say \"hi\""`, true, []string{`say "hi"`}},
		{`I click on button {string}`, `I click on button Save`, false, nil},
		{`I wait {int} milliseconds`, `I wait 250 milliseconds`, true, []string{"250"}},
		{`I wait {int} milliseconds`, `I wait 2.5 milliseconds`, false, nil},
		{`I scroll by {int} and {int}`, `I scroll by -10 and 300`, true, []string{"-10", "300"}},
		{`zoom is {float}`, `zoom is 1.25`, true, []string{"1.25"}},
		{`I use {word} browser`, `I use firefox browser`, true, []string{"firefox"}},
		{`I use {word} browser`, `I use fire fox browser`, false, nil},
		{`I see {int} element(s)`, `I see 1 element`, true, []string{"1"}},
		{`I see {int} element(s)`, `I see 3 elements`, true, []string{"3"}},
		{`I go back/forward`, `I go back`, true, []string{}},
		{`I go back/forward`, `I go forward`, true, []string{}},
		{`I go back/forward`, `I go sideways`, false, nil},
		{`price is \(approx\) {int}`, `price is (approx) 10`, true, []string{"10"}},
		{`path a\/b`, `path a/b`, true, []string{}},
		{`anything: {}`, `anything: some text here`, true, []string{"some text here"}},
		{`dots.are.literal`, `dotsXareXliteral`, false, nil},
		{`^raw (\d+) regexp$`, `raw 42 regexp`, true, []string{"42"}},
	}

	for _, tt := range tests {
		t.Run(tt.expr+"|"+tt.text, func(t *testing.T) {
			expr, err := compileExpression(tt.expr, New().params)
			require.NoError(t, err)

			args, ok, err := expr.args(tt.text)
			require.NoError(t, err)
			if !tt.match {
				assert.False(t, ok)
				return
			}
			require.True(t, ok, "regexp %s", expr.re)
			assert.Equal(t, tt.args, args)
			assert.Len(t, args, expr.arity)
		})
	}
}

func TestCompileExpression_Errors(t *testing.T) {
	for _, expr := range []string{
		`I type {string`,
		`I type {unknown}`,
		`optional (text`,
		`optional ({int})`,
		`trailing escape \`,
		`{int}/x alternation`,
		`^broken (regexp$`,
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := compileExpression(expr, New().params)
			assert.Error(t, err)
		})
	}
}

func TestParameterGroups(t *testing.T) {
	expr, err := compileExpression(`I type {string} into {string}`, New().params)
	require.NoError(t, err)
	assert.Equal(t, 2, expr.arity)
	assert.Greater(t, expr.re.NumSubexp(), 2)
}

func TestCompileExpression_LiteralTextProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		literal := rapid.StringMatching(`[a-zA-Z.*+?|\[\]^$ ]{1,30}`).Draw(t, "literal")
		n := rapid.IntRange(-100000, 100000).Draw(t, "n")

		src := strings.Trim(literal, "^$ ") + " {int}"
		if strings.HasPrefix(src, " ") {
			src = "x" + src
		}

		expr, err := compileExpression(src, New().params)
		if err != nil {
			t.Fatalf("compile %q: %v", src, err)
		}

		text := strings.Replace(src, "{int}", fmt.Sprint(n), 1)
		args, ok, err := expr.args(text)
		if err != nil || !ok {
			t.Fatalf("%q does not match %q: %v", expr.re, text, err)
		}
		if args[0] != fmt.Sprint(n) {
			t.Fatalf("expected %d, got %q", n, args[0])
		}
	})
}

func TestRegistry_AddValidation(t *testing.T) {
	r := New()

	require.NoError(t, r.Add(`I open {string}`, func(ctx context.Context, url string) error { return nil }))

	assert.Error(t, r.Add(`I open {string}`, func(url string) error { return nil }), "duplicate")
	assert.Error(t, r.Add(`not a func`, "nope"))
	assert.Error(t, r.Add(`I wait {int} ms`, func() error { return nil }), "arity")
	assert.Error(t, r.Add(`I do {string}`, func(s string) {}), "no error result")
	assert.Error(t, r.Add(`I map {string}`, func(m map[string]string) error { return nil }), "arg type")
	assert.Error(t, r.Add(`I fail {oops}`, func(s string) error { return nil }), "unknown type")

	require.NoError(t, r.Add(`I fill the form:`, func(ctx context.Context, table *godog.Table) error { return nil }))
	require.NoError(t, r.Add(`I send:`, func(doc *godog.DocString) (context.Context, error) { return nil, nil }))
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_DefineParameterType(t *testing.T) {
	r := New()

	require.NoError(t, r.DefineParameterType("color", `red|green|blue`))
	assert.Error(t, r.DefineParameterType("color", `cyan`), "redefined")
	assert.Error(t, r.DefineParameterType("bad", `(x)`), "capturing group")
	assert.Error(t, r.DefineParameterType("a b", `x`), "bad name")

	var got string
	require.NoError(t, r.Add(`the light is {color}`, func(c string) error {
		got = c
		return nil
	}))

	m, err := r.Match(`the light is green`)
	require.NoError(t, err)
	_, err = m.Invoke(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "green", got)

	_, err = r.Match(`the light is purple`)
	assert.Error(t, err)
}

func TestRegistry_MatchAndInvoke(t *testing.T) {
	r := New()

	type key struct{}
	var (
		clicked string
		waited  int
		zoom    float64
	)
	require.NoError(t, r.Add(`I click on button {string}`, func(ctx context.Context, name string) error {
		clicked = name
		return nil
	}))
	require.NoError(t, r.Add(`I wait {int} milliseconds`, func(ms int) error {
		waited = ms
		return nil
	}))
	require.NoError(t, r.Add(`zoom is {float}`, func(ctx context.Context, z float64) (context.Context, error) {
		zoom = z
		return context.WithValue(ctx, key{}, "zoomed"), nil
	}))
	require.NoError(t, r.Add(`I fail`, func() error { return errors.New("boom") }))

	m, err := r.Match(`  I click on button "Save"  `)
	require.NoError(t, err)
	_, err = m.Invoke(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Save", clicked)

	m, err = r.Match(`I wait 120 milliseconds`)
	require.NoError(t, err)
	_, err = m.Invoke(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, waited)

	m, err = r.Match(`zoom is 1.5`)
	require.NoError(t, err)
	ctx, err := m.Invoke(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.5, zoom, 1e-9)
	assert.Equal(t, "zoomed", ctx.Value(key{}))

	m, err = r.Match(`I fail`)
	require.NoError(t, err)
	_, err = m.Invoke(context.Background())
	assert.EqualError(t, err, "boom")

	_, err = r.Match(`I dance`)
	assert.ErrorContains(t, err, "шаг не найден")
}

func TestRegistry_Ambiguous(t *testing.T) {
	r := New()
	require.NoError(t, r.Add(`I click on {string}`, func(s string) error { return nil }))
	require.NoError(t, r.Add(`I click on {}`, func(s string) error { return nil }))

	_, err := r.Match(`I click on "x"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "неоднозначный")
	assert.Contains(t, err.Error(), `I click on {string}`)
}

func TestMatch_InvokeRequiresTable(t *testing.T) {
	r := New()
	var rows int
	require.NoError(t, r.Add(`I fill the form:`, func(table *godog.Table) error {
		rows = len(table.Rows)
		return nil
	}))

	m, err := r.Match(`I fill the form:`)
	require.NoError(t, err)

	_, err = m.Invoke(context.Background())
	assert.ErrorContains(t, err, "таблиц")

	m.Table = &godog.Table{}
	_, err = m.Invoke(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, rows)
}

type recordingScenario struct {
	exprs []interface{}
	funcs []interface{}
}

func (s *recordingScenario) Step(expr, stepFunc interface{}) {
	s.exprs = append(s.exprs, expr)
	s.funcs = append(s.funcs, stepFunc)
}

func TestRegistry_Bind(t *testing.T) {
	r := New()
	require.NoError(t, r.Add(`I reload the page`, func() error { return nil }))
	require.NoError(t, r.Add(`I open {string}`, func(string) error { return nil }))

	sc := &recordingScenario{}
	r.Bind(sc)

	require.Len(t, sc.exprs, 2)
	for _, e := range sc.exprs {
		_, ok := e.(*regexp.Regexp)
		assert.True(t, ok)
	}

	defs := r.Definitions()
	assert.Equal(t, `I open {string}`, defs[0].Expression)
	assert.Equal(t, `I reload the page`, defs[1].Expression)
}

func TestRegistry_BoundHandlerReadsStep(t *testing.T) {
	r := New()

	var (
		typed, field string
		rows         int
	)
	require.NoError(t, r.Add(`I type {string} into {string}`, func(ctx context.Context, v, f string) error {
		typed, field = v, f
		return nil
	}))
	require.NoError(t, r.Add(`I fill the form:`, func(table *godog.Table) error {
		rows = len(table.Rows)
		return nil
	}))

	sc := &recordingScenario{}
	r.Bind(sc)
	require.Len(t, sc.funcs, 2)

	run := map[string]func(context.Context) (context.Context, error){}
	for i, def := range r.defs {
		fn, ok := sc.funcs[i].(func(context.Context) (context.Context, error))
		require.True(t, ok)
		run[def.Expression] = fn
	}

	ctx := withStep(context.Background(), &godog.Step{Text: `I type "it's" into 'Name'`})
	_, err := run[`I type {string} into {string}`](ctx)
	require.NoError(t, err)
	assert.Equal(t, "it's", typed)
	assert.Equal(t, "Name", field)

	table := &messages.PickleTable{Rows: []*messages.PickleTableRow{{}, {}}}
	ctx = withStep(context.Background(), &godog.Step{
		Text:     `I fill the form:`,
		Argument: &messages.PickleStepArgument{DataTable: table},
	})
	_, err = run[`I fill the form:`](ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	_, err = run[`I fill the form:`](context.Background())
	assert.ErrorContains(t, err, "вне сценария")
}
