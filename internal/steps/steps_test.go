package steps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bddBrowser/internal/fixtures"
	"bddBrowser/internal/registry"
	"bddBrowser/internal/world"
)

func TestCatalog_EverySentenceResolvesToOneStep(t *testing.T) {
	reg := registry.Default()

	tests := []struct {
		sentence string
		expr     string
		args     []string
	}{
		{`I open "/login"`, `I open {string}`, []string{"/login"}},
		{`I visit "https://example.com"`, `I visit {string}`, []string{"https://example.com"}},
		{`I reload the page`, `I reload the page`, nil},
		{`I set viewport size to 375 by 812`, `I set viewport size to {int} by {int}`, []string{"375", "812"}},
		{`the page url should contain "/cart"`, `the page url should contain {string}`, []string{"/cart"}},
		{`I find element by selector "#email"`, `I find element by selector {string}`, []string{"#email"}},
		{`I find elements by selector "li.item"`, `I find elements by selector {string}`, []string{"li.item"}},
		{`I find element by role "checkbox" named "Remember me"`, `I find element by role {string} named {string}`, []string{"checkbox", "Remember me"}},
		{`I select element number 2`, `I select element number {int}`, []string{"2"}},
		{`I switch to iframe "#payment"`, `I switch to iframe {string}`, []string{"#payment"}},
		{`I click`, `I click`, nil},
		{`I click on "#submit"`, `I click on {string}`, []string{"#submit"}},
		{`I click on button "Save"`, `I click on button {string}`, []string{"Save"}},
		{`I click on link "Docs"`, `I click on link {string}`, []string{"Docs"}},
		{`I type "alice" into "Email"`, `I type {string} into {string}`, []string{"alice", "Email"}},
		{`I type "alice"`, `I type {string}`, []string{"alice"}},
		{`I press "Enter"`, `I press {string}`, []string{"Enter"}},
		{`I press "Tab" on the element`, `I press {string} on the element`, []string{"Tab"}},
		{`I fill the form:`, `I fill the form:`, nil},
		{`I scroll by 0 and -200`, `I scroll by {int} and {int}`, []string{"0", "-200"}},
		{`I accept the next prompt with "Иван"`, `I accept the next prompt with {string}`, []string{"Иван"}},
		{`I see text "Welcome"`, `I see text {string}`, []string{"Welcome"}},
		{`I do not see text "Error"`, `I do not see text {string}`, []string{"Error"}},
		{`the element should have attribute "href" with value "/docs"`, `the element should have attribute {string} with value {string}`, []string{"href", "/docs"}},
		{`I should see 3 elements`, `I should see {int} element(s)`, []string{"3"}},
		{`I should see 1 element`, `I should see {int} element(s)`, []string{"1"}},
		{`element ".spinner" should not exist`, `element {string} should not exist`, []string{".spinner"}},
		{`I save "A-1" as "order"`, `I save {string} as {string}`, []string{"A-1", "order"}},
		{`I save cookie "sid" as "session"`, `I save cookie {string} as {string}`, []string{"sid", "session"}},
		{`I save the element attribute "href" as "link"`, `I save the element attribute {string} as {string}`, []string{"href", "link"}},
		{`I wait 500 milliseconds`, `I wait {int} millisecond(s)`, []string{"500"}},
		{`I wait 1 second`, `I wait {int} second(s)`, []string{"1"}},
		{`I wait for request "/api/products"`, `I wait for request {string}`, []string{"/api/products"}},
		{`I save fixture "users.admin.email" as "email"`, `I save fixture {string} as {string}`, []string{"users.admin.email", "email"}},
		{`I find element by selector "input[name='email']"`, `I find element by selector {string}`, []string{"input[name='email']"}},
		{`I wait for load state "networkidle"`, `I wait for load state {string}`, []string{"networkidle"}},
		{`I set cookie "theme" with value "dark"`, `I set cookie {string} with value {string}`, []string{"theme", "dark"}},
		{`I set local storage item "k" to "v"`, `I set local storage item {string} to {string}`, []string{"k", "v"}},
		{`the session storage item "k" should be "v"`, `the session storage item {string} should be {string}`, []string{"k", "v"}},
		{`I clear session storage`, `I clear session storage`, nil},
		{`I mock "**/api/users" with status 200 and body "[]"`, `I mock {string} with status {int} and body {string}`, []string{"**/api/users", "200", "[]"}},
		{`I mock "**/api/users" with status 201 and JSON:`, `I mock {string} with status {int} and JSON:`, []string{"**/api/users", "201"}},
		{`I block requests to "**/*.png"`, `I block requests to {string}`, []string{"**/*.png"}},
		{`I take a screenshot`, `I take a screenshot`, nil},
		{`I take a screenshot of the element named "card"`, `I take a screenshot of the element named {string}`, []string{"card"}},
		{`the page should match snapshot "home"`, `the page should match snapshot {string}`, []string{"home"}},
		{`I restore the session "admin"`, `I restore the session {string}`, []string{"admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			m, err := reg.Match(tt.sentence)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, m.Definition.Expression)
			if tt.args == nil {
				assert.Empty(t, m.Args)
			} else {
				assert.Equal(t, tt.args, m.Args)
			}
		})
	}
}

func TestCatalog_NoAmbiguity(t *testing.T) {
	reg := registry.Default()
	require.Greater(t, reg.Len(), 100)

	for _, def := range reg.Definitions() {
		for _, other := range reg.Definitions() {
			if def == other {
				continue
			}
			assert.NotEqual(t, def.Regexp.String(), other.Regexp.String(), def.Expression)
		}
	}
}

func run(t *testing.T, ctx context.Context, sentence string) error {
	t.Helper()
	m, err := registry.Default().Match(sentence)
	require.NoError(t, err)
	_, err = m.Invoke(ctx)
	return err
}

func TestAliases_WithoutBrowser(t *testing.T) {
	w := world.New(world.Options{Scenario: "aliases"})
	ctx := world.WithWorld(context.Background(), w)

	require.NoError(t, run(t, ctx, `I save "A-42" as "order"`))
	require.NoError(t, run(t, ctx, `the alias "order" should equal "A-42"`))
	require.NoError(t, run(t, ctx, `the alias "order" should contain "42"`))

	require.NoError(t, run(t, ctx, `I save "@order" as "copy"`))
	require.NoError(t, run(t, ctx, `the alias "copy" should equal "@order"`))

	err := run(t, ctx, `the alias "order" should equal "B-1"`)
	assert.Equal(t, world.KindAssertion, world.Classify(err))

	err = run(t, ctx, `the alias "order" should contain "zzz"`)
	assert.Equal(t, world.KindAssertion, world.Classify(err))

	err = run(t, ctx, `the alias "ghost" should equal "x"`)
	assert.Equal(t, world.KindPrecondition, world.Classify(err))
}

func TestSaveFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"admin": {"email": "admin@example.com"}}`), 0o644))
	set, err := fixtures.Load(path)
	require.NoError(t, err)

	w := world.New(world.Options{Scenario: "fixtures", Fixtures: set})
	ctx := world.WithWorld(context.Background(), w)

	require.NoError(t, run(t, ctx, `I save fixture "admin.email" as "email"`))
	require.NoError(t, run(t, ctx, `the alias "email" should equal "admin@example.com"`))

	err = run(t, ctx, `I save fixture "admin.phone" as "phone"`)
	assert.Equal(t, world.KindPrecondition, world.Classify(err))
	assert.ErrorContains(t, err, "admin.phone")
}

func TestPreconditions_WithoutPage(t *testing.T) {
	w := world.New(world.Options{Scenario: "no page"})
	ctx := world.WithWorld(context.Background(), w)

	for _, sentence := range []string{
		`I reload the page`,
		`I wait for request "/api"`,
		`I click`,
		`I click on button "Save"`,
		`I type "x"`,
		`I see text "Hello"`,
		`the element should be visible`,
		`I find element by selector "#id"`,
		`I select element number 1`,
		`I set cookie "a" with value "b"`,
		`I clear local storage`,
		`I mock "**/api" with status 200 and body "ok"`,
		`I take a screenshot`,
		`the page should match snapshot "home"`,
		`I save the session as "admin"`,
		`I scroll to the top`,
		`I wait for response "/api"`,
	} {
		err := run(t, ctx, sentence)
		require.Error(t, err, sentence)
		assert.Equal(t, world.KindPrecondition, world.Classify(err), sentence)
	}
}

func TestSteps_WithoutWorld(t *testing.T) {
	err := run(t, context.Background(), `I open "/"`)
	assert.ErrorContains(t, err, "не инициализировано")
}

func TestDialogSteps(t *testing.T) {
	w := world.New(world.Options{})
	ctx := world.WithWorld(context.Background(), w)

	require.NoError(t, run(t, ctx, `I accept the next dialog`))
	require.NoError(t, run(t, ctx, `I accept the next prompt with "Иван"`))
	require.NoError(t, run(t, ctx, `I dismiss the next dialog`))
}

func TestWait(t *testing.T) {
	start := time.Now()
	require.NoError(t, run(t, context.Background(), `I wait 20 milliseconds`))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, run(t, ctx, `I wait 10 seconds`), context.Canceled)

	assert.Error(t, sleep(context.Background(), -time.Second))
}

func table(rows ...[]string) *godog.Table {
	t := &godog.Table{}
	for _, row := range rows {
		r := &messages.PickleTableRow{}
		for _, v := range row {
			r.Cells = append(r.Cells, &messages.PickleTableCell{Value: v})
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

func TestTableRows(t *testing.T) {
	rows := tableRows(table(
		[]string{"Field", "Value"},
		[]string{" Email ", "alice@example.com"},
		[]string{"Password", "secret"},
	), "field", "value")
	assert.Equal(t, [][]string{{"Email", "alice@example.com"}, {"Password", "secret"}}, rows)

	rows = tableRows(table([]string{"Email", "a"}), "field", "value")
	assert.Len(t, rows, 1)

	assert.Nil(t, tableRows(nil))
}

func TestFillForm_Validation(t *testing.T) {
	w := world.New(world.Options{})
	ctx := world.WithWorld(context.Background(), w)

	err := fillForm(ctx, table([]string{"field", "value"}))
	assert.ErrorContains(t, err, "пуста")

	err = fillForm(ctx, table([]string{"only one"}))
	assert.ErrorContains(t, err, "2 колонки")
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType(`{"a": 1}`))
	assert.Equal(t, "application/json", contentType(` [1, 2]`))
	assert.Contains(t, contentType("plain text"), "text/plain")
	assert.Contains(t, contentType("{not json"), "text/plain")
}

func TestValidStatus(t *testing.T) {
	assert.NoError(t, validStatus(204))
	assert.Error(t, validStatus(42))
	assert.Error(t, validStatus(600))
}
