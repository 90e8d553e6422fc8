package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSelector(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		changed bool
	}{
		{`div:contains("Hello")`, `div:has-text("Hello")`, true},
		{`li:contains('Item 1')`, `li:has-text('Item 1')`, true},
		{`p:contains(Total)`, `p:has-text("Total")`, true},
		{`button: Войти`, `button:has-text("Войти")`, true},
		{`a.nav: Home "page"`, `a.nav:has-text("Home \"page\"")`, true},
		{`a:hover`, `a:hover`, false},
		{`#submit`, `#submit`, false},
		{`button:has-text('Save')`, `button:has-text('Save')`, false},
		{`input[name='q']: x`, `input[name='q']: x`, false},
		{``, ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, changed := NormalizeSelector(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestValidateSelector(t *testing.T) {
	assert.NoError(t, ValidateSelector("#login"))
	assert.Error(t, ValidateSelector(""))
	assert.Error(t, ValidateSelector("   "))
	assert.ErrorContains(t, ValidateSelector("https://example.com"), "URL")
	assert.ErrorContains(t, ValidateSelector("file:///etc/passwd"), "://")
}

func TestPrepareSelector(t *testing.T) {
	got, err := PrepareSelector(`  span:contains("x") `)
	require.NoError(t, err)
	assert.Equal(t, `span:has-text("x")`, got)

	_, err = PrepareSelector("http://x")
	assert.ErrorContains(t, err, "невалидный селектор")
}

func TestLooksLikeSelector(t *testing.T) {
	for _, s := range []string{"#email", ".btn", "[name=q]", "//input", "form > input", "text=Save", "input:visible"} {
		assert.True(t, LooksLikeSelector(s), s)
	}
	for _, s := range []string{"Email", "Имя пользователя", "", "first name"} {
		assert.False(t, LooksLikeSelector(s), s)
	}
}
