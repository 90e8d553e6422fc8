package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGodogOptions(t *testing.T) {
	now := func() time.Time { return time.Unix(0, 42) }
	var out bytes.Buffer

	opts := godogOptions(runFlags{format: "progress", tags: "@smoke", concurrency: 0, strict: true}, nil, &out, now)
	assert.Equal(t, []string{"features"}, opts.Paths)
	assert.Equal(t, "progress", opts.Format)
	assert.Equal(t, "@smoke", opts.Tags)
	assert.Equal(t, 1, opts.Concurrency)
	assert.True(t, opts.Strict)
	assert.Zero(t, opts.Randomize)

	opts = godogOptions(runFlags{random: true, concurrency: 4}, []string{"a.feature"}, &out, now)
	assert.Equal(t, []string{"a.feature"}, opts.Paths)
	assert.Equal(t, int64(42), opts.Randomize)
	assert.Equal(t, 4, opts.Concurrency)
}

func TestRunSteps(t *testing.T) {
	var out bytes.Buffer

	n := RunSteps(&out, "cookie", false)
	assert.Greater(t, n, 3)
	assert.Contains(t, out.String(), "I set cookie {string} with value {string}")
	assert.NotContains(t, out.String(), "I open {string}")
}

func TestRunMatch(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, RunMatch(&out, `I click on button "Save"`))
	assert.Contains(t, out.String(), "I click on button {string}")

	assert.Error(t, RunMatch(&out, "I teleport"))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "steps", "match", "console", "serve"} {
		assert.True(t, names[want], want)
	}
}
