package repl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLoop(t *testing.T, r Reviewer, input string, rn Renderer) string {
	t.Helper()
	var out bytes.Buffer
	l := &Loop{Reviewer: r, In: strings.NewReader(input), Out: &out, Renderer: rn}
	require.NoError(t, l.Run(context.Background()))
	return out.String()
}

func TestLoop_Session(t *testing.T) {
	r := &fakeReviewer{}
	out := runLoop(t, r, "review x = 1/0\n\nexplain\nclear\nexit\nnever read\n", nil)

	assert.Contains(t, out, "CodeReview Agent")
	assert.Contains(t, out, "Agent >\nreview:x = 1/0\n")
	assert.Contains(t, out, "Agent >\nexplained\n")
	assert.Contains(t, out, ClearedMessage)
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
	assert.Equal(t, []call{{"review", "x = 1/0|"}, {"explain", ""}, {"clear", ""}}, r.calls)
}

func TestLoop_EOF(t *testing.T) {
	r := &fakeReviewer{}
	out := runLoop(t, r, "hello", nil)
	assert.Equal(t, []call{{"chat", "hello"}}, r.calls)
	assert.True(t, strings.HasSuffix(out, "\nGoodbye!\n"))
}

func TestLoop_ErrorContinues(t *testing.T) {
	r := &fakeReviewer{err: errors.New("rate limited")}
	out := runLoop(t, r, "hello\nagain\n", nil)
	assert.Len(t, r.calls, 2)
	assert.Equal(t, 2, strings.Count(out, "Error: rate limited"))
	assert.NotContains(t, out, "Agent >")
}

type upper struct{}

func (upper) Render(s string) string { return strings.ToUpper(s) }

func TestLoop_Renderer(t *testing.T) {
	out := runLoop(t, &fakeReviewer{}, "hi\nclear\n", upper{})
	assert.Contains(t, out, "Agent >\nCHAT:HI\n")
	assert.Contains(t, out, ClearedMessage)
}

func TestLoop_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &fakeReviewer{}
	var out bytes.Buffer
	l := &Loop{Reviewer: r, In: strings.NewReader("hi\n"), Out: &out}
	require.NoError(t, l.Run(ctx))
	assert.Empty(t, r.calls)
	assert.Contains(t, out.String(), "Goodbye!")
}
