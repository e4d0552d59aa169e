package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/codereview-agent/codereview/internal/chat"
)

type countingCompleter struct {
	calls int
	err   error
}

func (c *countingCompleter) Name() string { return "fake" }

func (c *countingCompleter) Complete(context.Context, chat.Request) (chat.Response, error) {
	c.calls++
	if c.err != nil {
		return chat.Response{}, c.err
	}
	return chat.Response{Content: "reply", TokensUsed: 3}, nil
}

func TestWrap_Disabled(t *testing.T) {
	next := &countingCompleter{}
	c, _ := New(false, "", 0)
	if got := Wrap(next, c, nil); got != chat.Completer(next) {
		t.Error("disabled cache should return the completer unchanged")
	}
}

func TestWrap_HitAfterMiss(t *testing.T) {
	c, err := New(true, t.TempDir(), 3600)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	next := &countingCompleter{}
	w := Wrap(next, c, nil)
	if w.Name() != "fake" {
		t.Errorf("Name() = %q", w.Name())
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		resp, err := w.Complete(ctx, testRequest("same"))
		if err != nil {
			t.Fatalf("Complete error: %v", err)
		}
		if resp.Content != "reply" {
			t.Errorf("Content = %q", resp.Content)
		}
	}
	if next.calls != 1 {
		t.Errorf("underlying calls = %d, want 1", next.calls)
	}

	if _, err := w.Complete(ctx, testRequest("different")); err != nil {
		t.Fatal(err)
	}
	if next.calls != 2 {
		t.Errorf("underlying calls = %d, want 2", next.calls)
	}
}

func TestWrap_ErrorsNotCached(t *testing.T) {
	c, _ := New(true, t.TempDir(), 3600)
	next := &countingCompleter{err: errors.New("boom")}
	w := Wrap(next, c, nil)

	for i := 0; i < 2; i++ {
		if _, err := w.Complete(context.Background(), testRequest("x")); err == nil {
			t.Fatal("expected error")
		}
	}
	if next.calls != 2 {
		t.Errorf("underlying calls = %d, want 2", next.calls)
	}
}
