package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/codereview-agent/codereview/internal/chat"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type fakeModel struct {
	got   []llms.MessageContent
	reply string
	err   error
}

func (f *fakeModel) GenerateContent(_ context.Context, msgs []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.got = msgs
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, opts...)
}

func TestOllama_Complete(t *testing.T) {
	fm := &fakeModel{reply: "Pass"}
	o := &Ollama{model: "llama3.1", llm: fm}

	resp, err := o.Complete(context.Background(), chat.Request{Messages: testHistory, Temperature: 0.3, MaxTokens: 100})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if resp.Content != "Pass" {
		t.Errorf("Content = %q, want Pass", resp.Content)
	}

	want := []schema.ChatMessageType{
		schema.ChatMessageTypeSystem,
		schema.ChatMessageTypeHuman,
		schema.ChatMessageTypeAI,
		schema.ChatMessageTypeHuman,
	}
	if len(fm.got) != len(want) {
		t.Fatalf("sent %d messages, want %d", len(fm.got), len(want))
	}
	for i, m := range fm.got {
		if m.Role != want[i] {
			t.Errorf("message %d role = %q, want %q", i, m.Role, want[i])
		}
	}
}

func TestOllama_Error(t *testing.T) {
	o := &Ollama{llm: &fakeModel{err: errors.New("connection refused")}}
	if _, err := o.Complete(context.Background(), chat.Request{Messages: testHistory}); err == nil {
		t.Error("expected error")
	}
}

func TestOllama_EmptyResponse(t *testing.T) {
	o := &Ollama{llm: &fakeModel{}}
	if _, err := o.Complete(context.Background(), chat.Request{Messages: testHistory}); err == nil {
		t.Error("expected error for empty reply")
	}
}

func TestOllama_Name(t *testing.T) {
	o, err := NewOllama("llama3.1", "http://localhost:11434/v1/")
	if err != nil {
		t.Fatalf("NewOllama error: %v", err)
	}
	if o.Name() != "ollama" {
		t.Errorf("Name() = %q", o.Name())
	}
}
