package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codereview-agent/codereview/internal/chat"
)

func newTestAnthropic(t *testing.T, handler http.HandlerFunc) *Anthropic {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	a, err := NewAnthropic("claude-sonnet-4-6", "test-key", server.URL)
	if err != nil {
		t.Fatalf("NewAnthropic error: %v", err)
	}
	a.client = server.Client()
	return a
}

func TestAnthropic_Complete(t *testing.T) {
	var got anthropicRequest
	a := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Error("Missing API key header")
		}
		if r.Header.Get("anthropic-version") != anthropicAPIVersion {
			t.Error("Missing anthropic-version header")
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicBlock{{Type: "text", Text: "Needs "}, {Type: "text", Text: "Work"}},
			Usage:   anthropicUsage{InputTokens: 100, OutputTokens: 10},
		})
	})

	resp, err := a.Complete(context.Background(), chat.Request{Messages: testHistory, MaxTokens: 2048})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if resp.Content != "Needs Work" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.TokensUsed != 110 {
		t.Errorf("TokensUsed = %d, want 110", resp.TokensUsed)
	}
	if got.System != "sys" {
		t.Errorf("system = %q, want sys", got.System)
	}
	if len(got.Messages) != 3 || got.Messages[0].Role != "user" {
		t.Errorf("messages = %+v, want the three non-system turns", got.Messages)
	}
	if got.MaxTokens != 2048 {
		t.Errorf("max_tokens = %d, want 2048", got.MaxTokens)
	}
}

func TestAnthropic_DefaultMaxTokens(t *testing.T) {
	var got anthropicRequest
	a := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(anthropicResponse{Content: []anthropicBlock{{Type: "text", Text: "ok"}}})
	})

	if _, err := a.Complete(context.Background(), chat.Request{Messages: testHistory}); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if got.MaxTokens != anthropicMaxTokens {
		t.Errorf("max_tokens = %d, want %d", got.MaxTokens, anthropicMaxTokens)
	}
}

func TestAnthropic_ServerErrorRetried(t *testing.T) {
	attempts := 0
	a := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(500)
			w.Write([]byte(`{"error":"internal server error"}`))
			return
		}
		json.NewEncoder(w).Encode(anthropicResponse{Content: []anthropicBlock{{Type: "text", Text: "ok"}}})
	})

	if _, err := a.Complete(context.Background(), chat.Request{Messages: testHistory}); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestAnthropic_AuthError(t *testing.T) {
	a := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(403)
		w.Write([]byte(`{"error":"forbidden"}`))
	})
	_, err := a.Complete(context.Background(), chat.Request{Messages: testHistory})
	if !IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestAnthropic_EmptyContent(t *testing.T) {
	a := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	})
	if _, err := a.Complete(context.Background(), chat.Request{Messages: testHistory}); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestAnthropic_ZeroTemperatureSent(t *testing.T) {
	var raw map[string]any
	a := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		json.NewEncoder(w).Encode(anthropicResponse{Content: []anthropicBlock{{Type: "text", Text: "ok"}}})
	})

	if _, err := a.Complete(context.Background(), chat.Request{Messages: testHistory, Temperature: 0}); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	temp, ok := raw["temperature"]
	if !ok {
		t.Fatal("temperature missing from request body")
	}
	if temp != float64(0) {
		t.Errorf("temperature = %v, want 0", temp)
	}
}
