package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/codereview-agent/codereview/internal/chat"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
)

const defaultOllamaURL = "http://localhost:11434"

// Ollama implements chat.Completer for a local Ollama server via langchaingo.
type Ollama struct {
	model string
	llm   llms.Model
}

// NewOllama creates a new Ollama provider. No API key is required.
func NewOllama(model, baseURL string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	// The langchaingo client wants the server root.
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/v1/chat/completions")
	baseURL = strings.TrimSuffix(baseURL, "/v1")

	llm, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &Ollama{model: model, llm: llm}, nil
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Complete(ctx context.Context, req chat.Request) (chat.Response, error) {
	content := make([]llms.MessageContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		content = append(content, llms.TextParts(messageType(m.Role), m.Content))
	}

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}

	result, err := o.llm.GenerateContent(ctx, content, opts...)
	if err != nil {
		return chat.Response{}, fmt.Errorf("ollama completion: %w", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Content == "" {
		return chat.Response{}, fmt.Errorf("empty text content in API response")
	}
	return chat.Response{Content: result.Choices[0].Content}, nil
}

func messageType(r chat.Role) schema.ChatMessageType {
	switch r {
	case chat.RoleSystem:
		return schema.ChatMessageTypeSystem
	case chat.RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}
