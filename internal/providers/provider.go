package providers

import (
	"fmt"
	"strings"

	"github.com/codereview-agent/codereview/internal/chat"
)

// Config selects and configures a provider. Credentials are passed in
// explicitly; nothing here reads the environment.
type Config struct {
	Name    string
	Model   string
	APIKey  string
	BaseURL string
}

// New creates a provider by name.
func New(cfg Config) (chat.Completer, error) {
	switch strings.ToLower(cfg.Name) {
	case "openai":
		return NewOpenAI(cfg.Model, cfg.APIKey, cfg.BaseURL)
	case "anthropic", "claude":
		return NewAnthropic(cfg.Model, cfg.APIKey, cfg.BaseURL)
	case "ollama":
		return NewOllama(cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
}

// KeyEnv returns the environment variable holding the API key for a
// provider, or "" when the provider needs none.
func KeyEnv(name string) string {
	switch strings.ToLower(name) {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic", "claude":
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}
