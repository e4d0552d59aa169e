// Package chat defines the provider-neutral conversation types shared by the
// session manager, the providers, the response cache and the transcript store.
package chat

import "context"

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a Message with the given role and content.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// Request is a single completion call: the full history replayed verbatim
// plus the sampling parameters.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Response contains the reply text returned by a model.
type Response struct {
	Content    string
	TokensUsed int
}

// Completer is the external chat-completion collaborator.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Name() string
}

// SplitSystem separates the leading system messages from the rest of the
// conversation. Providers whose wire format carries the system instruction
// out of band use it.
func SplitSystem(msgs []Message) (string, []Message) {
	var system string
	i := 0
	for ; i < len(msgs) && msgs[i].Role == RoleSystem; i++ {
		if system != "" {
			system += "\n\n"
		}
		system += msgs[i].Content
	}
	return system, msgs[i:]
}
