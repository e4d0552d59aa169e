package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/codereview-agent/codereview/internal/chat"
	"github.com/codereview-agent/codereview/internal/redact"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 2048
)

// Recorder receives every message appended to a session history, in order.
// seq is the message's index in the history.
type Recorder interface {
	Record(ctx context.Context, sessionID string, seq int, msg chat.Message) error
}

// Option configures a Session.
type Option func(*Session)

// WithModel sets the model identifier passed to the completer.
func WithModel(model string) Option {
	return func(s *Session) { s.model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(s *Session) { s.temperature = t }
}

// WithMaxTokens sets the maximum reply length.
func WithMaxTokens(n int) Option {
	return func(s *Session) { s.maxTokens = n }
}

// WithSystemPrompt replaces the fixed instruction seeded at index 0.
func WithSystemPrompt(prompt string) Option {
	return func(s *Session) { s.systemPrompt = prompt }
}

// WithRedactor redacts secrets from code before it is embedded in a prompt.
func WithRedactor(r *redact.Redactor) Option {
	return func(s *Session) { s.redactor = r }
}

// WithRecorder forwards appended messages to r.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithNotices sets where user-facing progress lines such as
// "Reviewing file: <path> (<language>)" are written.
func WithNotices(w io.Writer) Option {
	return func(s *Session) { s.notices = w }
}

// Session owns one conversation history and the last reviewed code. It is
// not safe for concurrent use; exchanges are strictly sequential.
type Session struct {
	completer    chat.Completer
	model        string
	temperature  float64
	maxTokens    int
	systemPrompt string
	redactor     *redact.Redactor
	recorder     Recorder
	log          *zap.Logger
	notices      io.Writer

	id       string
	history  []chat.Message
	lastCode string
	hasCode  bool
	recorded int
}

// New creates a Session seeded with the system instruction.
func New(c chat.Completer, opts ...Option) *Session {
	s := &Session{
		completer:    c,
		temperature:  DefaultTemperature,
		maxTokens:    DefaultMaxTokens,
		systemPrompt: SystemPrompt,
		log:          zap.NewNop(),
		notices:      io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.id = uuid.Must(uuid.NewV7()).String()
	s.history = []chat.Message{chat.NewMessage(chat.RoleSystem, s.systemPrompt)}
	s.lastCode = ""
	s.hasCode = false
	s.recorded = 0
}

// ID returns the identifier of the current conversation.
func (s *Session) ID() string { return s.id }

// History returns a copy of the conversation history.
func (s *Session) History() []chat.Message {
	out := make([]chat.Message, len(s.history))
	copy(out, s.history)
	return out
}

// LastCode returns the most recently reviewed code and whether there is one.
func (s *Session) LastCode() (string, bool) {
	return s.lastCode, s.hasCode
}

// Chat appends message as a user turn, sends the full history to the
// completer and appends the reply. If the completer fails the user turn stays
// in the history unanswered and the error is returned unchanged.
func (s *Session) Chat(ctx context.Context, message string) (string, error) {
	s.append(ctx, chat.NewMessage(chat.RoleUser, message))

	s.log.Debug("sending exchange",
		zap.String("session", s.id),
		zap.String("provider", s.completer.Name()),
		zap.Int("messages", len(s.history)))

	resp, err := s.completer.Complete(ctx, chat.Request{
		Model:       s.model,
		Messages:    s.History(),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", err
	}

	s.append(ctx, chat.NewMessage(chat.RoleAssistant, resp.Content))
	s.log.Debug("exchange complete",
		zap.String("session", s.id),
		zap.Int("tokens", resp.TokensUsed))
	return resp.Content, nil
}

// ReviewCode asks for a review of code. The code becomes the last reviewed
// code before the completer is called, so it is kept even if the call fails.
func (s *Session) ReviewCode(ctx context.Context, code, language string) (string, error) {
	return s.reviewCode(ctx, code, language, "")
}

func (s *Session) reviewCode(ctx context.Context, code, language, path string) (string, error) {
	s.lastCode = code
	s.hasCode = true

	payload, n := s.redactor.Code(code, path)
	if n > 0 {
		s.log.Info("redacted secrets from review payload", zap.Int("count", n), zap.String("path", path))
	}
	return s.Chat(ctx, BuildReviewPrompt(payload, language))
}

// ReviewFile reviews the contents of the file at path. Files that cannot be
// read are reported through the returned string with a nil error; the session
// is left untouched in that case.
func (s *Session) ReviewFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Sprintf("File not found: %s", path), nil
		}
		return fmt.Sprintf("Error reading file: %v", err), nil
	}
	if !utf8.Valid(data) {
		return fmt.Sprintf("Error reading file: %s is not valid UTF-8", path), nil
	}

	language := LanguageFor(path)
	s.log.Info("reviewing file", zap.String("path", path), zap.String("language", language))
	fmt.Fprintf(s.notices, "Reviewing file: %s (%s)\n", path, language)
	return s.reviewCode(ctx, string(data), language, path)
}

// ExplainLast asks the model to explain the last reviewed code. The code is
// not resent; the model relies on the history for context.
func (s *Session) ExplainLast(ctx context.Context) (string, error) {
	if !s.hasCode || s.lastCode == "" {
		return NoCodeReviewed, nil
	}
	return s.Chat(ctx, explainPrompt)
}

// Clear restores the initial state: the history holds only the system
// instruction, there is no last reviewed code and a new conversation ID is
// assigned.
func (s *Session) Clear() {
	s.log.Debug("session cleared", zap.String("session", s.id))
	s.reset()
}

func (s *Session) append(ctx context.Context, msg chat.Message) {
	s.history = append(s.history, msg)
	if s.recorder == nil {
		return
	}
	for ; s.recorded < len(s.history); s.recorded++ {
		if err := s.recorder.Record(ctx, s.id, s.recorded, s.history[s.recorded]); err != nil {
			s.log.Warn("recording message failed",
				zap.String("session", s.id),
				zap.Int("seq", s.recorded),
				zap.Error(err))
		}
	}
}
