package output

import (
	"fmt"
	"io"
	"os"

	"github.com/codereview-agent/codereview/internal/chat"
)

// Transcript is the saved record of a single-shot review.
type Transcript struct {
	File    string         `json:"file,omitempty"`
	Code    string         `json:"code,omitempty"`
	History []chat.Message `json:"history"`
}

// NewTranscript builds a Transcript from a full session history, dropping the
// leading system instruction.
func NewTranscript(file, code string, history []chat.Message) *Transcript {
	_, turns := chat.SplitSystem(history)
	if turns == nil {
		turns = []chat.Message{}
	}
	return &Transcript{File: file, Code: code, History: turns}
}

// Writer writes a transcript in a specific format.
type Writer interface {
	Write(w io.Writer, t *Transcript) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "", "json":
		return &JSONWriter{}, nil
	case "markdown", "md":
		return &MarkdownWriter{}, nil
	case "text":
		return &TextWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFile writes t to path in the given format.
func WriteFile(t *Transcript, format, path string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := writer.Write(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
