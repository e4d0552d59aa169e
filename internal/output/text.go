package output

import (
	"fmt"
	"io"

	"github.com/codereview-agent/codereview/internal/chat"
)

// TextWriter outputs plain "You >" / "Agent >" blocks, the same labels the
// interactive prompt uses.
type TextWriter struct{}

func (tw *TextWriter) Write(w io.Writer, t *Transcript) error {
	for _, msg := range t.History {
		label := "You"
		if msg.Role == chat.RoleAssistant {
			label = "Agent"
		}
		if _, err := fmt.Fprintf(w, "%s >\n%s\n\n", label, msg.Content); err != nil {
			return err
		}
	}
	return nil
}
