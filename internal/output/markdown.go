package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/codereview-agent/codereview/internal/chat"
)

// MarkdownWriter outputs a PR-comment-friendly transcript.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, t *Transcript) error {
	var b strings.Builder
	b.WriteString("## Code Review\n\n")
	if t.File != "" {
		fmt.Fprintf(&b, "**File:** `%s`\n\n", t.File)
	}
	for _, msg := range t.History {
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", heading(msg.Role), strings.TrimSpace(msg.Content))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func heading(r chat.Role) string {
	switch r {
	case chat.RoleUser:
		return "Request"
	case chat.RoleAssistant:
		return "Review"
	default:
		return string(r)
	}
}
