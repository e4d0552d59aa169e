// Package repl is the caller boundary of a review session: it parses a line
// of user input into a [Command] once, routes it to exactly one session
// operation and drives the interactive loop.
package repl

import (
	"context"
	"fmt"
	"strings"
)

// Kind identifies what a line of input asks for.
type Kind int

const (
	Empty Kind = iota
	Chat
	Review
	File
	Explain
	Clear
	Exit
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Chat:
		return "chat"
	case Review:
		return "review"
	case File:
		return "file"
	case Explain:
		return "explain"
	case Clear:
		return "clear"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Command is a parsed line. Arg carries the chat text, inline code or file
// path; it is empty for the other kinds.
type Command struct {
	Kind Kind
	Arg  string
}

// ClearedMessage is printed after the session is reset.
const ClearedMessage = "Session cleared. Starting fresh!"

var prefixes = []struct {
	prefix string
	kind   Kind
}{
	{"file ", File},
	{"review ", Review},
}

// Parse turns one line of input into a Command. Keywords are matched
// case-insensitively on the trimmed line; payloads keep their case.
func Parse(line string) Command {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: Empty}
	}

	lower := strings.ToLower(line)
	switch lower {
	case "exit", "quit":
		return Command{Kind: Exit}
	case "clear":
		return Command{Kind: Clear}
	case "explain":
		return Command{Kind: Explain}
	}
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return Command{Kind: p.kind, Arg: strings.TrimSpace(line[len(p.prefix):])}
		}
	}
	return Command{Kind: Chat, Arg: line}
}

// Reviewer is the set of session operations a Command can route to.
type Reviewer interface {
	Chat(ctx context.Context, message string) (string, error)
	ReviewCode(ctx context.Context, code, language string) (string, error)
	ReviewFile(ctx context.Context, path string) (string, error)
	ExplainLast(ctx context.Context) (string, error)
	Clear()
}

// Dispatch runs cmd against r and returns the text to show the user. Empty
// and Exit do nothing and return an empty string.
func Dispatch(ctx context.Context, r Reviewer, cmd Command) (string, error) {
	switch cmd.Kind {
	case Chat:
		return r.Chat(ctx, cmd.Arg)
	case Review:
		return r.ReviewCode(ctx, cmd.Arg, "")
	case File:
		return r.ReviewFile(ctx, cmd.Arg)
	case Explain:
		return r.ExplainLast(ctx)
	case Clear:
		r.Clear()
		return ClearedMessage, nil
	case Empty, Exit:
		return "", nil
	default:
		return "", fmt.Errorf("unknown command kind: %v", cmd.Kind)
	}
}
