package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Banner is printed when the interactive loop starts.
const Banner = `
==============================================================
  CodeReview Agent
==============================================================
Commands:
  review <code>   paste code inline
  file <path>     review a local file
  explain         explain the last reviewed code
  clear           start a new session
  exit / quit     exit the agent

Type your message or a command to get started.
`

const (
	prompt  = "You > "
	goodbye = "Goodbye!"

	// maxLine bounds a single input line; pasted code can be long.
	maxLine = 1 << 20
)

// Renderer styles a reply before it is printed.
type Renderer interface {
	Render(text string) string
}

// Loop reads commands from in and writes replies to out until exit, EOF or
// context cancellation.
type Loop struct {
	Reviewer Reviewer
	In       io.Reader
	Out      io.Writer
	Renderer Renderer
	Log      *zap.Logger
}

// Run executes the loop. Errors from the model are printed and the loop
// continues; only a read failure on in is returned.
func (l *Loop) Run(ctx context.Context) error {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}

	fmt.Fprintln(l.Out, Banner)
	sc := bufio.NewScanner(l.In)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	for {
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(l.Out, "\n"+goodbye)
			return nil
		}

		fmt.Fprint(l.Out, prompt)
		if !sc.Scan() {
			fmt.Fprintln(l.Out, "\n"+goodbye)
			return sc.Err()
		}

		cmd := Parse(sc.Text())
		switch cmd.Kind {
		case Empty:
			continue
		case Exit:
			fmt.Fprintln(l.Out, goodbye)
			return nil
		}

		log.Debug("dispatching command", zap.Stringer("kind", cmd.Kind))
		reply, err := Dispatch(ctx, l.Reviewer, cmd)
		if err != nil {
			log.Warn("command failed", zap.Stringer("kind", cmd.Kind), zap.Error(err))
			fmt.Fprintf(l.Out, "\nError: %v\n\n", err)
			continue
		}
		if cmd.Kind == Clear {
			fmt.Fprintf(l.Out, "%s\n\n", reply)
			continue
		}
		if l.Renderer != nil {
			reply = l.Renderer.Render(reply)
		}
		fmt.Fprintf(l.Out, "\nAgent >\n%s\n\n", reply)
	}
}
