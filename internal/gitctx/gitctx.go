package gitctx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/codereview-agent/codereview/internal/redact"
)

// Mode names the kind of diff collected.
type Mode string

const (
	Unstaged Mode = "unstaged"
	Staged   Mode = "staged"
	Range    Mode = "range"
)

// Options controls how diffs are gathered.
type Options struct {
	// Dir is the working directory git runs in; empty means the current one.
	Dir          string
	ContextLines int
	MaxBytes     int
	Exclude      []string
}

// Diff holds a collected diff and the files it touches.
type Diff struct {
	Text      string
	Files     []string
	Mode      Mode
	Range     string
	Truncated bool
}

// Empty reports whether the diff has no changes.
func (d Diff) Empty() bool {
	return strings.TrimSpace(d.Text) == ""
}

const truncatedNote = "\n... (diff truncated)\n"

// Collect returns the diff selected by spec: "" or "unstaged" for the working
// tree against the index, "staged" for the index against HEAD, anything else
// is a revision range. A two-dot range is compared from its merge base.
func Collect(ctx context.Context, spec string, opts Options) (Diff, error) {
	args := []string{"diff"}
	d := Diff{}
	switch spec {
	case "", string(Unstaged):
		d.Mode = Unstaged
	case string(Staged):
		d.Mode = Staged
		args = append(args, "--cached")
	default:
		if strings.HasPrefix(spec, "-") {
			return Diff{}, fmt.Errorf("invalid diff range %q: must not start with '-'", spec)
		}
		d.Mode = Range
		d.Range = spec
		rng := spec
		if strings.Contains(rng, "..") && !strings.Contains(rng, "...") {
			rng = strings.Replace(rng, "..", "...", 1)
		}
		args = append(args, rng)
	}
	if opts.ContextLines > 0 {
		args = append(args, fmt.Sprintf("-U%d", opts.ContextLines))
	}
	args = append(args, "--")

	text, err := gitOutput(ctx, opts.Dir, args...)
	if err != nil {
		return Diff{}, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	if len(opts.Exclude) > 0 {
		text = filterExcluded(text, opts.Exclude)
	}
	d.Files = extractFiles(text)

	d.Text, d.Truncated = truncate(text, opts.MaxBytes)
	return d, nil
}

// truncate cuts text to at most max bytes on a rune boundary and marks the cut.
func truncate(text string, max int) (string, bool) {
	if max <= 0 || len(text) <= max {
		return text, false
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + truncatedNote, true
}

func extractFiles(diff string) []string {
	var files []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(diff, "\n") {
		if f, ok := strings.CutPrefix(line, "+++ b/"); ok && !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	return files
}

// filterExcluded drops whole file sections whose path matches a pattern.
func filterExcluded(diff string, excludes []string) string {
	var kept []string
	for _, section := range splitSections(diff) {
		path := sectionPath(section)
		if path == "" || !redact.MatchPath(path, excludes) {
			kept = append(kept, section)
		}
	}
	return strings.Join(kept, "")
}

func splitSections(diff string) []string {
	var sections []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, "diff --git") && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		sections = append(sections, current.String())
	}
	return sections
}

// sectionPath returns the post-image path of a file section, falling back to
// the pre-image for deletions.
func sectionPath(section string) string {
	var old string
	for _, line := range strings.Split(section, "\n") {
		if p, ok := strings.CutPrefix(line, "+++ b/"); ok {
			return p
		}
		if p, ok := strings.CutPrefix(line, "--- a/"); ok {
			old = p
		}
	}
	return old
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
