package redact

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Placeholder replaces every detected secret.
const Placeholder = "[REDACTED]"

type rule struct {
	name string
	re   *regexp.Regexp
}

var defaultRules = []rule{
	{"api-key", regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`)},
	{"aws-access-key-id", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"aws-secret-access-key", regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`)},
	{"credential-assignment", regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`)},
	{"bearer", regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`)},
	{"jwt", regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"private-key", regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`)},
	{"github-token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`)},
	{"slack-token", regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`)},
	{"anthropic-key", regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`)},
	{"openai-key", regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`)},
	{"hex-secret", regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`)},
}

// Redactor removes secrets from code. The zero value redacts nothing; use New.
type Redactor struct {
	rules []rule
	paths []string
}

// New returns a Redactor using the built-in secret rules. Files matching any
// of paths are withheld entirely by Code.
func New(paths []string) *Redactor {
	return &Redactor{rules: defaultRules, paths: paths}
}

// Secrets replaces detected secrets in text and reports how many were found.
func (r *Redactor) Secrets(text string) (string, int) {
	if r == nil {
		return text, 0
	}
	count := 0
	for _, ru := range r.rules {
		text = ru.re.ReplaceAllStringFunc(text, func(string) string {
			count++
			return Placeholder
		})
	}
	return text, count
}

// Code redacts a code payload. An empty path means inline code, for which only
// the secret rules apply.
func (r *Redactor) Code(code, path string) (string, int) {
	if r == nil {
		return code, 0
	}
	if path != "" && MatchPath(path, r.paths) {
		return Placeholder + " (file content withheld by path policy)", 1
	}
	return r.Secrets(code)
}

// MatchPath reports whether path matches any of the glob patterns. A leading
// "**/" also matches against the base name.
func MatchPath(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
		if trimmed, found := strings.CutPrefix(pattern, "**/"); found {
			if ok, err := filepath.Match(trimmed, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}
