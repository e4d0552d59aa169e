package session

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SystemPrompt is the fixed instruction every history starts with.
const SystemPrompt = `You are CodeReview Agent, an expert AI assistant specialised in reviewing code.

Your capabilities:
- Detect bugs, logic errors, and security vulnerabilities
- Suggest performance optimisations and best practices
- Enforce coding standards (PEP8, SOLID, DRY, etc.)
- Explain complex code in plain English
- Generate unit-test stubs for reviewed functions
- Provide refactored alternatives where relevant

Response format:
1. Summary: one-line verdict (Pass / Needs Work / Critical Issues)
2. Issues Found: numbered list with severity [LOW / MEDIUM / HIGH / CRITICAL]
3. Suggestions: actionable improvements
4. Refactored Snippet: improved code (if applicable)
5. Test Stubs: basic unit tests (if applicable)

Always be concise, constructive, and beginner-friendly.`

const (
	// AutoDetect is the language label used when the caller gives none.
	AutoDetect = "auto-detect"

	// NoCodeReviewed is returned by ExplainLast before any review.
	NoCodeReviewed = "No code has been reviewed yet. Please review some code first."

	explainPrompt = "Can you explain what the last reviewed code does in simple terms?"
)

var languages = map[string]string{
	"py":   "Python",
	"js":   "JavaScript",
	"ts":   "TypeScript",
	"java": "Java",
	"cs":   "C#",
	"go":   "Go",
	"rs":   "Rust",
	"cpp":  "C++",
	"c":    "C",
	"rb":   "Ruby",
	"php":  "PHP",
}

// BuildReviewPrompt embeds code in a fenced block after a review request
// naming the language.
func BuildReviewPrompt(code, language string) string {
	if language == "" {
		language = AutoDetect
	}
	return fmt.Sprintf("Please review the following %s code:\n\n```\n%s\n```", language, code)
}

// LanguageFor maps a file path's extension to a language label. Unknown
// extensions are returned as-is without the dot; no extension yields "unknown".
func LanguageFor(path string) string {
	ext := extension(path)
	if ext == "" {
		return "unknown"
	}
	if lang, ok := languages[ext]; ok {
		return lang
	}
	return ext
}

// extension returns the extension without its dot. Dotfiles such as
// ".bashrc" have no extension.
func extension(path string) string {
	base := strings.TrimLeft(filepath.Base(path), ".")
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return base[i+1:]
}
