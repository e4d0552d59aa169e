// Package output writes review transcripts for saving or machine consumption.
//
// Three formats are supported:
//   - json: {file, code, history} with the system instruction omitted
//   - markdown: one section per turn, suitable for pasting into a PR
//   - text: plain "Role > content" blocks
//
// Use [GetWriter] to obtain a [Writer] for a format string, or [WriteFile] to
// write straight to a path.
package output
