// Codereview is a command-line code review agent backed by a chat model.
//
// Run it with no arguments for an interactive session, or review a single
// file or snippet and exit.
//
// Usage:
//
//	codereview                          # interactive session
//	codereview --file app.py            # review a file
//	codereview --code 'x = 1/0'         # review a snippet
//	codereview -f app.py -o review.json # review and save the transcript
//	codereview history list             # browse past sessions
//
// Interactive commands: review <code>, file <path>, explain, clear, exit.
package main
