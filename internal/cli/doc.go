// Package cli wires together the Cobra command tree for the codereview binary.
//
// The root command runs the interactive review loop, or a single-shot review
// when --file or --code is given. Subcommands manage configuration, models,
// the reply cache and stored transcripts. Handlers set deterministic exit
// codes so scripts can tell usage, auth and runtime failures apart.
package cli
