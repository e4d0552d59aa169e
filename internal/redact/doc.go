// Package redact strips secrets from source code before it is embedded in a
// review prompt.
//
// Detection uses regex heuristics for common secret shapes (API keys, JWTs,
// private key headers, AWS keys, bearer tokens and provider tokens). Files
// whose paths match a configured glob are withheld entirely.
package redact
