// Package config loads and merges codereview configuration from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CODEREVIEW_PROVIDER, CODEREVIEW_MODEL, etc.)
//  3. Config file ($XDG_CONFIG_HOME/codereview/config.yaml)
//  4. Built-in defaults
//
// API keys are only ever read from the environment and are never written to
// the config file. Use [Load] to obtain a merged [Config], [Save] to write
// one, and [SetField] to update a single key.
package config
