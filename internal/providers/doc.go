// Package providers implements the chat.Completer interface for each
// supported model backend.
//
// Supported providers: OpenAI (and OpenAI-compatible endpoints), Anthropic,
// and Ollama for local models (through langchaingo).
//
// The HTTP providers share a retry helper with exponential back-off for rate
// limits and server errors; authentication failures are never retried. Base
// URLs and HTTP clients are plain fields so tests can point them at
// httptest servers.
//
// Use [New] to obtain a Completer from a [Config].
package providers
