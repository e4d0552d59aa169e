// Package cache stores model replies on disk, keyed by the exact request that
// produced them.
//
// A key is the SHA-256 of the provider name, model, sampling parameters and
// the full message history, so a cached reply is only reused when the whole
// conversation is identical. Entries older than the TTL are ignored on read
// and counted as expired in [Cache.Stats]. [Wrap] turns a Cache into a
// caching chat.Completer decorator.
//
// The default directory is $XDG_CACHE_HOME/codereview (or the OS-appropriate
// equivalent).
package cache
