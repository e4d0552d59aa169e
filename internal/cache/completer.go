package cache

import (
	"context"

	"github.com/codereview-agent/codereview/internal/chat"
	"go.uber.org/zap"
)

type completer struct {
	next  chat.Completer
	cache *Cache
	log   *zap.Logger
}

// Wrap returns a Completer that answers from c when the exact request has
// been seen before and stores fresh replies otherwise. A disabled cache
// returns next unchanged.
func Wrap(next chat.Completer, c *Cache, log *zap.Logger) chat.Completer {
	if c == nil || !c.Enabled() {
		return next
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &completer{next: next, cache: c, log: log}
}

func (w *completer) Name() string { return w.next.Name() }

func (w *completer) Complete(ctx context.Context, req chat.Request) (chat.Response, error) {
	key := Key(w.next.Name(), req)
	if e, ok := w.cache.Get(key); ok {
		w.log.Debug("cache hit", zap.String("key", key))
		return chat.Response{Content: e.Content, TokensUsed: e.TokensUsed}, nil
	}

	resp, err := w.next.Complete(ctx, req)
	if err != nil {
		return resp, err
	}
	if err := w.cache.Put(key, Entry{Provider: w.next.Name(), Content: resp.Content, TokensUsed: resp.TokensUsed}); err != nil {
		w.log.Warn("writing cache entry failed", zap.Error(err))
	}
	return resp, nil
}
