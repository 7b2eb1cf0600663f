package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// cachedClient memoizes completions for identical requests.
type cachedClient struct {
	next  Client
	store *gocache.Cache
}

func newCachedClient(next Client, ttl time.Duration) *cachedClient {
	return &cachedClient{
		next:  next,
		store: gocache.New(ttl, 10*time.Minute),
	}
}

func cacheKey(req Request) string {
	h := sha256.New()
	h.Write([]byte(req.System))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	if req.JSON {
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *cachedClient) Complete(ctx context.Context, req Request) (string, error) {
	key := cacheKey(req)
	if v, ok := c.store.Get(key); ok {
		slog.Debug("LLM cache hit", "key", key[:12])
		return v.(string), nil
	}

	out, err := c.next.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	c.store.SetDefault(key, out)
	return out, nil
}

func (c *cachedClient) size() int {
	return c.store.ItemCount()
}
