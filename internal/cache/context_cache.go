package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// ContextCache memoizes retrieved context strings per query so repeated
// questions skip the embedding call and the similarity scan. Entries are
// keyed by a digest of the query text and expire after a short TTL, since
// new ingestions change what the best context is.
type ContextCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewContextCache(client *redisv9.Client, ttl time.Duration) *ContextCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ContextCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ContextCache) GetContext(ctx context.Context, query string) (string, bool, error) {
	key := c.contextKey(query)
	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get context failed: %w", err)
	}
	return raw, true, nil
}

func (c *ContextCache) SetContext(ctx context.Context, query, contextText string) error {
	key := c.contextKey(query)
	if err := c.client.Set(ctx, key, contextText, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set context failed: %w", err)
	}
	return nil
}

// Flush drops every cached context entry. Called after document deletion
// so stale chunks stop being served.
func (c *ContextCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "rag:context:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete context failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan context keys failed: %w", err)
	}
	return nil
}

func (c *ContextCache) contextKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return "rag:context:" + hex.EncodeToString(sum[:])
}
