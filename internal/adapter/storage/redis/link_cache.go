package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pix-link-gateway/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// LinkCache implements ports.LinkCache using Redis. Entries are written on
// the public preview path and invalidated on any link mutation.
type LinkCache struct {
	client *goredis.Client
	prefix string
}

// NewLinkCache creates a new Redis-backed link cache.
func NewLinkCache(client *goredis.Client) *LinkCache {
	return &LinkCache{
		client: client,
		prefix: "link:",
	}
}

// Get retrieves a cached link by code.
// Returns nil, nil if the key does not exist.
func (c *LinkCache) Get(ctx context.Context, code string) (*domain.PaymentLink, error) {
	val, err := c.client.Get(ctx, c.prefix+code).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis link get: %w", err)
	}

	var link domain.PaymentLink
	if err := json.Unmarshal(val, &link); err != nil {
		return nil, fmt.Errorf("redis link decode: %w", err)
	}
	return &link, nil
}

// Set stores a link in the cache with TTL.
func (c *LinkCache) Set(ctx context.Context, link *domain.PaymentLink, ttl time.Duration) error {
	val, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("redis link encode: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+link.Code, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis link set: %w", err)
	}
	return nil
}

// Invalidate removes a link from the cache.
func (c *LinkCache) Invalidate(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, c.prefix+code).Err(); err != nil {
		return fmt.Errorf("redis link invalidate: %w", err)
	}
	return nil
}
