package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Realquiid/vendopage/internal/repository"
	"github.com/redis/go-redis/v9"
)

const sellerSlugKeyPrefix = "seller:slug:"

type sellerCache struct {
	client *redis.Client
}

func NewSellerCache(client *redis.Client) repository.SellerCache {
	return &sellerCache{client: client}
}

func (c *sellerCache) GetBySlug(ctx context.Context, slug string) (string, error) {
	id, err := c.client.Get(ctx, sellerSlugKeyPrefix+slug).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("failed to get cached seller for slug %s: %w", slug, err)
	}
	return id, nil
}

func (c *sellerCache) SetBySlug(ctx context.Context, slug, sellerID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, sellerSlugKeyPrefix+slug, sellerID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache seller for slug %s: %w", slug, err)
	}
	return nil
}

func (c *sellerCache) DeleteBySlug(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, sellerSlugKeyPrefix+slug).Err(); err != nil {
		return fmt.Errorf("failed to evict cached seller for slug %s: %w", slug, err)
	}
	return nil
}
