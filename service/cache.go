package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ICacheClient defines the contract for a cache client. The abstraction
// decouples services from a concrete Redis implementation, enabling easier
// testing.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

func cardsCacheKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("cards:%s", ownerID)
}

// invalidateCards drops the cached card listing for an owner. Every write
// touching one of the owner's cards must call it after commit.
func invalidateCards(ctx context.Context, cache ICacheClient, ownerID uuid.UUID) {
	if cache == nil {
		return
	}
	cache.Del(ctx, cardsCacheKey(ownerID))
}
