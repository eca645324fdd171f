package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AccessCache caches each user's allowed tenant id set in Redis. Failures
// degrade to cache misses; the resolver falls back to the database.
type AccessCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAccessCache(client *redis.Client, ttl time.Duration) *AccessCache {
	return &AccessCache{client: client, ttl: ttl}
}

func allowedTenantsKey(userID uuid.UUID) string {
	return fmt.Sprintf("orgadmin:access:tenants:%s", userID)
}

func (c *AccessCache) GetAllowedTenants(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, bool) {
	data, err := c.client.Get(ctx, allowedTenantsKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("access cache read failed")
		}
		return nil, false
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (c *AccessCache) SetAllowedTenants(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) {
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, allowedTenantsKey(userID), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("access cache write failed")
	}
}

// InvalidateUser drops the cached tenant set. Membership writes call this so
// revocation is visible on the next request.
func (c *AccessCache) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	if err := c.client.Del(ctx, allowedTenantsKey(userID)).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("access cache invalidation failed")
	}
}

// Ping checks Redis connectivity for readiness probes.
func (c *AccessCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
