package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dramlab/tastegraph/internal/domain"
	"github.com/dramlab/tastegraph/internal/platform/envutil"
	"github.com/dramlab/tastegraph/internal/platform/logger"
)

// RedisProfileCache is a read-side cache for taste profiles. Profile reads
// tolerate staleness, so every cache failure is logged and treated as a
// miss; the profiler recomputes from the graph.
type RedisProfileCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewRedisProfileCacheFromEnv returns (nil, nil) when REDIS_ADDR is unset;
// the profiler runs uncached in that case.
func NewRedisProfileCacheFromEnv(log *logger.Logger) (*RedisProfileCache, error) {
	if log == nil {
		return nil, fmt.Errorf("profile cache: logger required")
	}

	addr := envutil.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		return nil, nil
	}
	ttlSec := envutil.GetEnvAsInt("PROFILE_CACHE_TTL_SECONDS", 300, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisProfileCache{
		rdb: rdb,
		ttl: time.Duration(ttlSec) * time.Second,
		log: log.With("service", "ProfileCache"),
	}, nil
}

func profileKey(userID int64) string {
	return fmt.Sprintf("taste:profile:%d", userID)
}

func (c *RedisProfileCache) Get(ctx context.Context, userID int64) (*domain.Profile, bool) {
	raw, err := c.rdb.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("profile cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}
	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		c.log.Warn("profile cache entry corrupt, dropping", "user_id", userID, "error", err)
		_ = c.rdb.Del(ctx, profileKey(userID)).Err()
		return nil, false
	}
	return &profile, true
}

func (c *RedisProfileCache) Set(ctx context.Context, userID int64, profile *domain.Profile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		c.log.Warn("profile cache marshal failed", "user_id", userID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, profileKey(userID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("profile cache write failed", "user_id", userID, "error", err)
	}
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, userID int64) {
	if err := c.rdb.Del(ctx, profileKey(userID)).Err(); err != nil {
		c.log.Warn("profile cache invalidate failed", "user_id", userID, "error", err)
	}
}

func (c *RedisProfileCache) Close() error {
	return c.rdb.Close()
}
