package service

import (
	"context"
	"time"

	"github.com/BloggingApp/feed-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cache wraps the optional redis repository. Every method is a no-op when redis is nil, and
// redis failures are logged without failing the request.
type cache struct {
	logger *zap.Logger
	redis  *redisrepo.RedisRepository
	ttl    time.Duration
}

func newCache(logger *zap.Logger, rdb *redisrepo.RedisRepository, ttl time.Duration) *cache {
	return &cache{
		logger: logger,
		redis:  rdb,
		ttl:    ttl,
	}
}

func (c *cache) enabled() bool {
	return c.redis != nil
}

func cacheGet[T any](ctx context.Context, c *cache, key string) (*T, bool) {
	if !c.enabled() {
		return nil, false
	}

	value, err := redisrepo.Get[T](c.redis.Default, ctx, key)
	if err != nil {
		if err != redis.Nil {
			c.logger.Sugar().Errorf("failed to get key(%s) from redis: %s", key, err.Error())
		}
		return nil, false
	}

	return value, value != nil
}

func (c *cache) set(ctx context.Context, key string, value any) {
	if !c.enabled() {
		return
	}

	if err := c.redis.Default.SetJSON(ctx, key, value, c.ttl); err != nil {
		c.logger.Sugar().Errorf("failed to set key(%s) in redis: %s", key, err.Error())
	}
}

// feedVersion returns false when the version could not be read; callers skip the cache then.
func (c *cache) feedVersion(ctx context.Context) (int64, bool) {
	if !c.enabled() {
		return 0, false
	}

	version, err := redisrepo.Version(c.redis.Default, ctx, redisrepo.FEED_VERSION_KEY)
	if err != nil {
		c.logger.Sugar().Errorf("failed to get feed version from redis: %s", err.Error())
		return 0, false
	}

	return version, true
}

// postVersion behaves like feedVersion for a single post.
func (c *cache) postVersion(ctx context.Context, postID uuid.UUID) (int64, bool) {
	if !c.enabled() {
		return 0, false
	}

	version, err := redisrepo.Version(c.redis.Default, ctx, redisrepo.PostVersionKey(postID))
	if err != nil {
		c.logger.Sugar().Errorf("failed to get post(%s) version from redis: %s", postID.String(), err.Error())
		return 0, false
	}

	return version, true
}

func (c *cache) invalidateFeed(ctx context.Context) {
	if !c.enabled() {
		return
	}

	if err := c.redis.Default.Incr(ctx, redisrepo.FEED_VERSION_KEY).Err(); err != nil {
		c.logger.Sugar().Errorf("failed to bump feed version in redis: %s", err.Error())
	}
}

func (c *cache) invalidatePost(ctx context.Context, postID uuid.UUID) {
	if !c.enabled() {
		return
	}

	// A reader that loaded the post before this write still sets it under the old version.
	version, err := c.redis.Default.Incr(ctx, redisrepo.PostVersionKey(postID)).Result()
	if err != nil {
		c.logger.Sugar().Errorf("failed to bump post(%s) version in redis: %s", postID.String(), err.Error())
	} else if err := c.redis.Default.Del(ctx, redisrepo.PostKey(postID, version-1)).Err(); err != nil {
		c.logger.Sugar().Errorf("failed to delete post(%s) from redis: %s", postID.String(), err.Error())
	}
	c.invalidateFeed(ctx)
}
