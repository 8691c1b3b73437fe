package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alexanderramin/careerplan/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the byte-level store used by CachedPlanRepo.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// RedisCache adapts a go-redis client to Cache.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// CachedPlanRepo is a read-through decorator over a PlanRepo. Put writes to
// the inner repo first and then refreshes the cached copy. Cache failures are
// logged and never fail the call.
type CachedPlanRepo struct {
	inner PlanRepo
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedPlanRepo(inner PlanRepo, cache Cache, ttl time.Duration, log *zap.Logger) *CachedPlanRepo {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedPlanRepo{inner: inner, cache: cache, ttl: ttl, log: log.Named("plan_cache")}
}

func planCacheKey(username string) string {
	return fmt.Sprintf("careerplan:plan:%s", username)
}

func (r *CachedPlanRepo) Get(ctx context.Context, username string) (*domain.Plan, error) {
	key := planCacheKey(username)
	b, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		p, decErr := decodeSnapshot(b)
		if decErr == nil {
			return p, nil
		}
		r.log.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(decErr))
		r.evict(ctx, key)
	case !errors.Is(err, ErrCacheMiss):
		r.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	p, err := r.inner.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	r.store(ctx, p)
	return p, nil
}

func (r *CachedPlanRepo) Put(ctx context.Context, p *domain.Plan) error {
	if err := r.inner.Put(ctx, p); err != nil {
		r.evict(ctx, planCacheKey(p.UserID))
		return err
	}
	r.store(ctx, p)
	return nil
}

func (r *CachedPlanRepo) History(ctx context.Context, username string) ([]PlanVersion, error) {
	return r.inner.History(ctx, username)
}

func (r *CachedPlanRepo) store(ctx context.Context, p *domain.Plan) {
	key := planCacheKey(p.UserID)
	b, err := encodeSnapshot(p)
	if err != nil {
		r.log.Warn("encoding plan for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, key, b, r.ttl); err != nil {
		r.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *CachedPlanRepo) evict(ctx context.Context, key string) {
	if err := r.cache.Del(ctx, key); err != nil {
		r.log.Warn("cache evict failed", zap.String("key", key), zap.Error(err))
	}
}
