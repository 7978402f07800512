package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"realty-calc/repository"
)

// ResultCache memoizes calculation results by a hash of their input.
// Calculations are pure, so a hit is always the same answer. Cache
// failures are logged and never fail a calculation.
type ResultCache struct {
	repo   repository.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewResultCache wraps repo. A nil repo disables caching.
func NewResultCache(repo repository.CacheRepository, ttl time.Duration, logger *zap.Logger) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultCache{repo: repo, ttl: ttl, logger: logger}
}

func cacheKey(kind string, input any) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("calc:%s:%016x", kind, xxhash.Sum64(payload)), nil
}

// cached returns the stored result for input, or computes and stores it.
func cached[T any](ctx context.Context, c *ResultCache, kind string, input any, compute func() (T, error)) (T, error) {
	if c == nil || c.repo == nil {
		return compute()
	}

	key, err := cacheKey(kind, input)
	if err != nil {
		c.logger.Warn("cache key", zap.String("kind", kind), zap.Error(err))
		return compute()
	}

	if raw, ok := c.repo.Get(ctx, key); ok {
		var hit T
		err := json.Unmarshal([]byte(raw), &hit)
		if err == nil {
			c.logger.Debug("cache hit", zap.String("key", key))
			return hit, nil
		}
		c.logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
	}

	result, err := compute()
	if err != nil {
		return result, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("encode result for cache", zap.String("key", key), zap.Error(err))
		return result, nil
	}
	if err := c.repo.Set(ctx, key, string(payload), c.ttl); err != nil {
		c.logger.Warn("failed to cache result", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}
