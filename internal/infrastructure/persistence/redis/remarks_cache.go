package redis

import (
	"context"
	"errors"

	"github.com/registry-hub/progression-engine/internal/domain/progression"
	"github.com/registry-hub/progression-engine/internal/domain/shared"
)

// RemarksCache implements the remarks query's cache port over Redis.
// A miss is (nil, nil); the handler treats any error as a miss with a log
// line, so a Redis outage only costs recomputation.
type RemarksCache struct {
	cache *Cache
}

// NewRemarksCache creates a new RemarksCache.
func NewRemarksCache(cache *Cache) *RemarksCache {
	return &RemarksCache{cache: cache}
}

// Get returns the cached remarks for a student, or (nil, nil) on a miss.
func (c *RemarksCache) Get(ctx context.Context, studentNo shared.StudentNo) (*progression.RemarksResult, error) {
	var result progression.RemarksResult
	err := c.cache.Get(ctx, RemarksKey(studentNo.Int64()), &result)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// Set caches the remarks for a student.
func (c *RemarksCache) Set(ctx context.Context, studentNo shared.StudentNo, result progression.RemarksResult) error {
	return c.cache.Set(ctx, RemarksKey(studentNo.Int64()), result, TTLRemarks)
}

// Invalidate drops the cached remarks, e.g. after marks capture or a
// semester status change.
func (c *RemarksCache) Invalidate(ctx context.Context, studentNo shared.StudentNo) error {
	return c.cache.Delete(ctx, RemarksKey(studentNo.Int64()))
}
