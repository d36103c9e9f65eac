package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DNCRegistry answers whether a phone number appears on the federal
// do-not-call list.
type DNCRegistry interface {
	Listed(ctx context.Context, phone string) (bool, error)
}

// ScrubCache remembers scrub results so the registry is not re-queried for
// every outreach attempt.
type ScrubCache interface {
	Get(ctx context.Context, phone string) (listed bool, found bool, err error)
	Set(ctx context.Context, phone string, listed bool) error
}

const (
	dncKeyPrefix = "dnc:phone:"
	// Federal DNC data is refreshed quarterly at most; 90 days keeps cache
	// entries inside one refresh cycle.
	dncCacheTTL = 90 * 24 * time.Hour
)

// RedisScrubCache stores scrub results as short marker values under a
// per-phone key with a 90 day expiry.
type RedisScrubCache struct {
	client *redis.Client
}

func NewRedisScrubCache(client *redis.Client) *RedisScrubCache {
	return &RedisScrubCache{client: client}
}

func (c *RedisScrubCache) Get(ctx context.Context, phone string) (bool, bool, error) {
	val, err := c.client.Get(ctx, dncKeyPrefix+phone).Result()
	if err == redis.Nil {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("dnc cache get: %w", err)
	}
	return val == "listed", true, nil
}

func (c *RedisScrubCache) Set(ctx context.Context, phone string, listed bool) error {
	val := "clear"
	if listed {
		val = "listed"
	}
	if err := c.client.Set(ctx, dncKeyPrefix+phone, val, dncCacheTTL).Err(); err != nil {
		return fmt.Errorf("dnc cache set: %w", err)
	}
	return nil
}

// Scrubber runs DNC lookups through the cache. Registry or cache outages
// fail open: an unreachable list must not halt all outreach, so the number
// is treated as not listed and left unscrubbed for a later retry.
type Scrubber struct {
	registry DNCRegistry
	cache    ScrubCache
	logger   *slog.Logger
}

func NewScrubber(registry DNCRegistry, cache ScrubCache, logger *slog.Logger) *Scrubber {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scrubber{registry: registry, cache: cache, logger: logger}
}

// Scrub returns (listed, scrubbed). scrubbed=false means the lookup could
// not be completed and the result must not be persisted as authoritative.
func (s *Scrubber) Scrub(ctx context.Context, phone string) (listed, scrubbed bool) {
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, phone)
		if err != nil {
			s.logger.WarnContext(ctx, "dnc cache unavailable", "error", err)
		} else if found {
			return cached, true
		}
	}

	listed, err := s.registry.Listed(ctx, phone)
	if err != nil {
		s.logger.WarnContext(ctx, "dnc registry lookup failed, failing open", "error", err)
		return false, false
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, phone, listed); err != nil {
			s.logger.WarnContext(ctx, "dnc cache write failed", "error", err)
		}
	}
	return listed, true
}
