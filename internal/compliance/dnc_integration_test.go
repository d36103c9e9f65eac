//go:build integration

package compliance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reclaim/internal/compliance"
	"reclaim/pkg/testutil/containers"
)

func TestRedisScrubCache_RoundTrip(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	cache := compliance.NewRedisScrubCache(rc.Client)
	ctx := context.Background()

	_, found, err := cache.Get(ctx, "918-555-0100")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "918-555-0100", true))
	require.NoError(t, cache.Set(ctx, "405-555-0199", false))

	listed, found, err := cache.Get(ctx, "918-555-0100")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, listed)

	listed, found, err = cache.Get(ctx, "405-555-0199")
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, listed)

	// Entries expire rather than living forever.
	ttl, err := rc.Client.TTL(ctx, "dnc:phone:918-555-0100").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 89*24*time.Hour)
	assert.LessOrEqual(t, ttl, 90*24*time.Hour)
}

type staticRegistry struct{ listed bool }

func (r staticRegistry) Listed(context.Context, string) (bool, error) { return r.listed, nil }

type countingRegistry struct {
	inner compliance.DNCRegistry
	calls int
}

func (r *countingRegistry) Listed(ctx context.Context, phone string) (bool, error) {
	r.calls++
	return r.inner.Listed(ctx, phone)
}

func TestScrubber_CachesRegistryAnswers(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(context.Background()))

	registry := &countingRegistry{inner: staticRegistry{listed: true}}
	scrubber := compliance.NewScrubber(registry, compliance.NewRedisScrubCache(rc.Client), nil)
	ctx := context.Background()

	listed, scrubbed := scrubber.Scrub(ctx, "918-555-0100")
	assert.True(t, listed)
	assert.True(t, scrubbed)
	assert.Equal(t, 1, registry.calls)

	// Second scrub is served from the cache.
	listed, scrubbed = scrubber.Scrub(ctx, "918-555-0100")
	assert.True(t, listed)
	assert.True(t, scrubbed)
	assert.Equal(t, 1, registry.calls)
}
