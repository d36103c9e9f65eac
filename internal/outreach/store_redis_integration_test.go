//go:build integration

package outreach_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reclaim/internal/lead"
	"reclaim/internal/outreach"
	"reclaim/pkg/testutil/containers"
)

func TestRedisCounterStore_IncrementAndCount(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := outreach.NewRedisCounterStore(rc.Client)
	ctx := context.Background()

	count, err := store.Count(ctx, "frequency:sms:lead-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	for want := int64(1); want <= 3; want++ {
		got, err := store.Increment(ctx, "frequency:sms:lead-1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	count, err = store.Count(ctx, "frequency:sms:lead-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// The TTL is anchored at the first increment and survives later ones.
	ttl, err := rc.Client.TTL(ctx, "frequency:sms:lead-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisCounterStore_BacksFrequencyCap(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(context.Background()))

	caps := outreach.NewFrequencyCap(outreach.NewRedisCounterStore(rc.Client))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, caps.Allow(ctx, "lead-1", lead.ChannelSMS))
		caps.RecordSend(ctx, "lead-1", lead.ChannelSMS)
	}
	assert.False(t, caps.Allow(ctx, "lead-1", lead.ChannelSMS))

	// Other channels and contacts are unaffected.
	assert.True(t, caps.Allow(ctx, "lead-1", lead.ChannelCall))
	assert.True(t, caps.Allow(ctx, "lead-2", lead.ChannelSMS))
}
