package circuit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDependency = errors.New("dependency down")

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func failing(ctx context.Context) error { return errDependency }
func succeeding(ctx context.Context) error { return nil }

func TestBreaker_InitialState(t *testing.T) {
	b := New("test")
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
	assert.Equal(t, "test", b.Name())
	assert.Zero(t, b.Failures())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	ctx := context.Background()
	b := New("test", WithFailureThreshold(3))

	for i := 0; i < 2; i++ {
		err := b.Do(ctx, failing)
		require.ErrorIs(t, err, errDependency)
		assert.Equal(t, StateClosed, b.State())
	}

	err := b.Do(ctx, failing)
	require.ErrorIs(t, err, errDependency)
	assert.Equal(t, StateOpen, b.State())
	assert.Equal(t, 3, b.Failures())
}

func TestBreaker_RejectsWhileOpen(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	b := New("test", WithFailureThreshold(1), WithCooldown(30*time.Second), WithClock(clock.Now))

	require.Error(t, b.Do(ctx, failing))
	assert.True(t, b.IsOpen())

	// Before the cooldown elapses the wrapped function must never run.
	invoked := false
	err := b.Do(ctx, func(ctx context.Context) error {
		invoked = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, invoked)
}

func TestBreaker_HalfOpenTrialSuccessCloses(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	b := New("test", WithFailureThreshold(1), WithCooldown(30*time.Second), WithClock(clock.Now))

	require.Error(t, b.Do(ctx, failing))
	clock.Advance(31 * time.Second)

	// Exactly one trial call is admitted and its success closes the breaker.
	require.NoError(t, b.Do(ctx, succeeding))
	assert.Equal(t, StateClosed, b.State())
	assert.Zero(t, b.Failures())
}

func TestBreaker_HalfOpenTrialFailureReopens(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	b := New("test", WithFailureThreshold(1), WithCooldown(30*time.Second), WithClock(clock.Now))

	require.Error(t, b.Do(ctx, failing))
	clock.Advance(31 * time.Second)

	require.ErrorIs(t, b.Do(ctx, failing), errDependency)
	assert.Equal(t, StateOpen, b.State())

	// The cooldown timer restarted: still rejecting before it elapses again.
	clock.Advance(29 * time.Second)
	assert.ErrorIs(t, b.Do(ctx, succeeding), ErrOpen)

	clock.Advance(2 * time.Second)
	require.NoError(t, b.Do(ctx, succeeding))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_StateReportsHalfOpenAfterCooldown(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	b := New("test", WithFailureThreshold(1), WithCooldown(30*time.Second), WithClock(clock.Now))

	require.Error(t, b.Do(ctx, failing))
	assert.Equal(t, StateOpen, b.State())

	clock.Advance(31 * time.Second)
	assert.Equal(t, StateHalfOpen, b.State())
	assert.False(t, b.IsOpen())

	// Reading the state does not consume the trial slot.
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, b.Do(ctx, succeeding))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	ctx := context.Background()
	b := New("test", WithFailureThreshold(3))

	require.Error(t, b.Do(ctx, failing))
	require.Error(t, b.Do(ctx, failing))
	require.NoError(t, b.Do(ctx, succeeding))

	// Two more failures do not open; the streak restarted.
	require.Error(t, b.Do(ctx, failing))
	require.Error(t, b.Do(ctx, failing))
	assert.Equal(t, StateClosed, b.State())

	require.Error(t, b.Do(ctx, failing))
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_Reset(t *testing.T) {
	ctx := context.Background()
	b := New("test", WithFailureThreshold(1))

	require.Error(t, b.Do(ctx, failing))
	assert.Equal(t, StateOpen, b.State())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.Zero(t, b.Failures())
	require.NoError(t, b.Do(ctx, succeeding))
}

func TestRegistry_SharesBreakerPerName(t *testing.T) {
	r := NewRegistry(WithFailureThreshold(2))

	a := r.Get("vendor-a")
	assert.Same(t, a, r.Get("vendor-a"))
	assert.NotSame(t, a, r.Get("vendor-b"))

	require.Error(t, a.Do(context.Background(), failing))
	require.Error(t, a.Do(context.Background(), failing))

	snap := r.Snapshot()
	assert.Equal(t, "open", snap["vendor-a"].State)
	assert.Equal(t, "closed", snap["vendor-b"].State)
}
