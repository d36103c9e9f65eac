package outreach

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reclaim/internal/lead"
)

// frequencyWindow is the rolling period one counter covers.
const frequencyWindow = 24 * time.Hour

// Caps holds the per-channel daily send limits.
type Caps map[lead.Channel]int

func DefaultCaps() Caps {
	return Caps{
		lead.ChannelSMS:   3,
		lead.ChannelEmail: 1,
		lead.ChannelCall:  2,
	}
}

// CounterStore backs the frequency counters. Increment must create the key
// with the TTL atomically when absent and never extend an existing TTL, so
// the window stays anchored to the first send.
type CounterStore interface {
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Count(ctx context.Context, key string) (int64, error)
}

// FrequencyCap bounds sends per contact per channel per day.
//
// Store outages fail open: over-sending within a day is a lesser harm than
// silently halting all outreach. This is a deliberate policy, the inverse
// of the compliance oracle's fail-closed stance.
type FrequencyCap struct {
	store  CounterStore
	caps   Caps
	logger *slog.Logger
}

type CapOption func(*FrequencyCap)

func WithCaps(caps Caps) CapOption {
	return func(f *FrequencyCap) {
		if len(caps) > 0 {
			f.caps = caps
		}
	}
}

func WithCapLogger(logger *slog.Logger) CapOption {
	return func(f *FrequencyCap) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func NewFrequencyCap(store CounterStore, opts ...CapOption) *FrequencyCap {
	f := &FrequencyCap{
		store:  store,
		caps:   DefaultCaps(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func frequencyKey(contact string, channel lead.Channel) string {
	return fmt.Sprintf("frequency:%s:%s", channel, contact)
}

// Allow reports whether another send to the contact is within the cap.
func (f *FrequencyCap) Allow(ctx context.Context, contact string, channel lead.Channel) bool {
	limit, ok := f.caps[channel]
	if !ok {
		return false
	}

	count, err := f.store.Count(ctx, frequencyKey(contact, channel))
	if err != nil {
		f.logger.WarnContext(ctx, "frequency check failed, failing open",
			"contact", contact, "channel", channel, "error", err)
		return true
	}
	if count >= int64(limit) {
		f.logger.InfoContext(ctx, "frequency cap reached",
			"contact", contact, "channel", channel, "count", count, "cap", limit)
		return false
	}
	return true
}

// RecordSend bumps the counter, creating it with a 24h expiry on first use.
// Errors are logged and swallowed; a lost count only risks one extra send.
func (f *FrequencyCap) RecordSend(ctx context.Context, contact string, channel lead.Channel) {
	if _, err := f.store.Increment(ctx, frequencyKey(contact, channel), frequencyWindow); err != nil {
		f.logger.WarnContext(ctx, "failed to record send",
			"contact", contact, "channel", channel, "error", err)
	}
}

// Count returns the current window's send count, 0 on store errors.
func (f *FrequencyCap) Count(ctx context.Context, contact string, channel lead.Channel) int64 {
	count, err := f.store.Count(ctx, frequencyKey(contact, channel))
	if err != nil {
		f.logger.WarnContext(ctx, "frequency count unavailable",
			"contact", contact, "channel", channel, "error", err)
		return 0
	}
	return count
}
