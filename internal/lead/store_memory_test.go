package lead

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	store := NewInMemoryStore(WithClock(func() time.Time { return at }))

	require.NoError(t, store.Put(ctx, &Lead{ID: "lead-1", Name: "Jane Smith", State: "OK", Status: StatusNew}))

	got, err := store.Get(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.Name)
	assert.Equal(t, at, got.CreatedAt)
	assert.Equal(t, at, got.UpdatedAt)

	// Get returns a copy; mutating it must not leak back.
	got.Name = "Changed"
	again, err := store.Get(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", again.Name)
}

func TestInMemoryStore_PutValidation(t *testing.T) {
	store := NewInMemoryStore()
	assert.Error(t, store.Put(context.Background(), nil))
	assert.Error(t, store.Put(context.Background(), &Lead{}))
}

func TestInMemoryStore_GetMissing(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStore_ApplyEnrichment(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Put(ctx, &Lead{ID: "lead-1", Name: "Jane Smith", Status: StatusNew}))

	enr := Enrichment{
		Phone: "918-555-0100", PhoneType: "mobile",
		Email: "jane@example.com", Provider: "skip_genie",
	}
	got, err := store.ApplyEnrichment(ctx, "lead-1", enr, 0.91)
	require.NoError(t, err)
	assert.Equal(t, "918-555-0100", got.Phone)
	assert.Equal(t, []string{"918-555-0100"}, got.Phones)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "skip_genie", got.TraceProvider)
	assert.Equal(t, 0.91, got.EnrichmentScore)
	assert.Equal(t, StatusEnriched, got.Status)
	assert.False(t, got.DNCScrubbed)

	// Re-applying the same phone does not duplicate it.
	got, err = store.ApplyEnrichment(ctx, "lead-1", enr, 0.91)
	require.NoError(t, err)
	assert.Equal(t, []string{"918-555-0100"}, got.Phones)

	_, err = store.ApplyEnrichment(ctx, "missing", enr, 0.5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStore_ApplyEnrichmentResetsScrub(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Put(ctx, &Lead{ID: "lead-1", Name: "Jane Smith", Status: StatusNew}))
	require.NoError(t, store.SetDNCResult(ctx, "lead-1", false))

	got, err := store.Get(ctx, "lead-1")
	require.NoError(t, err)
	require.True(t, got.DNCScrubbed)

	// A new phone invalidates the previous scrub.
	got, err = store.ApplyEnrichment(ctx, "lead-1", Enrichment{Phone: "405-555-0199"}, 0.33)
	require.NoError(t, err)
	assert.False(t, got.DNCScrubbed)
}

func TestInMemoryStore_MarkOptedOut(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Put(ctx, &Lead{ID: "lead-1", Name: "Jane Smith", Status: StatusContacted}))

	require.NoError(t, store.MarkOptedOut(ctx, "lead-1"))
	got, err := store.Get(ctx, "lead-1")
	require.NoError(t, err)
	assert.True(t, got.OptedOut)
	assert.Equal(t, StatusOptedOut, got.Status)

	n, err := store.CountOptedOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInMemoryStore_InActiveLitigation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Put(ctx, &Lead{
		ID: "lead-1", Name: "Jane Ann Smith", County: "Tulsa", Litigation: true,
	}))
	require.NoError(t, store.Put(ctx, &Lead{
		ID: "lead-2", Name: "John Doe", County: "Creek",
	}))

	hit, err := store.InActiveLitigation(ctx, "jane ann smith", "")
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = store.InActiveLitigation(ctx, "jane ann smith", "Creek")
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = store.InActiveLitigation(ctx, "John Doe", "")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryStore_AppendOnlyRecords(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.AppendAttempt(ctx, ProviderAttempt{ID: "a1", LeadID: "lead-1", Provider: "skip_genie"}))
	require.NoError(t, store.AppendAttempt(ctx, ProviderAttempt{ID: "a2", LeadID: "lead-1", Provider: "resimpli", Success: true}))

	attempts, err := store.ListAttempts(ctx, "lead-1")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "skip_genie", attempts[0].Provider)
	assert.False(t, attempts[0].CreatedAt.IsZero())

	require.NoError(t, store.AppendCommunication(ctx, CommunicationRecord{ID: "c1", LeadID: "lead-1", Channel: ChannelSMS, Status: "sent"}))
	comms, err := store.ListCommunications(ctx, "lead-1")
	require.NoError(t, err)
	assert.Len(t, comms, 1)
}

func TestInMemoryStore_ListComplianceScansSince(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	store := NewInMemoryStore()

	require.NoError(t, store.AppendComplianceScan(ctx, ComplianceScan{
		ID: "old", LeadID: "lead-1", Compliant: true, CreatedAt: now.AddDate(0, 0, -60),
	}))
	require.NoError(t, store.AppendComplianceScan(ctx, ComplianceScan{
		ID: "recent", LeadID: "lead-1", Compliant: false, CreatedAt: now.AddDate(0, 0, -5),
	}))

	scans, err := store.ListComplianceScans(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, "recent", scans[0].ID)
}
