//go:build integration

package lead_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reclaim/internal/lead"
	"reclaim/pkg/testutil/containers"
)

func newPostgresStore(t *testing.T) *lead.PostgresStore {
	t.Helper()
	pg := containers.NewPostgresContainer(t)
	_, err := pg.DB.Exec(lead.Schema())
	require.NoError(t, err)
	return lead.NewPostgres(pg.DB)
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &lead.Lead{
		ID: "lead-1", Name: "Jane Smith", State: "OK", County: "Tulsa",
		ClaimAmount: 12500.50, Status: lead.StatusNew,
	}))

	got, err := store.Get(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.Name)
	assert.Equal(t, 12500.50, got.ClaimAmount)
	assert.Equal(t, lead.StatusNew, got.Status)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, lead.ErrNotFound)

	// Upsert preserves creation time and bumps update time.
	require.NoError(t, store.Put(ctx, &lead.Lead{
		ID: "lead-1", Name: "Jane A. Smith", State: "OK", Status: lead.StatusNew,
		CreatedAt: got.CreatedAt,
	}))
	updated, err := store.Get(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane A. Smith", updated.Name)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
}

func TestPostgresStore_EnrichmentAndBookkeeping(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &lead.Lead{
		ID: "lead-1", Name: "Jane Smith", State: "OK", Status: lead.StatusNew,
	}))

	got, err := store.ApplyEnrichment(ctx, "lead-1", lead.Enrichment{
		Phone: "918-555-0100", Email: "jane@example.com", Provider: "skip_genie",
	}, 0.71)
	require.NoError(t, err)
	assert.Equal(t, "918-555-0100", got.Phone)
	assert.Equal(t, []string{"918-555-0100"}, got.Phones)
	assert.Equal(t, "skip_genie", got.TraceProvider)
	assert.Equal(t, 0.71, got.EnrichmentScore)
	assert.Equal(t, lead.StatusEnriched, got.Status)
	assert.False(t, got.DNCScrubbed)

	// Re-enriching with the same phone does not duplicate the array entry.
	got, err = store.ApplyEnrichment(ctx, "lead-1", lead.Enrichment{
		Phone: "918-555-0100", Provider: "resimpli",
	}, 0.33)
	require.NoError(t, err)
	assert.Equal(t, []string{"918-555-0100"}, got.Phones)

	require.NoError(t, store.SetDNCResult(ctx, "lead-1", true))
	require.NoError(t, store.IncrementContactCount(ctx, "lead-1"))
	require.NoError(t, store.UpdateStatus(ctx, "lead-1", lead.StatusContacted))

	got, err = store.Get(ctx, "lead-1")
	require.NoError(t, err)
	assert.True(t, got.DNCScrubbed)
	assert.True(t, got.DNCListed)
	assert.Equal(t, 1, got.ContactCount)
	assert.Equal(t, lead.StatusContacted, got.Status)

	assert.ErrorIs(t, store.SetDNCResult(ctx, "missing", true), lead.ErrNotFound)
}

func TestPostgresStore_OptOutAndLitigation(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &lead.Lead{
		ID: "lead-1", Name: "Jane Ann Smith", State: "OK", County: "Tulsa",
		Litigation: true, Status: lead.StatusNew,
	}))
	require.NoError(t, store.Put(ctx, &lead.Lead{
		ID: "lead-2", Name: "John Doe", State: "FL", Status: lead.StatusNew,
	}))

	require.NoError(t, store.MarkOptedOut(ctx, "lead-2"))
	n, err := store.CountOptedOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.Get(ctx, "lead-2")
	require.NoError(t, err)
	assert.True(t, got.OptedOut)
	assert.Equal(t, lead.StatusOptedOut, got.Status)

	hit, err := store.InActiveLitigation(ctx, "jane ann", "")
	require.NoError(t, err)
	assert.True(t, hit)

	hit, err = store.InActiveLitigation(ctx, "jane ann", "Creek")
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = store.InActiveLitigation(ctx, "john doe", "")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestPostgresStore_AppendOnlyRecords(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &lead.Lead{
		ID: "lead-1", Name: "Jane Smith", State: "OK", Status: lead.StatusNew,
	}))

	require.NoError(t, store.AppendAttempt(ctx, lead.ProviderAttempt{
		LeadID: "lead-1", Provider: "skip_genie", Error: "request timed out",
	}))
	require.NoError(t, store.AppendAttempt(ctx, lead.ProviderAttempt{
		LeadID: "lead-1", Provider: "resimpli", Success: true,
		Result: &lead.Enrichment{Phone: "918-555-0100", PhoneType: "mobile", Provider: "resimpli"},
	}))

	attempts, err := store.ListAttempts(ctx, "lead-1")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "skip_genie", attempts[0].Provider)
	assert.Nil(t, attempts[0].Result)
	require.NotNil(t, attempts[1].Result)
	assert.Equal(t, "918-555-0100", attempts[1].Result.Phone)
	assert.NotEmpty(t, attempts[1].ID)

	require.NoError(t, store.AppendCommunication(ctx, lead.CommunicationRecord{
		LeadID: "lead-1", Channel: lead.ChannelSMS, Direction: lead.DirectionOutbound,
		Status: "blocked", Violations: []string{"OPT_OUT", "TCPA_WINDOW"}, Phone: "918-555-0100",
	}))
	comms, err := store.ListCommunications(ctx, "lead-1")
	require.NoError(t, err)
	require.Len(t, comms, 1)
	assert.Equal(t, []string{"OPT_OUT", "TCPA_WINDOW"}, comms[0].Violations)

	require.NoError(t, store.AppendComplianceScan(ctx, lead.ComplianceScan{
		LeadID: "lead-1", Action: lead.ChannelSMS, Compliant: true, CertificateID: "cert-1",
	}))
	scans, err := store.ListComplianceScans(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, "cert-1", scans[0].CertificateID)

	old, err := store.ListComplianceScans(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, old)
}
