package lead

import (
	"context"
	"time"

	dErrors "reclaim/pkg/domain-errors"
)

// ErrNotFound keeps lead lookups consistent across the in-memory and
// PostgreSQL implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "lead not found")

// Store is the persistence collaborator the core depends on. Attempt and
// communication records are append-only; enrichment and bookkeeping writes
// mutate the lead in place.
type Store interface {
	Get(ctx context.Context, id string) (*Lead, error)
	Put(ctx context.Context, l *Lead) error

	// ApplyEnrichment merges a trace result into the lead, stores the score,
	// resets the DNC scrub flag, and moves the lead to enriched. Returns the
	// updated lead.
	ApplyEnrichment(ctx context.Context, leadID string, enr Enrichment, score float64) (*Lead, error)

	// SetDNCResult persists a scrub outcome so the registry is not re-queried.
	SetDNCResult(ctx context.Context, leadID string, listed bool) error

	MarkOptedOut(ctx context.Context, leadID string) error
	UpdateStatus(ctx context.Context, leadID string, status Status) error
	IncrementContactCount(ctx context.Context, leadID string) error

	// InActiveLitigation reports whether any lead matching name (and county,
	// when given) carries an active litigation flag.
	InActiveLitigation(ctx context.Context, name, county string) (bool, error)

	AppendAttempt(ctx context.Context, attempt ProviderAttempt) error
	ListAttempts(ctx context.Context, leadID string) ([]ProviderAttempt, error)

	AppendCommunication(ctx context.Context, rec CommunicationRecord) error
	ListCommunications(ctx context.Context, leadID string) ([]CommunicationRecord, error)

	AppendComplianceScan(ctx context.Context, scan ComplianceScan) error
	ListComplianceScans(ctx context.Context, since time.Time) ([]ComplianceScan, error)
	CountOptedOut(ctx context.Context) (int, error)
}
