package lead

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore persists leads and their append-only records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const leadColumns = `
	id, name, phone, phones, email, emails, mailing_address, claim_amount,
	state, county, opted_out, dnc_scrubbed, dnc_listed, litigation,
	contact_count, enrichment_score, trace_provider, status, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (*Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Phone, pq.Array(&l.Phones), &l.Email, pq.Array(&l.Emails),
		&l.MailingAddress, &l.ClaimAmount, &l.State, &l.County,
		&l.OptedOut, &l.DNCScrubbed, &l.DNCListed, &l.Litigation,
		&l.ContactCount, &l.EnrichmentScore, &l.TraceProvider, &l.Status,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan lead: %w", err)
	}
	return &l, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Lead, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+leadColumns+` FROM leads WHERE id = $1`, id)
	return scanLead(row)
}

func (s *PostgresStore) Put(ctx context.Context, l *Lead) error {
	now := time.Now()
	created := l.CreatedAt
	if created.IsZero() {
		created = now
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (`+leadColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, phone = EXCLUDED.phone, phones = EXCLUDED.phones,
			email = EXCLUDED.email, emails = EXCLUDED.emails,
			mailing_address = EXCLUDED.mailing_address, claim_amount = EXCLUDED.claim_amount,
			state = EXCLUDED.state, county = EXCLUDED.county,
			opted_out = EXCLUDED.opted_out, litigation = EXCLUDED.litigation,
			updated_at = EXCLUDED.updated_at`,
		l.ID, l.Name, l.Phone, pq.Array(l.Phones), l.Email, pq.Array(l.Emails),
		l.MailingAddress, l.ClaimAmount, l.State, l.County,
		l.OptedOut, l.DNCScrubbed, l.DNCListed, l.Litigation,
		l.ContactCount, l.EnrichmentScore, l.TraceProvider, string(l.Status),
		created, now,
	)
	if err != nil {
		return fmt.Errorf("put lead: %w", err)
	}
	return nil
}

func (s *PostgresStore) ApplyEnrichment(ctx context.Context, leadID string, enr Enrichment, score float64) (*Lead, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE leads SET
			phone = CASE WHEN $2 <> '' THEN $2 ELSE phone END,
			phones = CASE WHEN $2 <> '' AND NOT ($2 = ANY(phones)) THEN array_append(phones, $2) ELSE phones END,
			email = CASE WHEN $3 <> '' THEN $3 ELSE email END,
			emails = CASE WHEN $3 <> '' AND NOT ($3 = ANY(emails)) THEN array_append(emails, $3) ELSE emails END,
			mailing_address = CASE WHEN $4 <> '' THEN $4 ELSE mailing_address END,
			trace_provider = $5,
			enrichment_score = $6,
			dnc_scrubbed = FALSE,
			status = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING`+leadColumns,
		leadID, enr.Phone, enr.Email, enr.MailingAddress, enr.Provider, score, string(StatusEnriched),
	)
	return scanLead(row)
}

func (s *PostgresStore) SetDNCResult(ctx context.Context, leadID string, listed bool) error {
	return s.execOnLead(ctx, leadID, `
		UPDATE leads SET dnc_scrubbed = TRUE, dnc_listed = $2, updated_at = NOW() WHERE id = $1`, listed)
}

func (s *PostgresStore) MarkOptedOut(ctx context.Context, leadID string) error {
	return s.execOnLead(ctx, leadID, `
		UPDATE leads SET opted_out = TRUE, status = $2, updated_at = NOW() WHERE id = $1`, string(StatusOptedOut))
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, leadID string, status Status) error {
	return s.execOnLead(ctx, leadID, `
		UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`, string(status))
}

func (s *PostgresStore) IncrementContactCount(ctx context.Context, leadID string) error {
	return s.execOnLead(ctx, leadID, `
		UPDATE leads SET contact_count = contact_count + 1, updated_at = NOW() WHERE id = $1`)
}

func (s *PostgresStore) execOnLead(ctx context.Context, leadID, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, append([]any{leadID}, args...)...)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) InActiveLitigation(ctx context.Context, name, county string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leads
			WHERE litigation = TRUE
			  AND name ILIKE '%' || $1 || '%'
			  AND ($2 = '' OR county = $2)
		)`, name, county).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("litigation lookup: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) AppendAttempt(ctx context.Context, attempt ProviderAttempt) error {
	id := attempt.ID
	if id == "" {
		id = uuid.NewString()
	}
	created := attempt.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	var result []byte
	if attempt.Result != nil {
		var err error
		result, err = json.Marshal(attempt.Result)
		if err != nil {
			return fmt.Errorf("marshal attempt result: %w", err)
		}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO provider_attempts (id, lead_id, provider, success, error, result, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, attempt.LeadID, attempt.Provider, attempt.Success, attempt.Error, result, created,
	)
	if err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAttempts(ctx context.Context, leadID string) ([]ProviderAttempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lead_id, provider, success, error, result, created_at
		FROM provider_attempts WHERE lead_id = $1 ORDER BY created_at`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []ProviderAttempt
	for rows.Next() {
		var a ProviderAttempt
		var result []byte
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Provider, &a.Success, &a.Error, &result, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if len(result) > 0 {
			a.Result = &Enrichment{}
			if err := json.Unmarshal(result, a.Result); err != nil {
				return nil, fmt.Errorf("unmarshal attempt result: %w", err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AppendCommunication(ctx context.Context, rec CommunicationRecord) error {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO communications (id, lead_id, channel, direction, content, status, violations, phone, email, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		id, rec.LeadID, string(rec.Channel), string(rec.Direction), rec.Content,
		rec.Status, pq.Array(rec.Violations), rec.Phone, rec.Email, created,
	)
	if err != nil {
		return fmt.Errorf("append communication: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListCommunications(ctx context.Context, leadID string) ([]CommunicationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lead_id, channel, direction, content, status, violations, phone, email, created_at
		FROM communications WHERE lead_id = $1 ORDER BY created_at`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list communications: %w", err)
	}
	defer rows.Close()

	var out []CommunicationRecord
	for rows.Next() {
		var rec CommunicationRecord
		if err := rows.Scan(&rec.ID, &rec.LeadID, &rec.Channel, &rec.Direction, &rec.Content,
			&rec.Status, pq.Array(&rec.Violations), &rec.Phone, &rec.Email, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan communication: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AppendComplianceScan(ctx context.Context, scan ComplianceScan) error {
	id := scan.ID
	if id == "" {
		id = uuid.NewString()
	}
	created := scan.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compliance_scans (id, lead_id, action, compliant, violations, certificate_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, scan.LeadID, string(scan.Action), scan.Compliant, pq.Array(scan.Violations), scan.CertificateID, created,
	)
	if err != nil {
		return fmt.Errorf("append compliance scan: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListComplianceScans(ctx context.Context, since time.Time) ([]ComplianceScan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lead_id, action, compliant, violations, certificate_id, created_at
		FROM compliance_scans WHERE created_at >= $1 ORDER BY created_at`, since)
	if err != nil {
		return nil, fmt.Errorf("list compliance scans: %w", err)
	}
	defer rows.Close()

	var out []ComplianceScan
	for rows.Next() {
		var scan ComplianceScan
		if err := rows.Scan(&scan.ID, &scan.LeadID, &scan.Action, &scan.Compliant,
			pq.Array(&scan.Violations), &scan.CertificateID, &scan.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan compliance scan: %w", err)
		}
		out = append(out, scan)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountOptedOut(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE opted_out`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count opted out: %w", err)
	}
	return n, nil
}

// Schema returns the DDL the store expects. Kept next to the queries so
// integration tests and deployments share one source.
func Schema() string {
	return `
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	phones TEXT[] NOT NULL DEFAULT '{}',
	email TEXT NOT NULL DEFAULT '',
	emails TEXT[] NOT NULL DEFAULT '{}',
	mailing_address TEXT NOT NULL DEFAULT '',
	claim_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	state TEXT NOT NULL DEFAULT '',
	county TEXT NOT NULL DEFAULT '',
	opted_out BOOLEAN NOT NULL DEFAULT FALSE,
	dnc_scrubbed BOOLEAN NOT NULL DEFAULT FALSE,
	dnc_listed BOOLEAN NOT NULL DEFAULT FALSE,
	litigation BOOLEAN NOT NULL DEFAULT FALSE,
	contact_count INTEGER NOT NULL DEFAULT 0,
	enrichment_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	trace_provider TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'new',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS provider_attempts (
	id UUID PRIMARY KEY,
	lead_id TEXT NOT NULL REFERENCES leads(id),
	provider TEXT NOT NULL,
	success BOOLEAN NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	result JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_provider_attempts_lead ON provider_attempts (lead_id, created_at);
CREATE TABLE IF NOT EXISTS communications (
	id UUID PRIMARY KEY,
	lead_id TEXT NOT NULL REFERENCES leads(id),
	channel TEXT NOT NULL,
	direction TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	violations TEXT[] NOT NULL DEFAULT '{}',
	phone TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_communications_lead ON communications (lead_id, created_at);
CREATE TABLE IF NOT EXISTS compliance_scans (
	id UUID PRIMARY KEY,
	lead_id TEXT NOT NULL,
	action TEXT NOT NULL,
	compliant BOOLEAN NOT NULL,
	violations TEXT[] NOT NULL DEFAULT '{}',
	certificate_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_compliance_scans_created ON compliance_scans (created_at);
`
}
