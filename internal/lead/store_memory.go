package lead

import (
	"context"
	"sync"
	"time"

	dErrors "reclaim/pkg/domain-errors"
)

// InMemoryStore is the development and test implementation of Store.
// Production deployments use PostgresStore.
type InMemoryStore struct {
	mu             sync.RWMutex
	leads          map[string]*Lead
	attempts       map[string][]ProviderAttempt
	communications map[string][]CommunicationRecord
	scans          []ComplianceScan
	now            func() time.Time
}

// InMemoryOption configures an InMemoryStore.
type InMemoryOption func(*InMemoryStore)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) InMemoryOption {
	return func(s *InMemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		leads:          make(map[string]*Lead),
		attempts:       make(map[string][]ProviderAttempt),
		communications: make(map[string][]CommunicationRecord),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Get(_ context.Context, id string) (*Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leads[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	cp.Phones = append([]string(nil), l.Phones...)
	cp.Emails = append([]string(nil), l.Emails...)
	return &cp, nil
}

func (s *InMemoryStore) Put(_ context.Context, l *Lead) error {
	if l == nil || l.ID == "" {
		return dErrors.New(dErrors.CodeInvalid, "lead requires an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	cp := *l
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	s.leads[l.ID] = &cp
	return nil
}

func (s *InMemoryStore) ApplyEnrichment(_ context.Context, leadID string, enr Enrichment, score float64) (*Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[leadID]
	if !ok {
		return nil, ErrNotFound
	}
	if enr.Phone != "" {
		l.Phone = enr.Phone
		l.Phones = appendUnique(l.Phones, enr.Phone)
	}
	if enr.Email != "" {
		l.Email = enr.Email
		l.Emails = appendUnique(l.Emails, enr.Email)
	}
	if enr.MailingAddress != "" {
		l.MailingAddress = enr.MailingAddress
	}
	l.TraceProvider = enr.Provider
	l.EnrichmentScore = score
	l.DNCScrubbed = false
	l.Status = StatusEnriched
	l.UpdatedAt = s.now()
	cp := *l
	return &cp, nil
}

func (s *InMemoryStore) SetDNCResult(_ context.Context, leadID string, listed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[leadID]
	if !ok {
		return ErrNotFound
	}
	l.DNCScrubbed = true
	l.DNCListed = listed
	l.UpdatedAt = s.now()
	return nil
}

func (s *InMemoryStore) MarkOptedOut(_ context.Context, leadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[leadID]
	if !ok {
		return ErrNotFound
	}
	l.OptedOut = true
	l.Status = StatusOptedOut
	l.UpdatedAt = s.now()
	return nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, leadID string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[leadID]
	if !ok {
		return ErrNotFound
	}
	l.Status = status
	l.UpdatedAt = s.now()
	return nil
}

func (s *InMemoryStore) IncrementContactCount(_ context.Context, leadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[leadID]
	if !ok {
		return ErrNotFound
	}
	l.ContactCount++
	l.UpdatedAt = s.now()
	return nil
}

func (s *InMemoryStore) InActiveLitigation(_ context.Context, name, county string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.leads {
		if !l.Litigation {
			continue
		}
		if county != "" && l.County != county {
			continue
		}
		if l.NameMatches(name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) AppendAttempt(_ context.Context, attempt ProviderAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = s.now()
	}
	s.attempts[attempt.LeadID] = append(s.attempts[attempt.LeadID], attempt)
	return nil
}

func (s *InMemoryStore) ListAttempts(_ context.Context, leadID string) ([]ProviderAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ProviderAttempt{}, s.attempts[leadID]...), nil
}

func (s *InMemoryStore) AppendCommunication(_ context.Context, rec CommunicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	s.communications[rec.LeadID] = append(s.communications[rec.LeadID], rec)
	return nil
}

func (s *InMemoryStore) ListCommunications(_ context.Context, leadID string) ([]CommunicationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]CommunicationRecord{}, s.communications[leadID]...), nil
}

func (s *InMemoryStore) AppendComplianceScan(_ context.Context, scan ComplianceScan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = s.now()
	}
	s.scans = append(s.scans, scan)
	return nil
}

func (s *InMemoryStore) ListComplianceScans(_ context.Context, since time.Time) ([]ComplianceScan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ComplianceScan
	for _, scan := range s.scans {
		if !scan.CreatedAt.Before(since) {
			out = append(out, scan)
		}
	}
	return out, nil
}

func (s *InMemoryStore) CountOptedOut(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, l := range s.leads {
		if l.OptedOut {
			n++
		}
	}
	return n, nil
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
