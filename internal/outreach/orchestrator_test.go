package outreach_test

//go:generate mockgen -source=orchestrator.go -destination=mocks/mocks.go -package=mocks ComplianceChecker,Sender

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"reclaim/internal/compliance"
	"reclaim/internal/lead"
	. "reclaim/internal/outreach"
	"reclaim/internal/outreach/mocks"
	"reclaim/pkg/audit"
)

// =============================================================================
// Orchestrator Test Suite
// =============================================================================
// Justification for unit tests: the orchestrator is the only component that
// may cause an external send. Tests verify the gate ordering (cap before
// oracle before sender), that blocks and caps are outcomes rather than
// errors, and that every path leaves exactly one communication record.

type OrchestratorSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	store      *lead.InMemoryStore
	counters   *MemoryCounterStore
	mockOracle *mocks.MockComplianceChecker
	mockSender *mocks.MockSender
	audit      *audit.MemoryPublisher
	orch       *Orchestrator
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorSuite))
}

func (s *OrchestratorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = lead.NewInMemoryStore()
	s.counters = NewMemoryCounterStore()
	s.mockOracle = mocks.NewMockComplianceChecker(s.ctrl)
	s.mockSender = mocks.NewMockSender(s.ctrl)
	s.audit = audit.NewMemoryPublisher()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var err error
	s.orch, err = New(
		s.store,
		s.mockOracle,
		NewFrequencyCap(s.counters),
		map[lead.Channel]Sender{lead.ChannelSMS: s.mockSender, lead.ChannelEmail: s.mockSender},
		WithLogger(logger),
		WithAudit(s.audit),
		WithDisclosures(Disclosures{
			OptOutBaseURL: "https://reclaim.example/opt-out",
			OrgName:       "Reclaim Recovery LLC",
			OrgAddress:    "500 Main St, Tulsa, OK 74103",
		}),
	)
	s.Require().NoError(err)
}

func (s *OrchestratorSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorSuite) seedLead() *lead.Lead {
	ld := &lead.Lead{
		ID:          "lead-1",
		Name:        "Jane Smith",
		Phone:       "918-555-0100",
		Email:       "jane@example.com",
		ClaimAmount: 12500.50,
		State:       "OK",
		County:      "Tulsa",
		Status:      lead.StatusEnriched,
	}
	s.Require().NoError(s.store.Put(context.Background(), ld))
	return ld
}

func (s *OrchestratorSuite) records() []lead.CommunicationRecord {
	recs, err := s.store.ListCommunications(context.Background(), "lead-1")
	s.Require().NoError(err)
	return recs
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *OrchestratorSuite) TestNew_RequiresCollaborators() {
	senders := map[lead.Channel]Sender{lead.ChannelSMS: s.mockSender}
	caps := NewFrequencyCap(s.counters)

	_, err := New(nil, s.mockOracle, caps, senders)
	s.Error(err)
	_, err = New(s.store, nil, caps, senders)
	s.Error(err)
	_, err = New(s.store, s.mockOracle, nil, senders)
	s.Error(err)
	_, err = New(s.store, s.mockOracle, caps, nil)
	s.Error(err)
}

// =============================================================================
// Send Path Tests
// =============================================================================

func (s *OrchestratorSuite) TestSend_Success() {
	s.seedLead()

	s.mockOracle.EXPECT().
		Check(gomock.Any(), "lead-1", lead.ChannelSMS, "").
		Return(compliance.Decision{Compliant: true, Violations: []string{}, CertificateID: "cert-1"}, nil)

	var sentMsg Message
	s.mockSender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg Message) (string, error) {
			sentMsg = msg
			return "msg-123", nil
		})

	result, err := s.orch.Send(context.Background(), Draft{
		LeadID:  "lead-1",
		Channel: lead.ChannelSMS,
		Body:    "Hi [Name], you may have $[Amount] waiting in [State].",
	})
	s.Require().NoError(err)

	s.Equal(StatusSent, result.Status)
	s.Equal("msg-123", result.MessageID)
	s.Equal("cert-1", result.CertificateID)

	// Personalization and decorations.
	s.Equal("918-555-0100", sentMsg.To)
	s.Contains(sentMsg.Body, "Hi Jane Smith, you may have $12500.50 waiting in OK.")
	s.Contains(sentMsg.Body, "Under Oklahoma law (12 O.S. §772)")
	s.Contains(sentMsg.Body, "This is an attempt to collect a debt")
	s.Contains(sentMsg.Body, "Reply STOP to opt out or visit: https://reclaim.example/opt-out/lead-1")

	// Exactly one record, status sent.
	recs := s.records()
	s.Require().Len(recs, 1)
	s.Equal("sent", recs[0].Status)

	// Counter bumped, lead advanced.
	s.Equal(int64(1), NewFrequencyCap(s.counters).Count(context.Background(), "lead-1", lead.ChannelSMS))
	got, _ := s.store.Get(context.Background(), "lead-1")
	s.Equal(1, got.ContactCount)
	s.Equal(lead.StatusContacted, got.Status)

	s.Len(s.audit.ByAction("outreach.sent"), 1)
}

func (s *OrchestratorSuite) TestSend_FrequencyCappedSkipsOracleAndSender() {
	s.seedLead()

	// Exhaust the sms cap (3/day) directly on the counter.
	fc := NewFrequencyCap(s.counters)
	for range 3 {
		fc.RecordSend(context.Background(), "lead-1", lead.ChannelSMS)
	}

	// No oracle or sender expectations: any call fails the test.
	result, err := s.orch.Send(context.Background(), Draft{
		LeadID:  "lead-1",
		Channel: lead.ChannelSMS,
		Body:    "hello",
	})
	s.Require().NoError(err)

	s.Equal(StatusFrequencyCapped, result.Status)

	recs := s.records()
	s.Require().Len(recs, 1)
	s.Equal("frequency_capped", recs[0].Status)
}

func (s *OrchestratorSuite) TestSend_BlockedByOracle() {
	s.seedLead()

	s.mockOracle.EXPECT().
		Check(gomock.Any(), "lead-1", lead.ChannelSMS, "").
		Return(compliance.Decision{Compliant: false, Violations: []string{compliance.ViolationOptOut}}, nil)

	result, err := s.orch.Send(context.Background(), Draft{
		LeadID:  "lead-1",
		Channel: lead.ChannelSMS,
		Body:    "hello",
	})
	s.Require().NoError(err, "a block is an outcome, not an error")

	s.Equal(StatusBlocked, result.Status)
	s.Equal([]string{compliance.ViolationOptOut}, result.Violations)

	recs := s.records()
	s.Require().Len(recs, 1)
	s.Equal("blocked", recs[0].Status)
	s.Equal([]string{compliance.ViolationOptOut}, recs[0].Violations)

	// Blocked sends never count against the cap.
	s.Equal(int64(0), NewFrequencyCap(s.counters).Count(context.Background(), "lead-1", lead.ChannelSMS))
}

func (s *OrchestratorSuite) TestSend_DispatchFailure() {
	s.seedLead()

	s.mockOracle.EXPECT().
		Check(gomock.Any(), "lead-1", lead.ChannelEmail, "").
		Return(compliance.Decision{Compliant: true, Violations: []string{}}, nil)
	s.mockSender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		Return("", errors.New("gateway 502"))

	result, err := s.orch.Send(context.Background(), Draft{
		LeadID:  "lead-1",
		Channel: lead.ChannelEmail,
		Body:    "hello",
	})
	s.Require().NoError(err)

	s.Equal(StatusFailed, result.Status)

	recs := s.records()
	s.Require().Len(recs, 1)
	s.Equal("failed", recs[0].Status)

	// Failed dispatches do not consume the cap or bump contact count.
	s.Equal(int64(0), NewFrequencyCap(s.counters).Count(context.Background(), "lead-1", lead.ChannelEmail))
	got, _ := s.store.Get(context.Background(), "lead-1")
	s.Equal(0, got.ContactCount)
}

func (s *OrchestratorSuite) TestSend_UnknownChannel() {
	s.seedLead()
	_, err := s.orch.Send(context.Background(), Draft{LeadID: "lead-1", Channel: lead.ChannelCall})
	s.Error(err)
}

func (s *OrchestratorSuite) TestSend_LeadNotFound() {
	_, err := s.orch.Send(context.Background(), Draft{LeadID: "nope", Channel: lead.ChannelSMS})
	s.ErrorIs(err, lead.ErrNotFound)
}

// =============================================================================
// Opt-Out Tests
// =============================================================================

func (s *OrchestratorSuite) TestHonorOptOut() {
	s.seedLead()

	s.Require().NoError(s.orch.HonorOptOut(context.Background(), "lead-1", lead.ChannelSMS))

	got, _ := s.store.Get(context.Background(), "lead-1")
	s.True(got.OptedOut)
	s.Equal(lead.StatusOptedOut, got.Status)

	recs := s.records()
	s.Require().Len(recs, 1)
	s.Equal(lead.DirectionInbound, recs[0].Direction)
	s.Equal("STOP", recs[0].Content)

	s.Len(s.audit.ByAction("opt_out.honored"), 1)

	// Idempotent.
	s.NoError(s.orch.HonorOptOut(context.Background(), "lead-1", lead.ChannelSMS))
}
