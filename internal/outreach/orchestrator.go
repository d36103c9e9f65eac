package outreach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"reclaim/internal/compliance"
	"reclaim/internal/lead"
	"reclaim/internal/outreach/metrics"
	"reclaim/pkg/audit"
)

// ComplianceChecker is the oracle port. Satisfied by *compliance.Oracle.
type ComplianceChecker interface {
	Check(ctx context.Context, leadID string, action lead.Channel, explicitPhone string) (compliance.Decision, error)
}

// Message is the fully decorated payload handed to a sender.
type Message struct {
	LeadID  string
	To      string
	Subject string
	Body    string
	Channel lead.Channel
}

// Sender dispatches one message via an external channel gateway.
type Sender interface {
	Send(ctx context.Context, msg Message) (messageID string, err error)
}

// Draft is a candidate outreach action before any compliance gating.
type Draft struct {
	LeadID  string
	Channel lead.Channel
	Subject string
	Body    string // may contain [Name], [Amount], [State] placeholders
	Phone   string // optional explicit dial target
}

type SendStatus string

const (
	StatusSent            SendStatus = "sent"
	StatusBlocked         SendStatus = "blocked"
	StatusFrequencyCapped SendStatus = "frequency_capped"
	StatusFailed          SendStatus = "failed"
)

// Result is the terminal outcome of a Send. Blocks and caps are outcomes,
// not errors.
type Result struct {
	Status        SendStatus `json:"status"`
	Violations    []string   `json:"violations,omitempty"`
	MessageID     string     `json:"message_id,omitempty"`
	CertificateID string     `json:"certificate_id,omitempty"`
}

// Orchestrator is the only component allowed to cause an external send.
// Every path through Send leaves exactly one communication record.
type Orchestrator struct {
	leads       lead.Store
	oracle      ComplianceChecker
	caps        *FrequencyCap
	senders     map[lead.Channel]Sender
	disclosures Disclosures
	audit       audit.Publisher
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func WithAudit(pub audit.Publisher) Option {
	return func(o *Orchestrator) {
		o.audit = pub
	}
}

func WithDisclosures(d Disclosures) Option {
	return func(o *Orchestrator) {
		o.disclosures = d
	}
}

func New(leads lead.Store, oracle ComplianceChecker, caps *FrequencyCap, senders map[lead.Channel]Sender, opts ...Option) (*Orchestrator, error) {
	if leads == nil {
		return nil, errors.New("lead store is required")
	}
	if oracle == nil {
		return nil, errors.New("compliance checker is required")
	}
	if caps == nil {
		return nil, errors.New("frequency cap is required")
	}
	if len(senders) == 0 {
		return nil, errors.New("at least one sender is required")
	}

	o := &Orchestrator{
		leads:   leads,
		oracle:  oracle,
		caps:    caps,
		senders: senders,
		logger:  slog.New(slog.DiscardHandler),
		tracer:  otel.Tracer("reclaim/outreach"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Send runs the full gate sequence: frequency cap, compliance oracle,
// disclosure decoration, dispatch, record. Only a missing lead or an
// unconfigured channel is an error.
func (o *Orchestrator) Send(ctx context.Context, draft Draft) (Result, error) {
	ctx, span := o.tracer.Start(ctx, "outreach.send",
		trace.WithAttributes(
			attribute.String("lead_id", draft.LeadID),
			attribute.String("channel", string(draft.Channel)),
		))
	defer span.End()

	sender, ok := o.senders[draft.Channel]
	if !ok {
		return Result{}, fmt.Errorf("no sender configured for channel %q", draft.Channel)
	}

	ld, err := o.leads.Get(ctx, draft.LeadID)
	if err != nil {
		return Result{}, err
	}

	if !o.caps.Allow(ctx, ld.ID, draft.Channel) {
		o.recordOutcome(ctx, ld, draft, StatusFrequencyCapped, nil, "")
		return Result{Status: StatusFrequencyCapped}, nil
	}

	decision, err := o.oracle.Check(ctx, draft.LeadID, draft.Channel, draft.Phone)
	if err != nil {
		return Result{}, err
	}
	if !decision.Compliant {
		o.recordOutcome(ctx, ld, draft, StatusBlocked, decision.Violations, "")
		return Result{Status: StatusBlocked, Violations: decision.Violations}, nil
	}

	body := Personalize(draft.Body, ld)
	body = o.disclosures.Apply(body, ld, draft.Channel, ld.ContactCount == 0)

	msg := Message{
		LeadID:  ld.ID,
		Subject: draft.Subject,
		Body:    body,
		Channel: draft.Channel,
	}
	switch draft.Channel {
	case lead.ChannelEmail:
		msg.To = ld.BestEmail()
	default:
		msg.To = ld.BestPhone(draft.Phone)
	}

	messageID, err := sender.Send(ctx, msg)
	if err != nil {
		o.logger.ErrorContext(ctx, "dispatch failed",
			"lead_id", ld.ID, "channel", draft.Channel, "error", err)
		o.recordOutcome(ctx, ld, draft, StatusFailed, nil, "")
		return Result{Status: StatusFailed}, nil
	}

	o.caps.RecordSend(ctx, ld.ID, draft.Channel)
	o.recordOutcome(ctx, ld, draft, StatusSent, nil, body)

	if err := o.leads.IncrementContactCount(ctx, ld.ID); err != nil {
		o.logger.WarnContext(ctx, "failed to bump contact count", "lead_id", ld.ID, "error", err)
	}
	if lead.CanTransition(ld.Status, lead.StatusContacted) {
		if err := o.leads.UpdateStatus(ctx, ld.ID, lead.StatusContacted); err != nil {
			o.logger.WarnContext(ctx, "failed to update lead status", "lead_id", ld.ID, "error", err)
		}
	}

	o.publish(ctx, audit.Event{
		Category: audit.CategoryOperations,
		Action:   "outreach.sent",
		LeadID:   ld.ID,
		Detail: map[string]string{
			"channel":     string(draft.Channel),
			"message_id":  messageID,
			"certificate": decision.CertificateID,
		},
	})
	span.SetAttributes(attribute.String("status", string(StatusSent)))
	o.logger.InfoContext(ctx, "outreach dispatched",
		"lead_id", ld.ID, "channel", draft.Channel, "message_id", messageID)

	return Result{Status: StatusSent, MessageID: messageID, CertificateID: decision.CertificateID}, nil
}

// recordOutcome appends the single communication record every Send path
// must leave behind.
func (o *Orchestrator) recordOutcome(ctx context.Context, ld *lead.Lead, draft Draft, status SendStatus, violations []string, sentBody string) {
	content := sentBody
	if content == "" {
		content = draft.Body
	}
	rec := lead.CommunicationRecord{
		ID:         uuid.NewString(),
		LeadID:     ld.ID,
		Channel:    draft.Channel,
		Direction:  lead.DirectionOutbound,
		Content:    content,
		Status:     string(status),
		Violations: violations,
	}
	switch draft.Channel {
	case lead.ChannelEmail:
		rec.Email = ld.BestEmail()
	default:
		rec.Phone = ld.BestPhone(draft.Phone)
	}
	if err := o.leads.AppendCommunication(ctx, rec); err != nil {
		o.logger.ErrorContext(ctx, "failed to append communication record",
			"lead_id", ld.ID, "status", status, "error", err)
	}
	if o.metrics != nil {
		o.metrics.ObserveSend(string(draft.Channel), string(status))
	}
}

func (o *Orchestrator) publish(ctx context.Context, event audit.Event) {
	if o.audit == nil {
		return
	}
	if err := o.audit.Publish(ctx, event); err != nil {
		o.logger.WarnContext(ctx, "audit publish failed", "action", event.Action, "error", err)
	}
}
