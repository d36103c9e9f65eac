package compliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"reclaim/internal/compliance/metrics"
	"reclaim/internal/lead"
	"reclaim/pkg/audit"
	dErrors "reclaim/pkg/domain-errors"
)

// Violation codes, stable identifiers recorded on scans and surfaced to
// callers. A missing lead is a hard NotFound error, never a violation.
const (
	ViolationOptOut      = "OPT_OUT"
	ViolationDNCFederal  = "DNC_FEDERAL"
	ViolationTCPAWindow  = "TCPA_WINDOW"
	ViolationLitigation  = "FDCPA_LITIGATION"
	ViolationNoPhone     = "NO_PHONE"
	ViolationNoEmail     = "NO_EMAIL"
	ViolationSystemError = "SYSTEM_ERROR"
)

// Quiet hours per TCPA: calls and texts only between 8am and 9pm local.
const (
	quietHoursStart = 8
	quietHoursEnd   = 21
)

// passedChecks is stamped into certificates when every rule clears.
var passedChecks = []string{"opt_out", "dnc_federal", "tcpa_window", "fdcpa_litigation", "contact_channel"}

// Decision is the oracle's verdict on one candidate action.
type Decision struct {
	Compliant     bool     `json:"compliant"`
	Violations    []string `json:"violations,omitempty"`
	CertificateID string   `json:"certificate_id,omitempty"`
}

// Oracle gates every outreach action against the rule pipeline. All rules
// run even after the first violation so callers see the complete set.
// Internal failures fail closed with SYSTEM_ERROR.
type Oracle struct {
	leads    lead.Store
	scrubber *Scrubber
	certs    CertificateIssuer
	audit    audit.Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

type Option func(*Oracle)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Oracle) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Oracle) {
		o.metrics = m
	}
}

func WithAudit(pub audit.Publisher) Option {
	return func(o *Oracle) {
		o.audit = pub
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Oracle) {
		if now != nil {
			o.now = now
		}
	}
}

func New(leads lead.Store, scrubber *Scrubber, certs CertificateIssuer, opts ...Option) (*Oracle, error) {
	if leads == nil {
		return nil, errors.New("lead store is required")
	}
	if scrubber == nil {
		return nil, errors.New("dnc scrubber is required")
	}
	if certs == nil {
		return nil, errors.New("certificate issuer is required")
	}

	o := &Oracle{
		leads:    leads,
		scrubber: scrubber,
		certs:    certs,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   otel.Tracer("reclaim/compliance"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Check evaluates one candidate action. explicitPhone overrides the lead's
// stored phone as the dial target. Violations never come back as errors;
// only a missing lead does.
func (o *Oracle) Check(ctx context.Context, leadID string, action lead.Channel, explicitPhone string) (Decision, error) {
	ctx, span := o.tracer.Start(ctx, "compliance.check",
		trace.WithAttributes(
			attribute.String("lead_id", leadID),
			attribute.String("action", string(action)),
		))
	defer span.End()

	if !action.Valid() {
		return Decision{}, dErrors.Newf(dErrors.CodeInvalid, "unknown action %q", action)
	}

	ld, err := o.leads.Get(ctx, leadID)
	if err != nil {
		if dErrors.IsNotFound(err) {
			return Decision{}, err
		}
		o.logger.ErrorContext(ctx, "compliance check failed closed", "lead_id", leadID, "error", err)
		return o.record(ctx, leadID, action, []string{ViolationSystemError}), nil
	}

	violations := o.evaluate(ctx, ld, action, explicitPhone)
	if len(violations) > 0 {
		o.logger.InfoContext(ctx, "outreach blocked",
			"lead_id", leadID, "action", action, "violations", violations)
		span.SetAttributes(attribute.StringSlice("violations", violations))
		return o.record(ctx, leadID, action, violations), nil
	}

	decision := Decision{Compliant: true, Violations: []string{}}

	o.logConsent(ctx, ld, action, explicitPhone)

	cert, err := o.certs.Issue(ctx, leadID, action, passedChecks)
	if err != nil {
		// Certificate issuance enriches the audit trail but must not block a
		// compliant send.
		o.logger.WarnContext(ctx, "certificate issuance failed", "lead_id", leadID, "error", err)
	} else {
		decision.CertificateID = cert.ID
	}

	o.appendScan(ctx, lead.ComplianceScan{
		LeadID:        leadID,
		Action:        action,
		Compliant:     true,
		CertificateID: decision.CertificateID,
	})
	if o.metrics != nil {
		o.metrics.ObserveCheck(string(action), true)
	}
	return decision, nil
}

// evaluate runs the rule pipeline. All rules run; violations accumulate.
func (o *Oracle) evaluate(ctx context.Context, ld *lead.Lead, action lead.Channel, explicitPhone string) []string {
	violations := make([]string, 0, 2)
	phone := ld.BestPhone(explicitPhone)

	// 1. Opt-out dominates everything else but does not stop the pipeline.
	if ld.OptedOut {
		violations = append(violations, ViolationOptOut)
	}

	// 2. Federal DNC, scrubbed lazily and persisted so the registry is not
	// re-queried per attempt.
	if phone != "" && !ld.DNCScrubbed {
		listed, scrubbed := o.scrubber.Scrub(ctx, phone)
		if scrubbed {
			if err := o.leads.SetDNCResult(ctx, ld.ID, listed); err != nil {
				o.logger.WarnContext(ctx, "failed to persist dnc result", "lead_id", ld.ID, "error", err)
			}
			ld.DNCScrubbed = true
			ld.DNCListed = listed
		}
	}
	if ld.DNCListed {
		violations = append(violations, ViolationDNCFederal)
	}

	// 3. TCPA quiet hours for voice and text.
	if (action == lead.ChannelSMS || action == lead.ChannelCall) && phone != "" {
		hour, err := localHour(phone, o.now())
		if err != nil {
			o.logger.ErrorContext(ctx, "timezone resolution failed", "phone", phone, "error", err)
			violations = append(violations, ViolationSystemError)
		} else if hour < quietHoursStart || hour >= quietHoursEnd {
			violations = append(violations, ViolationTCPAWindow)
		}
	}

	// 4. FDCPA: no contact while the claim is in active litigation. The
	// lookup fails safe to not-in-litigation, same as the court-record
	// search it stands in for.
	inLitigation, err := o.leads.InActiveLitigation(ctx, ld.Name, ld.County)
	if err != nil {
		o.logger.WarnContext(ctx, "litigation lookup failed, assuming clear", "lead_id", ld.ID, "error", err)
	} else if inLitigation {
		violations = append(violations, ViolationLitigation)
	}

	// 5. The requested channel needs a contact field to aim at.
	switch action {
	case lead.ChannelSMS, lead.ChannelCall:
		if phone == "" {
			violations = append(violations, ViolationNoPhone)
		}
	case lead.ChannelEmail:
		if ld.BestEmail() == "" {
			violations = append(violations, ViolationNoEmail)
		}
	}

	return violations
}

// record persists a blocked scan and returns the non-compliant decision.
func (o *Oracle) record(ctx context.Context, leadID string, action lead.Channel, violations []string) Decision {
	o.appendScan(ctx, lead.ComplianceScan{
		LeadID:     leadID,
		Action:     action,
		Compliant:  false,
		Violations: violations,
	})
	if o.metrics != nil {
		o.metrics.ObserveCheck(string(action), false)
		for _, v := range violations {
			o.metrics.ObserveViolation(v)
		}
	}
	o.publish(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		Action:   "outreach.blocked",
		LeadID:   leadID,
		Detail: map[string]string{
			"channel":    string(action),
			"violations": fmt.Sprint(violations),
		},
	})
	return Decision{Compliant: false, Violations: violations}
}

func (o *Oracle) logConsent(ctx context.Context, ld *lead.Lead, action lead.Channel, explicitPhone string) {
	o.publish(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		Action:   "consent.logged",
		LeadID:   ld.ID,
		Detail: map[string]string{
			"channel": string(action),
			"phone":   ld.BestPhone(explicitPhone),
		},
	})
}

func (o *Oracle) appendScan(ctx context.Context, scan lead.ComplianceScan) {
	scan.ID = uuid.NewString()
	if err := o.leads.AppendComplianceScan(ctx, scan); err != nil {
		o.logger.ErrorContext(ctx, "failed to append compliance scan", "lead_id", scan.LeadID, "error", err)
	}
}

func (o *Oracle) publish(ctx context.Context, event audit.Event) {
	if o.audit == nil {
		return
	}
	if err := o.audit.Publish(ctx, event); err != nil {
		o.logger.WarnContext(ctx, "audit publish failed", "action", event.Action, "error", err)
	}
}
