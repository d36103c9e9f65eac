// Package ops exposes the subsystem operations behind a closed, typed
// dispatch table. Every operation the API can trigger is an explicit Kind;
// unknown kinds are rejected at decode time rather than routed dynamically.
package ops

import (
	"context"
	"errors"
	"log/slog"

	"reclaim/internal/compliance"
	"reclaim/internal/lead"
	"reclaim/internal/outreach"
	"reclaim/internal/skiptrace"
	dErrors "reclaim/pkg/domain-errors"
)

type Kind string

const (
	KindSkipTrace       Kind = "skip_trace"
	KindBulkSkipTrace   Kind = "bulk_skip_trace"
	KindComplianceCheck Kind = "compliance_check"
	KindComplianceScore Kind = "compliance_score"
	KindSendMessage     Kind = "send_message"
	KindFrequencyCount  Kind = "frequency_count"
	KindHonorOptOut     Kind = "honor_opt_out"
)

var kinds = map[Kind]struct{}{
	KindSkipTrace:       {},
	KindBulkSkipTrace:   {},
	KindComplianceCheck: {},
	KindComplianceScore: {},
	KindSendMessage:     {},
	KindFrequencyCount:  {},
	KindHonorOptOut:     {},
}

// ParseKind validates an operation name from the wire.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kinds[k]; !ok {
		return "", dErrors.Newf(dErrors.CodeInvalid, "unknown operation kind %q", s)
	}
	return k, nil
}

// Request carries the union of operation parameters; each kind reads only
// its own fields.
type Request struct {
	Kind    Kind     `json:"kind"`
	LeadID  string   `json:"lead_id,omitempty"`
	LeadIDs []string `json:"lead_ids,omitempty"`
	Channel string   `json:"channel,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Subject string   `json:"subject,omitempty"`
	Body    string   `json:"body,omitempty"`
}

// Response pairs the executed kind with its typed result.
type Response struct {
	Kind   Kind `json:"kind"`
	Result any  `json:"result"`
}

// Dispatcher wires each kind to its subsystem.
type Dispatcher struct {
	cascade *skiptrace.Cascade
	oracle  *compliance.Oracle
	orch    *outreach.Orchestrator
	caps    *outreach.FrequencyCap
	logger  *slog.Logger
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func New(cascade *skiptrace.Cascade, oracle *compliance.Oracle, orch *outreach.Orchestrator, caps *outreach.FrequencyCap, opts ...Option) (*Dispatcher, error) {
	if cascade == nil || oracle == nil || orch == nil || caps == nil {
		return nil, errors.New("all subsystems are required")
	}
	d := &Dispatcher{
		cascade: cascade,
		oracle:  oracle,
		orch:    orch,
		caps:    caps,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Dispatcher) channel(raw string) (lead.Channel, error) {
	ch := lead.Channel(raw)
	if !ch.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalid, "unknown channel %q", raw)
	}
	return ch, nil
}

// Execute runs one operation. Kind is re-validated so a Request built
// without ParseKind still cannot reach an unknown branch.
func (d *Dispatcher) Execute(ctx context.Context, req Request) (Response, error) {
	if _, err := ParseKind(string(req.Kind)); err != nil {
		return Response{}, err
	}
	d.logger.InfoContext(ctx, "executing operation", "kind", req.Kind, "lead_id", req.LeadID)

	resp := Response{Kind: req.Kind}
	switch req.Kind {
	case KindSkipTrace:
		ld, err := d.cascade.Trace(ctx, req.LeadID)
		if err != nil {
			return Response{}, err
		}
		resp.Result = map[string]any{"enriched": ld != nil, "lead": ld}

	case KindBulkSkipTrace:
		enriched, err := d.cascade.TraceBulk(ctx, req.LeadIDs)
		if err != nil {
			return Response{}, err
		}
		resp.Result = map[string]any{"requested": len(req.LeadIDs), "enriched": len(enriched)}

	case KindComplianceCheck:
		ch, err := d.channel(req.Channel)
		if err != nil {
			return Response{}, err
		}
		decision, err := d.oracle.Check(ctx, req.LeadID, ch, req.Phone)
		if err != nil {
			return Response{}, err
		}
		resp.Result = decision

	case KindComplianceScore:
		score, err := d.oracle.Score(ctx, req.LeadID)
		if err != nil {
			return Response{}, err
		}
		resp.Result = map[string]int{"score": score}

	case KindSendMessage:
		ch, err := d.channel(req.Channel)
		if err != nil {
			return Response{}, err
		}
		result, err := d.orch.Send(ctx, outreach.Draft{
			LeadID:  req.LeadID,
			Channel: ch,
			Subject: req.Subject,
			Body:    req.Body,
			Phone:   req.Phone,
		})
		if err != nil {
			return Response{}, err
		}
		resp.Result = result

	case KindFrequencyCount:
		ch, err := d.channel(req.Channel)
		if err != nil {
			return Response{}, err
		}
		resp.Result = map[string]int64{"count": d.caps.Count(ctx, req.LeadID, ch)}

	case KindHonorOptOut:
		ch, err := d.channel(req.Channel)
		if err != nil {
			return Response{}, err
		}
		if err := d.orch.HonorOptOut(ctx, req.LeadID, ch); err != nil {
			return Response{}, err
		}
		resp.Result = map[string]bool{"opted_out": true}
	}
	return resp, nil
}
