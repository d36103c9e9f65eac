package outreach

import (
	"context"

	"github.com/google/uuid"

	"reclaim/internal/lead"
	"reclaim/pkg/audit"
)

// HonorOptOut marks the lead opted out, records the inbound request and
// audits it. Opt-out is one-way; repeated requests are idempotent.
func (o *Orchestrator) HonorOptOut(ctx context.Context, leadID string, via lead.Channel) error {
	ld, err := o.leads.Get(ctx, leadID)
	if err != nil {
		return err
	}

	if err := o.leads.MarkOptedOut(ctx, leadID); err != nil {
		return err
	}

	rec := lead.CommunicationRecord{
		ID:        uuid.NewString(),
		LeadID:    leadID,
		Channel:   via,
		Direction: lead.DirectionInbound,
		Content:   "STOP",
		Status:    "received",
	}
	switch via {
	case lead.ChannelEmail:
		rec.Email = ld.BestEmail()
	default:
		rec.Phone = ld.BestPhone("")
	}
	if err := o.leads.AppendCommunication(ctx, rec); err != nil {
		o.logger.ErrorContext(ctx, "failed to record opt-out communication", "lead_id", leadID, "error", err)
	}

	if o.metrics != nil {
		o.metrics.ObserveOptOut()
	}
	o.publish(ctx, audit.Event{
		Category: audit.CategoryCompliance,
		Action:   "opt_out.honored",
		LeadID:   leadID,
		Detail:   map[string]string{"channel": string(via)},
	})
	o.logger.InfoContext(ctx, "opt-out honored", "lead_id", leadID, "channel", via)
	return nil
}
