package outreach

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	dErrors "reclaim/pkg/domain-errors"
)

// Campaign is one bulk outreach run over a set of leads on a single channel.
type Campaign struct {
	LeadIDs []string
	Draft   Draft // LeadID is filled per lead; Channel/Subject/Body shared
	// SendDelay spaces sends out to stay under gateway rate limits.
	// Zero means no delay.
	SendDelay time.Duration
}

// CampaignResult tallies terminal outcomes. Skipped covers leads that were
// missing, capped or blocked; Failed covers dispatch failures.
type CampaignResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// RunCampaign processes leads sequentially with per-lead isolation: one
// lead's failure never aborts the run.
func (o *Orchestrator) RunCampaign(ctx context.Context, campaign Campaign) (CampaignResult, error) {
	ctx, span := o.tracer.Start(ctx, "outreach.campaign",
		trace.WithAttributes(
			attribute.Int("lead_count", len(campaign.LeadIDs)),
			attribute.String("channel", string(campaign.Draft.Channel)),
		))
	defer span.End()

	if o.metrics != nil {
		o.metrics.ObserveCampaign()
	}
	o.logger.InfoContext(ctx, "starting campaign",
		"leads", len(campaign.LeadIDs), "channel", campaign.Draft.Channel)

	var result CampaignResult
	for i, leadID := range campaign.LeadIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		draft := campaign.Draft
		draft.LeadID = leadID

		res, err := o.Send(ctx, draft)
		switch {
		case dErrors.IsNotFound(err):
			o.logger.WarnContext(ctx, "campaign lead not found", "lead_id", leadID)
			result.Skipped++
		case err != nil:
			o.logger.ErrorContext(ctx, "campaign send errored", "lead_id", leadID, "error", err)
			result.Failed++
		case res.Status == StatusSent:
			result.Sent++
		case res.Status == StatusFailed:
			result.Failed++
		default:
			result.Skipped++
		}

		if campaign.SendDelay > 0 && i < len(campaign.LeadIDs)-1 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(campaign.SendDelay):
			}
		}
	}

	span.SetAttributes(
		attribute.Int("sent", result.Sent),
		attribute.Int("skipped", result.Skipped),
		attribute.Int("failed", result.Failed),
	)
	o.logger.InfoContext(ctx, "campaign completed",
		"sent", result.Sent, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}
