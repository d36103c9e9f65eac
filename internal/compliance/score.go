package compliance

import (
	"context"
	"time"
)

// Deductions for the per-lead compliance score.
const (
	deductOptOut          = 100
	deductUnscrubbed      = 20
	deductOverContacted   = 10
	deductNoPhone         = 15
	deductPerViolation    = 15
	overContactThreshold  = 5
	violationLookbackDays = 30
)

// Score rates a lead's contactability risk from 0 (do not touch) to 100
// (clean). Opt-out zeroes the score outright.
func (o *Oracle) Score(ctx context.Context, leadID string) (int, error) {
	ld, err := o.leads.Get(ctx, leadID)
	if err != nil {
		return 0, err
	}

	score := 100
	if ld.OptedOut {
		score -= deductOptOut
	}
	if !ld.DNCScrubbed {
		score -= deductUnscrubbed
	}
	if ld.ContactCount > overContactThreshold {
		score -= deductOverContacted
	}
	if ld.BestPhone("") == "" {
		score -= deductNoPhone
	}

	since := o.now().Add(-violationLookbackDays * 24 * time.Hour)
	scans, err := o.leads.ListComplianceScans(ctx, since)
	if err != nil {
		o.logger.WarnContext(ctx, "scan history unavailable for scoring", "lead_id", leadID, "error", err)
	} else {
		for _, scan := range scans {
			if !scan.Compliant && scan.LeadID == leadID {
				score -= deductPerViolation
			}
		}
	}

	return max(0, score), nil
}

// Report summarizes compliance activity over a trailing window.
type Report struct {
	PeriodDays     int            `json:"period_days"`
	TotalScans     int            `json:"total_scans"`
	CompliantScans int            `json:"compliant_scans"`
	ComplianceRate float64        `json:"compliance_rate"`
	Violations     int            `json:"violations"`
	ViolationCodes map[string]int `json:"violation_codes"`
	OptOuts        int            `json:"opt_outs"`
	Certificates   int            `json:"certificates_issued"`
}

// GenerateReport aggregates scan records for the last `days` days.
func (o *Oracle) GenerateReport(ctx context.Context, days int) (*Report, error) {
	if days <= 0 {
		days = 30
	}
	since := o.now().Add(-time.Duration(days) * 24 * time.Hour)

	scans, err := o.leads.ListComplianceScans(ctx, since)
	if err != nil {
		return nil, err
	}
	optOuts, err := o.leads.CountOptedOut(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		PeriodDays:     days,
		TotalScans:     len(scans),
		OptOuts:        optOuts,
		ViolationCodes: make(map[string]int),
	}
	for _, scan := range scans {
		if scan.Compliant {
			report.CompliantScans++
			if scan.CertificateID != "" {
				report.Certificates++
			}
			continue
		}
		report.Violations++
		for _, code := range scan.Violations {
			report.ViolationCodes[code]++
		}
	}
	if report.TotalScans > 0 {
		report.ComplianceRate = float64(report.CompliantScans) / float64(report.TotalScans) * 100
	}
	return report, nil
}
