package providers

import (
	"context"
	"net/http"
	"time"

	"reclaim/internal/lead"
)

// SkipGenie is the first-priority vendor. Its API returns a single best
// match with typed phone and deliverability-checked email.
type SkipGenie struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewSkipGenie(baseURL, apiKey string, client *http.Client) *SkipGenie {
	if client == nil {
		client = http.DefaultClient
	}
	return &SkipGenie{baseURL: baseURL, apiKey: apiKey, http: client}
}

func (s *SkipGenie) Name() string { return "skip_genie" }

type skipGenieRequest struct {
	Query struct {
		Name   string `json:"name"`
		State  string `json:"state"`
		County string `json:"county,omitempty"`
	} `json:"query"`
}

type skipGenieResponse struct {
	Match *struct {
		Phone *struct {
			Number   string `json:"number"`
			LineType string `json:"line_type"`
		} `json:"phone"`
		Email *struct {
			Address     string `json:"address"`
			Deliverable bool   `json:"deliverable"`
		} `json:"email"`
		MailingAddress string `json:"mailing_address"`
		Property       *struct {
			ParcelID      string  `json:"parcel_id"`
			AssessedValue float64 `json:"assessed_value"`
			LastSaleDate  string  `json:"last_sale_date"`
		} `json:"property"`
	} `json:"match"`
}

func (s *SkipGenie) Trace(ctx context.Context, ld *lead.Lead) (*lead.Enrichment, error) {
	var req skipGenieRequest
	req.Query.Name = ld.Name
	req.Query.State = ld.State
	req.Query.County = ld.County

	var resp skipGenieResponse
	if err := postJSON(ctx, s.http, s.Name(), s.baseURL+"/v1/trace", s.apiKey, req, &resp); err != nil {
		return nil, err
	}
	if resp.Match == nil {
		return &lead.Enrichment{}, nil
	}

	enr := &lead.Enrichment{MailingAddress: resp.Match.MailingAddress}
	if p := resp.Match.Phone; p != nil {
		enr.Phone = p.Number
		enr.PhoneType = p.LineType
	}
	if e := resp.Match.Email; e != nil {
		enr.Email = e.Address
		enr.EmailVerified = e.Deliverable
	}
	if pr := resp.Match.Property; pr != nil {
		sale, _ := time.Parse("2006-01-02", pr.LastSaleDate)
		enr.Property = &lead.PropertyRecord{
			ParcelID:      pr.ParcelID,
			AssessedValue: pr.AssessedValue,
			LastSaleDate:  sale,
		}
	}
	return enr, nil
}
