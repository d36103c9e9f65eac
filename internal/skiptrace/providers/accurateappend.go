package providers

import (
	"context"
	"net/http"
	"time"

	"reclaim/internal/lead"
)

// AccurateAppend is a batch-append vendor; the single-lead path sends a
// one-record batch. It is the only fallback vendor besides Skip Genie that
// returns county assessor property data.
type AccurateAppend struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewAccurateAppend(baseURL, apiKey string, client *http.Client) *AccurateAppend {
	if client == nil {
		client = http.DefaultClient
	}
	return &AccurateAppend{baseURL: baseURL, apiKey: apiKey, http: client}
}

func (a *AccurateAppend) Name() string { return "accurate_append" }

type accurateAppendRequest struct {
	Records []struct {
		Name   string `json:"name"`
		State  string `json:"state"`
		County string `json:"county,omitempty"`
	} `json:"records"`
}

type accurateAppendResponse struct {
	Appended []struct {
		Phone         string `json:"phone"`
		PhoneType     string `json:"phone_type"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Address       string `json:"address"`
		Parcel        *struct {
			ID            string  `json:"id"`
			AssessedValue float64 `json:"assessed_value"`
			LastSale      string  `json:"last_sale"`
		} `json:"parcel"`
	} `json:"appended"`
}

func (a *AccurateAppend) Trace(ctx context.Context, ld *lead.Lead) (*lead.Enrichment, error) {
	var req accurateAppendRequest
	req.Records = make([]struct {
		Name   string `json:"name"`
		State  string `json:"state"`
		County string `json:"county,omitempty"`
	}, 1)
	req.Records[0].Name = ld.Name
	req.Records[0].State = ld.State
	req.Records[0].County = ld.County

	var resp accurateAppendResponse
	if err := postJSON(ctx, a.http, a.Name(), a.baseURL+"/append/contact", a.apiKey, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Appended) == 0 {
		return &lead.Enrichment{}, nil
	}

	rec := resp.Appended[0]
	enr := &lead.Enrichment{
		Phone:          rec.Phone,
		PhoneType:      rec.PhoneType,
		Email:          rec.Email,
		EmailVerified:  rec.EmailVerified,
		MailingAddress: rec.Address,
	}
	if rec.Parcel != nil {
		sale, _ := time.Parse("2006-01-02", rec.Parcel.LastSale)
		enr.Property = &lead.PropertyRecord{
			ParcelID:      rec.Parcel.ID,
			AssessedValue: rec.Parcel.AssessedValue,
			LastSaleDate:  sale,
		}
	}
	return enr, nil
}
