package providers

import (
	"context"
	"net/http"

	"reclaim/internal/lead"
)

// Mojo returns bare phone/email lists without line types; phone type is left
// unset so the scorer never awards the mobile bonus for this vendor.
type Mojo struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewMojo(baseURL, apiKey string, client *http.Client) *Mojo {
	if client == nil {
		client = http.DefaultClient
	}
	return &Mojo{baseURL: baseURL, apiKey: apiKey, http: client}
}

func (m *Mojo) Name() string { return "mojo" }

type mojoRequest struct {
	Lead struct {
		FullName string `json:"full_name"`
		State    string `json:"state"`
	} `json:"lead"`
}

type mojoResponse struct {
	Data struct {
		Phones  []string `json:"phones"`
		Emails  []string `json:"emails"`
		Address string   `json:"address"`
	} `json:"data"`
}

func (m *Mojo) Trace(ctx context.Context, ld *lead.Lead) (*lead.Enrichment, error) {
	var req mojoRequest
	req.Lead.FullName = ld.Name
	req.Lead.State = ld.State

	var resp mojoResponse
	if err := postJSON(ctx, m.http, m.Name(), m.baseURL+"/v2/lookup", m.apiKey, req, &resp); err != nil {
		return nil, err
	}

	enr := &lead.Enrichment{MailingAddress: resp.Data.Address}
	if len(resp.Data.Phones) > 0 {
		enr.Phone = resp.Data.Phones[0]
	}
	if len(resp.Data.Emails) > 0 {
		enr.Email = resp.Data.Emails[0]
	}
	return enr, nil
}
