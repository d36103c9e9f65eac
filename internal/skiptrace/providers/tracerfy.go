package providers

import (
	"context"
	"net/http"

	"reclaim/internal/lead"
)

// Tracerfy is the last-resort vendor. Mobile detection comes back as a
// boolean rather than a line type string.
type Tracerfy struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewTracerfy(baseURL, apiKey string, client *http.Client) *Tracerfy {
	if client == nil {
		client = http.DefaultClient
	}
	return &Tracerfy{baseURL: baseURL, apiKey: apiKey, http: client}
}

func (t *Tracerfy) Name() string { return "tracerfy" }

type tracerfyRequest struct {
	FullName string `json:"full_name"`
	State    string `json:"state"`
	County   string `json:"county,omitempty"`
}

type tracerfyResponse struct {
	Trace struct {
		PhoneNumber string `json:"phone_number"`
		IsMobile    bool   `json:"is_mobile"`
		Email       string `json:"email"`
		Address     string `json:"address"`
	} `json:"trace"`
}

func (t *Tracerfy) Trace(ctx context.Context, ld *lead.Lead) (*lead.Enrichment, error) {
	req := tracerfyRequest{FullName: ld.Name, State: ld.State, County: ld.County}

	var resp tracerfyResponse
	if err := postJSON(ctx, t.http, t.Name(), t.baseURL+"/api/v1/trace", t.apiKey, req, &resp); err != nil {
		return nil, err
	}

	enr := &lead.Enrichment{
		Phone:          resp.Trace.PhoneNumber,
		Email:          resp.Trace.Email,
		MailingAddress: resp.Trace.Address,
	}
	if resp.Trace.PhoneNumber != "" && resp.Trace.IsMobile {
		enr.PhoneType = "mobile"
	}
	return enr, nil
}
