package providers

import (
	"context"
	"net/http"

	"reclaim/internal/lead"
)

// Resimpli returns a ranked contact list; the first entry is the best match.
type Resimpli struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewResimpli(baseURL, apiKey string, client *http.Client) *Resimpli {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resimpli{baseURL: baseURL, apiKey: apiKey, http: client}
}

func (r *Resimpli) Name() string { return "resimpli" }

type resimpliRequest struct {
	Name   string `json:"name"`
	State  string `json:"state"`
	County string `json:"county,omitempty"`
}

type resimpliResponse struct {
	Contacts []struct {
		Phone          string `json:"phone"`
		PhoneType      string `json:"phoneType"`
		Email          string `json:"email"`
		EmailVerified  bool   `json:"emailVerified"`
		MailingAddress string `json:"mailingAddress"`
	} `json:"contacts"`
}

func (r *Resimpli) Trace(ctx context.Context, ld *lead.Lead) (*lead.Enrichment, error) {
	req := resimpliRequest{Name: ld.Name, State: ld.State, County: ld.County}

	var resp resimpliResponse
	if err := postJSON(ctx, r.http, r.Name(), r.baseURL+"/api/skiptrace", r.apiKey, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Contacts) == 0 {
		return &lead.Enrichment{}, nil
	}

	best := resp.Contacts[0]
	return &lead.Enrichment{
		Phone:          best.Phone,
		PhoneType:      best.PhoneType,
		Email:          best.Email,
		EmailVerified:  best.EmailVerified,
		MailingAddress: best.MailingAddress,
	}, nil
}
