package providers

import (
	"context"
	"net/http"

	"reclaim/internal/lead"
)

// SkipForce reports a single best contact. Email verification is a status
// string on their side; only "verified" maps to a verified email here.
type SkipForce struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewSkipForce(baseURL, apiKey string, client *http.Client) *SkipForce {
	if client == nil {
		client = http.DefaultClient
	}
	return &SkipForce{baseURL: baseURL, apiKey: apiKey, http: client}
}

func (s *SkipForce) Name() string { return "skip_force" }

type skipForceRequest struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

type skipForceResponse struct {
	Result struct {
		BestPhone     string `json:"bestPhone"`
		PhoneLineType string `json:"phoneLineType"`
		BestEmail     string `json:"bestEmail"`
		EmailStatus   string `json:"emailStatus"`
		MailAddress   string `json:"mailAddress"`
	} `json:"result"`
}

func (s *SkipForce) Trace(ctx context.Context, ld *lead.Lead) (*lead.Enrichment, error) {
	req := skipForceRequest{Name: ld.Name, Region: ld.State}

	var resp skipForceResponse
	if err := postJSON(ctx, s.http, s.Name(), s.baseURL+"/trace/best", s.apiKey, req, &resp); err != nil {
		return nil, err
	}

	return &lead.Enrichment{
		Phone:          resp.Result.BestPhone,
		PhoneType:      resp.Result.PhoneLineType,
		Email:          resp.Result.BestEmail,
		EmailVerified:  resp.Result.EmailStatus == "verified",
		MailingAddress: resp.Result.MailAddress,
	}, nil
}
