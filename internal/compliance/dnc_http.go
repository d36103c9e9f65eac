package compliance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	dErrors "reclaim/pkg/domain-errors"
)

// HTTPRegistry queries a hosted DNC lookup service. Callers get plain errors
// on outages; the scrubber decides what failing open means.
type HTTPRegistry struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewHTTPRegistry(baseURL, apiKey string, client *http.Client) *HTTPRegistry {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRegistry{baseURL: baseURL, apiKey: apiKey, http: client}
}

func (r *HTTPRegistry) Listed(ctx context.Context, phone string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"phone": phone})
	if err != nil {
		return false, dErrors.Wrap(dErrors.CodeInternal, "encode dnc lookup", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/lookup", bytes.NewReader(payload))
	if err != nil {
		return false, dErrors.Wrap(dErrors.CodeInternal, "build dnc lookup request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.http.Do(req)
	if err != nil {
		return false, dErrors.Wrap(dErrors.CodeUnavailable, "dnc registry unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, dErrors.Newf(dErrors.CodeUnavailable, "dnc registry returned status %d", resp.StatusCode)
	}

	var out struct {
		Listed bool `json:"listed"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return false, dErrors.Wrap(dErrors.CodeInternal, "decode dnc lookup response", err)
	}
	return out.Listed, nil
}

// OfflineRegistry is the stand-in when no registry endpoint is configured.
// Every lookup errors, so the scrubber fails open and leads stay unscrubbed
// until a real registry is wired in.
type OfflineRegistry struct{}

func (OfflineRegistry) Listed(context.Context, string) (bool, error) {
	return false, fmt.Errorf("dnc registry not configured")
}
