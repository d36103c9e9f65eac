// Package providers holds the vendor adapters for the skip trace cascade.
// Each adapter speaks one vendor's wire format and normalizes the response
// into a lead.Enrichment at the boundary.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"reclaim/internal/skiptrace"
)

// Config carries the per-vendor endpoints and credentials.
type Config struct {
	SkipGenieURL      string
	SkipGenieKey      string
	ResimpliURL       string
	ResimpliKey       string
	MojoURL           string
	MojoKey           string
	SkipForceURL      string
	SkipForceKey      string
	AccurateAppendURL string
	AccurateAppendKey string
	TracerfyURL       string
	TracerfyKey       string
}

// postJSON sends a vendor request and decodes the response body into out.
// HTTP status classes map onto the cascade's error categories so the
// breaker and retry logic see uniform failures across vendors.
func postJSON(ctx context.Context, client *http.Client, provider, url, apiKey string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return skiptrace.NewProviderError(skiptrace.ErrorInternal, provider, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return skiptrace.NewProviderError(skiptrace.ErrorInternal, provider, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return skiptrace.NewProviderError(skiptrace.ErrorVendorOutage, provider, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return skiptrace.NewProviderError(skiptrace.ErrorAuthentication, provider,
			fmt.Sprintf("rejected credentials (status %d)", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return skiptrace.NewProviderError(skiptrace.ErrorRateLimited, provider, "rate limited", nil)
	case resp.StatusCode >= 500:
		return skiptrace.NewProviderError(skiptrace.ErrorVendorOutage, provider,
			fmt.Sprintf("server error (status %d)", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return skiptrace.NewProviderError(skiptrace.ErrorBadData, provider,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return skiptrace.NewProviderError(skiptrace.ErrorVendorOutage, provider, "read response", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return skiptrace.NewProviderError(skiptrace.ErrorBadData, provider, "decode response", err)
	}
	return nil
}
