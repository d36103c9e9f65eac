package providers

import (
	"net/http"
	"time"

	"reclaim/internal/skiptrace"
)

// Defaults builds the production cascade in cost order: cheapest and most
// reliable vendors first, expensive last-resort vendors at the tail.
func Defaults(cfg Config, client *http.Client) []skiptrace.Entry {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return []skiptrace.Entry{
		{
			Provider:    NewSkipGenie(cfg.SkipGenieURL, cfg.SkipGenieKey, client),
			Priority:    1,
			Timeout:     10 * time.Second,
			CostPerLead: 0.25,
		},
		{
			Provider:    NewResimpli(cfg.ResimpliURL, cfg.ResimpliKey, client),
			Priority:    2,
			Timeout:     8 * time.Second,
			CostPerLead: 0.30,
		},
		{
			Provider:    NewMojo(cfg.MojoURL, cfg.MojoKey, client),
			Priority:    3,
			Timeout:     8 * time.Second,
			CostPerLead: 0.35,
		},
		{
			Provider:    NewSkipForce(cfg.SkipForceURL, cfg.SkipForceKey, client),
			Priority:    4,
			Timeout:     10 * time.Second,
			CostPerLead: 0.40,
		},
		{
			Provider:    NewAccurateAppend(cfg.AccurateAppendURL, cfg.AccurateAppendKey, client),
			Priority:    5,
			Timeout:     12 * time.Second,
			CostPerLead: 0.45,
		},
		{
			Provider:    NewTracerfy(cfg.TracerfyURL, cfg.TracerfyKey, client),
			Priority:    6,
			Timeout:     10 * time.Second,
			CostPerLead: 0.50,
		},
	}
}
