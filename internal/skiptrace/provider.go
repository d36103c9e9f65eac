// Package skiptrace enriches leads with contact data by cascading through
// external skip-trace vendors in cost order.
package skiptrace

import (
	"context"
	"fmt"
	"sort"
	"time"

	"reclaim/internal/lead"
)

// Provider is the uniform interface every skip-trace vendor adapter
// implements. Adapters validate and normalize their vendor payload at this
// boundary; the cascade never sees vendor-shaped data.
type Provider interface {
	Name() string
	Trace(ctx context.Context, ld *lead.Lead) (*lead.Enrichment, error)
}

// Entry pairs a provider with its cascade placement. Priority orders the
// fallback chain (lower first); CostPerLead is carried for logging so the
// cost intent behind the ordering stays visible.
type Entry struct {
	Provider    Provider
	Priority    int
	Timeout     time.Duration
	CostPerLead float64
}

const defaultProviderTimeout = 10 * time.Second

// Registry is the ordered provider set for one process, built once at wiring
// time and passed into the cascade.
type Registry struct {
	entries []Entry
}

// NewRegistry validates and sorts the entries by ascending priority.
func NewRegistry(entries ...Entry) (*Registry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("at least one provider is required")
	}
	seen := make(map[string]struct{}, len(entries))
	for i := range entries {
		if entries[i].Provider == nil {
			return nil, fmt.Errorf("entry %d has no provider", i)
		}
		name := entries[i].Provider.Name()
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("provider %q registered twice", name)
		}
		seen[name] = struct{}{}
		if entries[i].Timeout <= 0 {
			entries[i].Timeout = defaultProviderTimeout
		}
	}
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return &Registry{entries: sorted}, nil
}

// Entries returns the providers in cascade order.
func (r *Registry) Entries() []Entry {
	return r.entries
}

// Names returns the provider names in cascade order, for logs and health
// surfaces.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Provider.Name()
	}
	return names
}
