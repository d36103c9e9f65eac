package circuit

import (
	"sync"
	"time"
)

// Registry owns the breakers for a set of dependencies. It is constructed
// once by the wiring layer and passed into whatever orchestrates calls; there
// is deliberately no package-level breaker map.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*Breaker
	opts     []Option
}

// NewRegistry creates an empty registry. opts apply to every breaker it
// creates.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		breakers: make(map[string]*Breaker),
		opts:     opts,
	}
}

// Get returns the shared breaker for name, creating it on first use.
func (r *Registry) Get(name string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[name]; ok {
		return b
	}
	b := New(name, r.opts...)
	r.breakers[name] = b
	return b
}

// Status is a point-in-time snapshot of one breaker, for observability
// surfaces.
type Status struct {
	State       string    `json:"state"`
	Failures    int       `json:"failures"`
	LastFailure time.Time `json:"last_failure,omitzero"`
}

// Snapshot reports the status of every breaker the registry has created.
func (r *Registry) Snapshot() map[string]Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Status, len(r.breakers))
	for name, b := range r.breakers {
		out[name] = Status{
			State:       b.State().String(),
			Failures:    b.Failures(),
			LastFailure: b.LastFailure(),
		}
	}
	return out
}
