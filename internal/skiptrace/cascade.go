package skiptrace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"reclaim/internal/lead"
	"reclaim/internal/skiptrace/metrics"
	"reclaim/pkg/circuit"
)

// Config bounds the bulk path. Zero values fall back to defaults.
type Config struct {
	// BatchSize caps how many leads one bulk batch processes.
	BatchSize int
	// BatchDelay spaces batches out so providers are not hammered.
	BatchDelay time.Duration
	// BulkConcurrency bounds concurrent cascades within one batch.
	BulkConcurrency int
	// CascadeDeadline optionally caps one full cascade. Zero disables it and
	// total duration is bounded only by the sum of per-provider timeouts.
	CascadeDeadline time.Duration
}

func DefaultConfig() Config {
	return Config{
		BatchSize:       100,
		BatchDelay:      2 * time.Second,
		BulkConcurrency: 8,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.BatchDelay < 0 {
		c.BatchDelay = d.BatchDelay
	}
	if c.BulkConcurrency <= 0 {
		c.BulkConcurrency = d.BulkConcurrency
	}
	return c
}

// Cascade tries providers in priority order until one returns a usable
// enrichment. Provider failures are absorbed into attempt records; only a
// missing lead is a hard error.
type Cascade struct {
	leads    lead.Store
	registry *Registry
	breakers *circuit.Registry
	config   Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	flight   singleflight.Group
}

type Option func(*Cascade)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cascade) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cascade) {
		c.metrics = m
	}
}

func WithConfig(cfg Config) Option {
	return func(c *Cascade) {
		c.config = cfg.withDefaults()
	}
}

func New(leads lead.Store, registry *Registry, breakers *circuit.Registry, opts ...Option) (*Cascade, error) {
	if leads == nil {
		return nil, errors.New("lead store is required")
	}
	if registry == nil {
		return nil, errors.New("provider registry is required")
	}
	if breakers == nil {
		return nil, errors.New("breaker registry is required")
	}

	c := &Cascade{
		leads:    leads,
		registry: registry,
		breakers: breakers,
		config:   DefaultConfig(),
		logger:   slog.New(slog.DiscardHandler),
		tracer:   otel.Tracer("reclaim/skiptrace"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Trace runs the cascade for one lead. It returns the enriched lead, or
// (nil, nil) when every provider failed or was skipped - a valid terminal
// outcome, not an error. Concurrent calls for the same lead share a single
// execution.
func (c *Cascade) Trace(ctx context.Context, leadID string) (*lead.Lead, error) {
	v, err, _ := c.flight.Do(leadID, func() (any, error) {
		// The flight serves every piggybacked caller, so the first caller's
		// cancellation must not fail the shared execution. Duration stays
		// bounded by the per-provider timeouts and CascadeDeadline.
		return c.trace(context.WithoutCancel(ctx), leadID)
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.(*lead.Lead), nil
}

func (c *Cascade) trace(ctx context.Context, leadID string) (*lead.Lead, error) {
	ctx, span := c.tracer.Start(ctx, "skiptrace.cascade",
		trace.WithAttributes(attribute.String("lead_id", leadID)))
	defer span.End()

	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.ObserveCascade(time.Since(start))
		}
	}()

	if c.config.CascadeDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.CascadeDeadline)
		defer cancel()
	}

	ld, err := c.leads.Get(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("resolve lead %s: %w", leadID, err)
	}

	c.logger.InfoContext(ctx, "starting skip trace cascade",
		"lead_id", leadID, "claimant", ld.Name, "providers", len(c.registry.Entries()))

	for _, entry := range c.registry.Entries() {
		name := entry.Provider.Name()
		enr, err := c.tryProvider(ctx, entry, ld)
		if errors.Is(err, circuit.ErrOpen) {
			// Skipped providers produce no attempt row.
			c.logger.DebugContext(ctx, "provider skipped, circuit open", "lead_id", leadID, "provider", name)
			if c.metrics != nil {
				c.metrics.ObserveSkippedOpen(name)
			}
			continue
		}
		if err != nil {
			c.logger.WarnContext(ctx, "provider failed, trying next",
				"lead_id", leadID, "provider", name, "category", CategoryOf(err), "error", err)
			c.recordAttempt(ctx, lead.ProviderAttempt{
				LeadID:   leadID,
				Provider: name,
				Success:  false,
				Error:    err.Error(),
			})
			if c.metrics != nil {
				c.metrics.ObserveAttempt(name, false)
			}
			continue
		}

		c.recordAttempt(ctx, lead.ProviderAttempt{
			LeadID:   leadID,
			Provider: name,
			Success:  true,
			Result:   enr,
		})
		if c.metrics != nil {
			c.metrics.ObserveAttempt(name, true)
		}

		score := Score(enr)
		updated, err := c.leads.ApplyEnrichment(ctx, leadID, *enr, score)
		if err != nil {
			return nil, fmt.Errorf("apply enrichment for lead %s: %w", leadID, err)
		}
		if c.metrics != nil {
			c.metrics.ObserveScore(score)
		}
		span.SetAttributes(attribute.String("provider", name), attribute.Float64("score", score))
		c.logger.InfoContext(ctx, "lead enrichment completed",
			"lead_id", leadID, "provider", name, "priority", entry.Priority,
			"cost_per_lead", entry.CostPerLead, "score", score)
		return updated, nil
	}

	span.SetAttributes(attribute.Bool("all_providers_failed", true))
	c.logger.WarnContext(ctx, "all skip trace providers failed", "lead_id", leadID)
	return nil, nil
}

// tryProvider invokes one adapter behind its shared breaker with the
// per-provider timeout. Empty or invalid results count as failures so the
// breaker sees them too.
func (c *Cascade) tryProvider(ctx context.Context, entry Entry, ld *lead.Lead) (*lead.Enrichment, error) {
	name := entry.Provider.Name()
	var enr *lead.Enrichment

	err := c.breakers.Get(name).Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, entry.Timeout)
		defer cancel()

		result, err := entry.Provider.Trace(callCtx, ld)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return NewProviderError(ErrorTimeout, name, "trace timed out", err)
			}
			return err
		}
		if result == nil || result.Empty() {
			return NewProviderError(ErrorBadData, name, "empty trace result", nil)
		}
		result.Provider = name
		enr = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enr, nil
}

func (c *Cascade) recordAttempt(ctx context.Context, attempt lead.ProviderAttempt) {
	attempt.ID = uuid.NewString()
	if err := c.leads.AppendAttempt(ctx, attempt); err != nil {
		// Losing an audit row must not abort the cascade.
		c.logger.ErrorContext(ctx, "failed to record provider attempt",
			"lead_id", attempt.LeadID, "provider", attempt.Provider, "error", err)
	}
}

// TraceBulk processes leads in fixed-size batches with a short delay between
// batches. Failures are isolated per lead; the returned slice holds only the
// leads that were enriched.
func (c *Cascade) TraceBulk(ctx context.Context, leadIDs []string) ([]*lead.Lead, error) {
	ctx, span := c.tracer.Start(ctx, "skiptrace.bulk",
		trace.WithAttributes(attribute.Int("lead_count", len(leadIDs))))
	defer span.End()

	var (
		mu       sync.Mutex
		enriched []*lead.Lead
	)

	batchSize := c.config.BatchSize
	for i := 0; i < len(leadIDs); i += batchSize {
		end := min(i+batchSize, len(leadIDs))
		batch := leadIDs[i:end]

		g, batchCtx := errgroup.WithContext(ctx)
		g.SetLimit(c.config.BulkConcurrency)
		for _, id := range batch {
			g.Go(func() error {
				ld, err := c.Trace(batchCtx, id)
				if err != nil {
					// One lead's failure does not abort the batch.
					c.logger.WarnContext(batchCtx, "bulk trace failed for lead", "lead_id", id, "error", err)
					return nil
				}
				if ld != nil {
					mu.Lock()
					enriched = append(enriched, ld)
					mu.Unlock()
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return enriched, err
		}

		if end < len(leadIDs) && c.config.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return enriched, ctx.Err()
			case <-time.After(c.config.BatchDelay):
			}
		}
	}

	span.SetAttributes(attribute.Int("enriched", len(enriched)))
	c.logger.InfoContext(ctx, "bulk skip trace completed",
		"total", len(leadIDs), "enriched", len(enriched))
	return enriched, nil
}
