// Command server wires the lead store, skip-trace cascade, compliance oracle
// and outreach orchestrator behind the HTTP API. Infrastructure is optional
// in development: missing Postgres, Redis or Kafka settings fall back to
// in-memory equivalents.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reclaim/internal/compliance"
	compliancemetrics "reclaim/internal/compliance/metrics"
	"reclaim/internal/lead"
	"reclaim/internal/ops"
	"reclaim/internal/outreach"
	outreachmetrics "reclaim/internal/outreach/metrics"
	"reclaim/internal/platform/config"
	"reclaim/internal/platform/httpserver"
	"reclaim/internal/platform/logger"
	"reclaim/internal/platform/postgres"
	platformredis "reclaim/internal/platform/redis"
	"reclaim/internal/skiptrace"
	skipmetrics "reclaim/internal/skiptrace/metrics"
	"reclaim/internal/skiptrace/providers"
	httptransport "reclaim/internal/transport/http"
	"reclaim/pkg/audit"
	"reclaim/pkg/circuit"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var handlerOpts []httptransport.Option

	// Lead store: Postgres when configured, in-memory otherwise.
	var leads lead.Store = lead.NewInMemoryStore()
	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		leads = lead.NewPostgres(db)
		handlerOpts = append(handlerOpts, httptransport.WithHealthCheck("postgres", db.PingContext))
		log.Info("using postgres lead store")
	} else {
		log.Warn("POSTGRES_DSN not set, using in-memory lead store")
	}

	// Redis backs the frequency counters and the DNC scrub cache.
	var counters outreach.CounterStore = outreach.NewMemoryCounterStore()
	var scrubCache compliance.ScrubCache
	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		counters = outreach.NewRedisCounterStore(rdb.Client)
		scrubCache = compliance.NewRedisScrubCache(rdb.Client)
		handlerOpts = append(handlerOpts, httptransport.WithHealthCheck("redis", rdb.Health))
		log.Info("using redis counters and scrub cache")
	} else {
		log.Warn("REDIS_URL not set, using in-memory counters and uncached DNC scrubs")
	}

	// Audit trail: Kafka when brokers are configured, buffered so slow
	// brokers never stall a send.
	var publisher audit.Publisher = audit.NewMemoryPublisher()
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := audit.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic,
			audit.WithKafkaLogger(log))
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		async := audit.NewAsyncPublisher(kp, 256, log)
		defer async.Close()
		publisher = async
		log.Info("publishing audit events to kafka", "topic", cfg.KafkaTopic)
	}

	registry, err := skiptrace.NewRegistry(providers.Defaults(providers.Config(cfg.Providers), nil)...)
	if err != nil {
		log.Error("provider registry init failed", "error", err)
		os.Exit(1)
	}
	cascade, err := skiptrace.New(leads, registry, circuit.NewRegistry(),
		skiptrace.WithLogger(log),
		skiptrace.WithMetrics(skipmetrics.New()),
	)
	if err != nil {
		log.Error("cascade init failed", "error", err)
		os.Exit(1)
	}

	var dncRegistry compliance.DNCRegistry = compliance.OfflineRegistry{}
	if cfg.DNCRegistryURL != "" {
		dncRegistry = compliance.NewHTTPRegistry(cfg.DNCRegistryURL, cfg.DNCRegistryKey, nil)
	} else {
		log.Warn("DNC_REGISTRY_URL not set, leads will stay unscrubbed")
	}
	scrubber := compliance.NewScrubber(dncRegistry, scrubCache, log)

	issuer, err := compliance.NewJWTIssuer([]byte(cfg.CertSigningKey))
	if err != nil {
		log.Error("certificate issuer init failed", "error", err)
		os.Exit(1)
	}

	oracle, err := compliance.New(leads, scrubber, issuer,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliancemetrics.New()),
		compliance.WithAudit(publisher),
	)
	if err != nil {
		log.Error("compliance oracle init failed", "error", err)
		os.Exit(1)
	}

	caps := outreach.NewFrequencyCap(counters,
		outreach.WithCaps(outreach.Caps{
			lead.ChannelSMS:   cfg.MaxDailySMS,
			lead.ChannelEmail: 1,
			lead.ChannelCall:  2,
		}),
		outreach.WithCapLogger(log),
	)

	// All channels dispatch through the log sender until real gateways are
	// configured.
	sender := outreach.NewLogSender(log)
	orch, err := outreach.New(leads, oracle, caps,
		map[lead.Channel]outreach.Sender{
			lead.ChannelSMS:   sender,
			lead.ChannelEmail: sender,
			lead.ChannelCall:  sender,
		},
		outreach.WithLogger(log),
		outreach.WithMetrics(outreachmetrics.New()),
		outreach.WithAudit(publisher),
		outreach.WithDisclosures(outreach.Disclosures{
			OptOutBaseURL: cfg.OptOutBaseURL,
			OrgName:       cfg.OrgName,
			OrgAddress:    cfg.OrgAddress,
		}),
	)
	if err != nil {
		log.Error("orchestrator init failed", "error", err)
		os.Exit(1)
	}

	dispatcher, err := ops.New(cascade, oracle, orch, caps, ops.WithLogger(log))
	if err != nil {
		log.Error("dispatcher init failed", "error", err)
		os.Exit(1)
	}

	handler, err := httptransport.New(leads, cascade, orch, oracle, dispatcher,
		append(handlerOpts, httptransport.WithLogger(log))...)
	if err != nil {
		log.Error("handler init failed", "error", err)
		os.Exit(1)
	}

	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting reclaim server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("server error", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
