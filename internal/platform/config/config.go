package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "reclaim/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr string

	PostgresDSN string
	Redis       RedisConfig

	KafkaBrokers []string
	KafkaTopic   string

	// CertSigningKey signs compliance certificates.
	CertSigningKey string

	DNCRegistryURL string
	DNCRegistryKey string

	OptOutBaseURL string
	OrgName       string
	OrgAddress    string

	MaxDailySMS int

	Providers ProviderConfig
}

// RedisConfig holds connection settings for the frequency counters and the
// DNC scrub cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ProviderConfig carries per-vendor endpoints and API keys for the skip
// trace cascade.
type ProviderConfig struct {
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

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("RECLAIM_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	signingKey := os.Getenv("CERT_SIGNING_KEY")
	if signingKey == "" {
		// Development default - must be overridden in production.
		signingKey = "dev-secret-key-change-in-production"
	}

	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "reclaim.audit"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = pstrings.DedupeAndTrim(strings.Split(raw, ","))
	}

	return Server{
		Addr:        addr,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaBrokers:   brokers,
		KafkaTopic:     topic,
		CertSigningKey: signingKey,
		DNCRegistryURL: os.Getenv("DNC_REGISTRY_URL"),
		DNCRegistryKey: os.Getenv("DNC_REGISTRY_API_KEY"),
		OptOutBaseURL:  os.Getenv("OPT_OUT_BASE_URL"),
		OrgName:        os.Getenv("ORG_NAME"),
		OrgAddress:     os.Getenv("ORG_ADDRESS"),
		MaxDailySMS:    envInt("MAX_DAILY_SMS", 3),
		Providers: ProviderConfig{
			SkipGenieURL:      os.Getenv("SKIP_GENIE_URL"),
			SkipGenieKey:      os.Getenv("SKIP_GENIE_API_KEY"),
			ResimpliURL:       os.Getenv("RESIMPLI_URL"),
			ResimpliKey:       os.Getenv("RESIMPLI_API_KEY"),
			MojoURL:           os.Getenv("MOJO_URL"),
			MojoKey:           os.Getenv("MOJO_API_KEY"),
			SkipForceURL:      os.Getenv("SKIP_FORCE_URL"),
			SkipForceKey:      os.Getenv("SKIP_FORCE_API_KEY"),
			AccurateAppendURL: os.Getenv("ACCURATE_APPEND_URL"),
			AccurateAppendKey: os.Getenv("ACCURATE_APPEND_API_KEY"),
			TracerfyURL:       os.Getenv("TRACERFY_URL"),
			TracerfyKey:       os.Getenv("TRACERFY_API_KEY"),
		},
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
