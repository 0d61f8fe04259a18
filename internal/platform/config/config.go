package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backends selectable for session and draft storage.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Server captures everything cmd/server needs to wire the application.
type Server struct {
	Addr      string
	LogLevel  string
	LogFormat string

	SessionBackend string
	SessionTTL     time.Duration
	Redis          RedisConfig

	DraftBackend     string
	PostgresDSN      string
	DraftBucket      string
	DraftPrefix      string
	DocumentsBucket  string
	S3               S3Config
	ShutdownTimeout  time.Duration
	TokenSigningKey  string
	SessionCookie    string
	SecureCookies    bool
	CRM              CRMConfig
	SpeciesBaseURL   string
	AddressBaseURL   string
	AddressAPIKey    string
	PaymentBaseURL   string
	PaymentAPIKey    string
	PaymentReturnURL string

	KafkaBrokers []string
	KafkaTopic   string
}

// RedisConfig configures the go-redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// S3Config configures the AWS client shared by the draft and document stores.
// Endpoint and static keys are for S3-compatible stores such as MinIO.
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// CRMConfig holds the Dynamics Web API location and client credentials.
type CRMConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Timeout      time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:      getEnv("CITES_ADDR", ":8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		SessionBackend: getEnv("SESSION_BACKEND", BackendMemory),
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},

		DraftBackend:     getEnv("DRAFT_BACKEND", BackendMemory),
		PostgresDSN:      os.Getenv("DATABASE_URL"),
		DraftBucket:      os.Getenv("DRAFT_BUCKET"),
		DraftPrefix:      getEnv("DRAFT_PREFIX", "drafts/"),
		DocumentsBucket:  os.Getenv("DOCUMENTS_BUCKET"),
		TokenSigningKey:  os.Getenv("TOKEN_SIGNING_KEY"),
		SessionCookie:    getEnv("SESSION_COOKIE", "cites_session"),
		SecureCookies:    getEnv("SECURE_COOKIES", "true") == "true",
		SpeciesBaseURL:   os.Getenv("SPECIES_API_URL"),
		AddressBaseURL:   os.Getenv("ADDRESS_API_URL"),
		AddressAPIKey:    os.Getenv("ADDRESS_API_KEY"),
		PaymentBaseURL:   os.Getenv("PAYMENT_API_URL"),
		PaymentAPIKey:    os.Getenv("PAYMENT_API_KEY"),
		PaymentReturnURL: os.Getenv("PAYMENT_RETURN_URL"),

		S3: S3Config{
			Region:          getEnv("S3_REGION", "eu-west-2"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			PathStyle:       os.Getenv("S3_PATH_STYLE") == "true",
		},
		CRM: CRMConfig{
			BaseURL:      os.Getenv("CRM_BASE_URL"),
			TokenURL:     os.Getenv("CRM_TOKEN_URL"),
			ClientID:     os.Getenv("CRM_CLIENT_ID"),
			ClientSecret: os.Getenv("CRM_CLIENT_SECRET"),
			Scopes:       splitList(os.Getenv("CRM_SCOPES")),
		},
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "cites.submission-events"),
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 30*time.Minute); err != nil {
		return Server{}, err
	}
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.CRM.Timeout, err = durationEnv("CRM_TIMEOUT", 15*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.PoolSize, err = intEnv("REDIS_POOL_SIZE", 10); err != nil {
		return Server{}, err
	}
	if cfg.Redis.MinIdleConns, err = intEnv("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return Server{}, err
	}
	if cfg.Redis.DialTimeout, err = durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.ReadTimeout, err = durationEnv("REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.WriteTimeout, err = durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}

	if cfg.TokenSigningKey == "" {
		// Use a default for development - should be overridden in production
		cfg.TokenSigningKey = "dev-secret-key-change-in-production"
	}
	return cfg, cfg.validate()
}

func (c Server) validate() error {
	switch c.SessionBackend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("SESSION_BACKEND=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	switch c.DraftBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("DRAFT_BACKEND=postgres requires DATABASE_URL")
		}
	case BackendS3:
		if c.DraftBucket == "" {
			return fmt.Errorf("DRAFT_BACKEND=s3 requires DRAFT_BUCKET")
		}
	default:
		return fmt.Errorf("unknown DRAFT_BACKEND %q", c.DraftBackend)
	}
	return nil
}

// UsesS3 reports whether any store needs an S3 client.
func (c Server) UsesS3() bool {
	return c.DraftBackend == BackendS3 || c.DocumentsBucket != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
