package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Verify    VerifyConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Providers ProviderConfig
	Events    EventsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration. Redis only backs the rate limiter and the
// public render cache, so the service runs without it when Enabled is false.
type RedisConfig struct {
	URL      string
	Password string
	Enabled  bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// VerifyConfig tunes the outbound calls made by the verifiers.
type VerifyConfig struct {
	DNSResolver   string
	DoHEndpoint   string
	DNSTimeout    time.Duration
	FetchTimeout  time.Duration
	UserAgent     string
	BioDefaultTTL time.Duration
	BioSweepEvery time.Duration
}

// RateLimitConfig holds the fixed-window limits applied per caller IP.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// CacheConfig holds the public rendering cache settings.
type CacheConfig struct {
	PublicTTL time.Duration
}

// ProviderConfig holds provider API base URLs.
type ProviderConfig struct {
	YouTubeAPIBase  string
	GraphAPIBase    string
	TikTokAPIBase   string
	LinkedInAPIBase string
	XAPIBase        string
	GitHubAPIBase   string
}

// EventsConfig holds the verification event stream settings. No brokers means events
// are dropped.
type EventsConfig struct {
	KafkaBrokers   []string
	Topic          string
	PublishTimeout time.Duration
}

const (
	minFetchTimeout = 2500 * time.Millisecond
	maxFetchTimeout = 8 * time.Second
)

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "aeobro"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
		},
		Verify: VerifyConfig{
			DNSResolver:   strings.ToLower(getEnv("VERIFY_DNS_RESOLVER", "chain")),
			DoHEndpoint:   getEnv("VERIFY_DOH_ENDPOINT", "https://cloudflare-dns.com/dns-query"),
			DNSTimeout:    getEnvAsDuration("VERIFY_DNS_TIMEOUT", 3*time.Second),
			FetchTimeout:  clampDuration(getEnvAsDuration("VERIFY_FETCH_TIMEOUT", 6*time.Second), minFetchTimeout, maxFetchTimeout),
			UserAgent:     getEnv("VERIFY_USER_AGENT", "AEOBRO-Verifier/1.0 (+https://aeobro.com/bot)"),
			BioDefaultTTL: getEnvAsDuration("VERIFY_BIO_DEFAULT_TTL", 24*time.Hour),
			BioSweepEvery: getEnvAsDuration("BIO_SWEEP_INTERVAL", 15*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 10),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Cache: CacheConfig{
			PublicTTL: getEnvAsDuration("PUBLIC_CACHE_TTL", 10*time.Minute),
		},
		Providers: ProviderConfig{
			YouTubeAPIBase:  getEnv("YOUTUBE_API_BASE", "https://www.googleapis.com/youtube/v3"),
			GraphAPIBase:    getEnv("GRAPH_API_BASE", "https://graph.facebook.com/v19.0"),
			TikTokAPIBase:   getEnv("TIKTOK_API_BASE", "https://open.tiktokapis.com/v2"),
			LinkedInAPIBase: getEnv("LINKEDIN_API_BASE", "https://api.linkedin.com/v2"),
			XAPIBase:        getEnv("X_API_BASE", "https://api.twitter.com/2"),
			GitHubAPIBase:   getEnv("GITHUB_API_BASE", "https://api.github.com"),
		},
		Events: EventsConfig{
			KafkaBrokers:   getEnvAsList("KAFKA_BROKERS"),
			Topic:          getEnv("KAFKA_VERIFICATION_TOPIC", "aeobro.verification.events"),
			PublishTimeout: getEnvAsDuration("KAFKA_PUBLISH_TIMEOUT", 2*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
