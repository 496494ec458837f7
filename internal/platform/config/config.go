// Package config builds runtime configuration from environment variables
// so main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures top-level service configuration.
type Server struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string
	APISecretHash string
	AuthDisabled  bool

	// DocTypesPath optionally overrides the built-in document type table
	// with a YAML file.
	DocTypesPath string

	RateLimitRPS   float64
	RateLimitBurst int

	PostgresDSN string
	Redis       RedisConfig

	KafkaBrokers []string
	AuditTopic   string

	Tesseract TesseractConfig
}

// RedisConfig configures the optional extraction cache.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// TesseractConfig configures the OCR engine adapter.
type TesseractConfig struct {
	Binary      string
	Language    string
	TessdataDir string
	PSM         int
	OEM         int
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:          envOr("VERIDOC_ADDR", ":8080"),
		LogLevel:      envOr("VERIDOC_LOG_LEVEL", "info"),
		JWTSigningKey: os.Getenv("VERIDOC_JWT_SIGNING_KEY"),
		APISecretHash: os.Getenv("VERIDOC_API_SECRET_HASH"),
		AuthDisabled:  os.Getenv("VERIDOC_AUTH_DISABLED") == "true",

		DocTypesPath: os.Getenv("VERIDOC_DOCTYPES_PATH"),

		RateLimitRPS:   envFloatOr("VERIDOC_RATE_LIMIT_RPS", 10),
		RateLimitBurst: envIntOr("VERIDOC_RATE_LIMIT_BURST", 20),

		PostgresDSN: os.Getenv("VERIDOC_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("VERIDOC_REDIS_URL"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			CacheTTL:     envDurationOr("VERIDOC_CACHE_TTL", 15*time.Minute),
		},

		KafkaBrokers: splitNonEmpty(os.Getenv("VERIDOC_KAFKA_BROKERS")),
		AuditTopic:   envOr("VERIDOC_AUDIT_TOPIC", "veridoc.audit"),

		Tesseract: TesseractConfig{
			Binary:      envOr("VERIDOC_TESSERACT_BIN", "tesseract"),
			Language:    envOr("VERIDOC_TESSERACT_LANG", "eng"),
			TessdataDir: os.Getenv("VERIDOC_TESSDATA_DIR"),
			PSM:         envIntOr("VERIDOC_TESSERACT_PSM", 0),
			OEM:         envIntOr("VERIDOC_TESSERACT_OEM", 0),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
