package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("JWT_SECRET must be at least 32 bytes")
	ErrInvalidTokenTTL    = errors.New("access token ttl must be positive")
	ErrInvalidTimeout     = errors.New("request timeout must be positive")
)

type APIConfig struct {
	HTTPPort       string
	APIPrefix      string
	DatabaseURL    string
	JWTSecret      string
	AccessTokenTTL time.Duration
	RequestTimeout time.Duration
	BcryptCost     int
	CORSOrigins    []string
	LLM            LLMConfig
}

type LLMConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	HTTPTimeout time.Duration
}

type MigrateConfig struct {
	DatabaseURL string
}

// LoadDotEnv preloads variables from a .env file when one is present.
// Variables already set in the environment win.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func LoadAPIConfig() (APIConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return APIConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return APIConfig{}, err
	}

	ttl := getDurationEnv("ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL)
	if minutes := getIntEnv("ACCESS_TOKEN_EXPIRE_MINUTES", 0); minutes > 0 {
		ttl = time.Duration(minutes) * time.Minute
	}
	if ttl <= 0 {
		return APIConfig{}, fmt.Errorf("%w: got %v", ErrInvalidTokenTTL, ttl)
	}

	requestTimeout := getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout)
	if requestTimeout <= 0 {
		return APIConfig{}, fmt.Errorf("%w: got %v", ErrInvalidTimeout, requestTimeout)
	}

	return APIConfig{
		HTTPPort:       getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		APIPrefix:      normalizePrefix(getEnv("API_PREFIX", constants.DefaultAPIPrefix)),
		DatabaseURL:    databaseURL(),
		JWTSecret:      jwtSecret,
		AccessTokenTTL: ttl,
		RequestTimeout: requestTimeout,
		BcryptCost:     getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", constants.DefaultCORSOrigins)),
		LLM: LLMConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", constants.DefaultGeminiModel),
			BaseURL:     getEnv("GEMINI_BASE_URL", constants.DefaultGeminiBaseURL),
			HTTPTimeout: getDurationEnv("LLM_HTTP_TIMEOUT", constants.DefaultLLMHTTPTimeout),
		},
	}, nil
}

func LoadMigrateConfig() MigrateConfig {
	return MigrateConfig{DatabaseURL: databaseURL()}
}

func databaseURL() string {
	if v, ok := os.LookupEnv("DATABASE_URL"); ok && v != "" {
		return v
	}

	u := url.URL{
		Scheme: "postgresql",
		User: url.UserPassword(
			getEnv("POSTGRES_USER", "postgres"),
			getEnv("POSTGRES_PASSWORD", "0000"),
		),
		Host: getEnv("POSTGRES_SERVER", "localhost") + ":" + getEnv("POSTGRES_PORT", "5432"),
		Path: "/" + getEnv("POSTGRES_DB", "qa_llm"),
	}
	return u.String()
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	prefix = strings.TrimRight(prefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
