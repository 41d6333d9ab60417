package constants

import "time"

const (
	UsernameMinLength  = 3
	UsernameMaxLength  = 32
	PasswordMinLength  = 8
	PasswordMaxLength  = 72
	EmailMaxLength     = 254
	JWTSecretMinLength = 32

	QuestionMaxLength     = 2000
	HistoryDefaultLimit   = 10
	HistoryMaxLimit       = 100
	HistoryMinLimit       = 1
	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 90 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second
	MigrateTimeout  = 5 * time.Minute

	DefaultHTTPPort         = "8000"
	DefaultAPIPrefix        = "/api/v1"
	DefaultRequestTimeout   = 30 * time.Second
	DefaultAccessTokenTTL   = 30 * time.Minute
	DefaultBcryptCost       = 12
	DefaultGeminiModel      = "gemini-1.5-flash"
	DefaultGeminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultLLMHTTPTimeout   = 60 * time.Second
	DefaultCORSOrigins      = "http://localhost:3000"
	DefaultApplicationName  = "qa-llm"
	DefaultLogDirectoryName = "qa-llm"

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
