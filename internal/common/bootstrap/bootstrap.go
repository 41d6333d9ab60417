package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/qa-llm/backend/internal/auth/http"
	authservice "github.com/AlibekovAA/qa-llm/backend/internal/auth/service"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/clock"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/config"
	commoncrypto "github.com/AlibekovAA/qa-llm/backend/internal/common/crypto"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/db"
	commonhttp "github.com/AlibekovAA/qa-llm/backend/internal/common/http"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/logger"
	historyrepo "github.com/AlibekovAA/qa-llm/backend/internal/history/repository"
	"github.com/AlibekovAA/qa-llm/backend/internal/llm"
	"github.com/AlibekovAA/qa-llm/backend/internal/llm/gemini"
	qahttp "github.com/AlibekovAA/qa-llm/backend/internal/qa/http"
	qaservice "github.com/AlibekovAA/qa-llm/backend/internal/qa/service"
	userrepo "github.com/AlibekovAA/qa-llm/backend/internal/user/repository"
)

type Deps struct {
	Config  config.APIConfig
	Log     *logger.Logger
	Users   userrepo.Repository
	History historyrepo.Repository
	Gateway llm.Gateway
	Hasher  commoncrypto.PasswordHasher
	IDs     commoncrypto.IDGenerator
	Clock   clock.Clock
}

type App struct {
	Log     *logger.Logger
	Config  config.APIConfig
	Pool    *pgxpool.Pool
	Handler http.Handler
}

// NewHandler wires services and routes around the given stores and gateway.
// Every data route sits behind the auth middleware.
func NewHandler(d Deps) http.Handler {
	prefix := d.Config.APIPrefix
	tokens := authservice.NewTokenIssuer(d.Config.JWTSecret, d.Config.AccessTokenTTL)
	requireAuth := jwtverify.Middleware(tokens, d.Users, d.Clock, d.Log)

	authService := authservice.NewAuthService(d.Users, d.Hasher, d.IDs, tokens, d.Clock, d.Log)
	qaService := qaservice.NewService(d.Gateway, d.History, d.Clock, d.Log)

	mux := http.NewServeMux()
	health := commonhttp.HealthHandler(d.Log)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == prefix || r.URL.Path == prefix+"/" {
			health(w, r)
			return
		}
		commonhttp.NotFoundHandler(w, r)
	})
	mux.HandleFunc("/health", health)
	mux.Handle("/metrics", promhttp.Handler())

	authhttp.Register(mux, prefix, authService, requireAuth, d.Config.RequestTimeout, d.Log)
	qahttp.Register(mux, prefix, qaService, requireAuth, d.Config.RequestTimeout, d.Log)

	return commonhttp.BuildBaseHandler(d.Log, d.Config.CORSOrigins, mux)
}

func NewApp(ctx context.Context) (*App, error) {
	config.LoadDotEnv()

	log, err := initializeLogger("api")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; /ask will fail until it is configured")
	}

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	clk := clock.NewRealClock()
	ids := commoncrypto.NewUUIDGenerator()

	handler := NewHandler(Deps{
		Config:  cfg,
		Log:     log,
		Users:   userrepo.NewPgRepository(pool),
		History: historyrepo.NewPgRepository(pool, ids, clk),
		Gateway: gemini.New(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.HTTPTimeout),
		Hasher:  commoncrypto.NewBcryptHasher(cfg.BcryptCost),
		IDs:     ids,
		Clock:   clk,
	})

	return &App{
		Log:     log,
		Config:  cfg,
		Pool:    pool,
		Handler: handler,
	}, nil
}

func initializeLogger(serviceName string) (*logger.Logger, error) {
	return logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
}
