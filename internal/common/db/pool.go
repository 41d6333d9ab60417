package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/constants"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/logger"
)

// NewPool connects with a bounded number of startup attempts. Queries are never retried.
func NewPool(ctx context.Context, log *logger.Logger, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	cfg.MaxConns = constants.DBPoolMaxConns
	cfg.MinConns = constants.DBPoolMinConns
	cfg.MaxConnLifetime = constants.DBPoolConnMaxLifetime
	cfg.MaxConnIdleTime = constants.DBPoolConnMaxIdleTime
	cfg.HealthCheckPeriod = constants.DBPoolHealthCheck
	cfg.ConnConfig.ConnectTimeout = constants.DBPoolConnectTimeout
	cfg.ConnConfig.RuntimeParams = withApplicationName(cfg.ConnConfig.RuntimeParams)

	var lastErr error
	for attempt := 1; attempt <= constants.DBPoolMaxAttempts; attempt++ {
		pool, err := pgxpool.ConnectConfig(ctx, cfg)
		if err == nil {
			log.WithFields(ctx, logger.Fields{
				"action":    "db_pool_ready",
				"max_conns": cfg.MaxConns,
				"min_conns": cfg.MinConns,
			}).Info("database connection pool initialized")
			StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)
			return pool, nil
		}
		lastErr = err

		log.Warnf("failed to connect to database (attempt %d/%d): %v", attempt, constants.DBPoolMaxAttempts, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(constants.DBPoolRetryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", constants.DBPoolMaxAttempts, lastErr)
}

// withApplicationName tags connections unless the URL already names the application.
func withApplicationName(params map[string]string) map[string]string {
	if params == nil {
		params = make(map[string]string, 1)
	}
	if _, ok := params["application_name"]; !ok {
		params["application_name"] = constants.DefaultApplicationName
	}
	return params
}
