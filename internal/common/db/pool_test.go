package db

import (
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/constants"
)

func TestWithApplicationName_KeepsURLParams(t *testing.T) {
	cfg, err := pgxpool.ParseConfig("postgres://u:p@localhost:5432/app?search_path=qa&timezone=UTC")
	require.NoError(t, err)

	params := withApplicationName(cfg.ConnConfig.RuntimeParams)
	assert.Equal(t, "qa", params["search_path"])
	assert.Equal(t, "UTC", params["timezone"])
	assert.Equal(t, constants.DefaultApplicationName, params["application_name"])
}

func TestWithApplicationName_URLValueWins(t *testing.T) {
	cfg, err := pgxpool.ParseConfig("postgres://u:p@localhost:5432/app?application_name=worker")
	require.NoError(t, err)

	params := withApplicationName(cfg.ConnConfig.RuntimeParams)
	assert.Equal(t, "worker", params["application_name"])
}

func TestWithApplicationName_NilMap(t *testing.T) {
	params := withApplicationName(nil)
	assert.Equal(t, map[string]string{"application_name": constants.DefaultApplicationName}, params)
}
