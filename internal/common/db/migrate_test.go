package db

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/migrations"
)

func TestMigrate_UnknownCommand(t *testing.T) {
	err := Migrate(context.Background(), "postgres://localhost/none", "drop-everything")
	assert.ErrorIs(t, err, ErrUnknownMigrateCommand)
}

func TestMigrate_RunsGooseWithEmbeddedDir(t *testing.T) {
	orig := gooseRun
	t.Cleanup(func() { gooseRun = orig })

	var gotCommand, gotDir string
	gooseRun = func(_ context.Context, command string, _ *sql.DB, dir string) error {
		gotCommand, gotDir = command, dir
		return nil
	}

	require.NoError(t, Migrate(context.Background(), "postgres://u:p@localhost:5432/db", "up"))
	assert.Equal(t, "up", gotCommand)
	assert.Equal(t, ".", gotDir)
}

func TestMigrate_WrapsGooseError(t *testing.T) {
	orig := gooseRun
	t.Cleanup(func() { gooseRun = orig })

	cause := errors.New("no such table")
	gooseRun = func(context.Context, string, *sql.DB, string) error { return cause }

	err := Migrate(context.Background(), "postgres://u:p@localhost:5432/db", "status")
	assert.ErrorIs(t, err, cause)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	names, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_create_users.sql", "00002_create_qa_llm.sql"}, names)
}
