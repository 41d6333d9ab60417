package repository

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/clock"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/crypto"
	commondb "github.com/AlibekovAA/qa-llm/backend/internal/common/db"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/logger"
	userdomain "github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
)

// Runs against a disposable database: TEST_DATABASE_URL=postgres://... go test ./internal/history/...
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, commondb.Migrate(ctx, url, "up"))
	pool, err := commondb.NewPool(ctx, logger.NewWithWriter(&bytes.Buffer{}, "test", "ERROR"), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func insertTestUser(t *testing.T, pool *pgxpool.Pool) userdomain.ID {
	t.Helper()
	id := uuid.NewString()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, username, password_hash) VALUES ($1, $2, $3, 'x')`,
		id, id+"@example.com", "u"+id[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = pool.Exec(ctx, `DELETE FROM qa_llm WHERE user_id = $1`, id)
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	})
	return userdomain.ID(id)
}

func TestPgRepository_AgainstDatabase(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	clk := clock.NewMockClock(time.Now().UTC().Truncate(time.Microsecond))
	repo := NewPgRepository(pool, crypto.NewUUIDGenerator(), clk)

	owner := insertTestUser(t, pool)
	other := insertTestUser(t, pool)

	legacyID := uuid.NewString()
	_, err := pool.Exec(ctx, `INSERT INTO qa_llm (id, user_id, question, answer, "timestamp") VALUES ($1, $2, NULL, NULL, NULL)`, legacyID, string(owner))
	require.NoError(t, err)

	orphanID := uuid.NewString()
	_, err = pool.Exec(ctx, `INSERT INTO qa_llm (id, question, answer, "timestamp") VALUES ($1, 'orphan', 'row', now())`, orphanID)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = pool.Exec(context.Background(), `DELETE FROM qa_llm WHERE id = $1`, orphanID) })

	for _, q := range []string{"q1", "q2", "q3"} {
		_, err := repo.Append(ctx, owner, q, "a-"+q)
		require.NoError(t, err)
	}
	_, err = repo.Append(ctx, other, "not mine", "x")
	require.NoError(t, err)

	page, err := repo.List(ctx, owner, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	require.Len(t, page.Items, 4)
	assert.Equal(t, []string{"q3", "q2", "q1", ""}, questions(page.Items))
	assert.Equal(t, legacyID, string(page.Items[3].ID))
	assert.Equal(t, "", page.Items[3].Answer)

	second, err := repo.List(ctx, owner, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, second.Total)
	assert.Equal(t, []string{"q1", ""}, questions(second.Items))

	theirs, err := repo.List(ctx, other, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, theirs.Total)
	assert.Equal(t, []string{"not mine"}, questions(theirs.Items))
}
