package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/pashagolub/pgxmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
)

const (
	insertUserQuery = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*email,\s*username,\s*password_hash,\s*is_active\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+created_at$`
	selectUserQuery = `(?s)^SELECT\s+id,\s*email,\s*username,\s*password_hash,\s*is_active,\s*created_at\s+FROM\s+users\s+WHERE\s+`
)

var (
	createdAt = time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	userCols  = []string{"id", "email", "username", "password_hash", "is_active", "created_at"}
	newUser   = domain.User{
		ID:           "u-1",
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: "hash",
		IsActive:     true,
	}
)

func newPgRepoWithMock(t *testing.T) (*PgRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPgRepository(mock), mock
}

func expectInsert(mock pgxmock.PgxPoolIface) *pgxmock.ExpectedQuery {
	return mock.ExpectQuery(insertUserQuery).
		WithArgs("u-1", "alice@example.com", "alice", "hash", true)
}

func TestPgCreate_Success(t *testing.T) {
	repo, mock := newPgRepoWithMock(t)

	expectInsert(mock).WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	got, err := repo.Create(context.Background(), newUser)
	require.NoError(t, err)
	assert.Equal(t, domain.ID("u-1"), got.ID)
	assert.True(t, got.CreatedAt.Equal(createdAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgCreate_UniqueViolationByConstraint(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"username taken", "users_username_key", ErrUsernameAlreadyExists},
		{"email taken", "users_email_key", ErrEmailAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newPgRepoWithMock(t)

			expectInsert(mock).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			_, err := repo.Create(context.Background(), newUser)
			assert.ErrorIs(t, err, tt.want)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPgCreate_OtherDriverErrorIsWrapped(t *testing.T) {
	repo, mock := newPgRepoWithMock(t)

	expectInsert(mock).WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), newUser)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Contains(t, err.Error(), "failed to create user")
}

func TestPgFindByEmail_NormalizesArgument(t *testing.T) {
	repo, mock := newPgRepoWithMock(t)

	mock.ExpectQuery(selectUserQuery + `email\s*=\s*\$1$`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u-1", "alice@example.com", "alice", "hash", true, createdAt))

	got, err := repo.FindByEmail(context.Background(), "  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, domain.ID("u-1"), got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, got.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgFindByID_NotFound(t *testing.T) {
	repo, mock := newPgRepoWithMock(t)

	mock.ExpectQuery(selectUserQuery + `id\s*=\s*\$1$`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgFindByUsername_DBError(t *testing.T) {
	repo, mock := newPgRepoWithMock(t)

	mock.ExpectQuery(selectUserQuery + `username\s*=\s*\$1$`).
		WithArgs("alice").
		WillReturnError(errors.New("db down"))

	_, err := repo.FindByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	assert.Contains(t, err.Error(), "failed to find user by username")
}
