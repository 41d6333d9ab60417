package repository

import (
	"context"
	"errors"
	"time"

	commondb "github.com/AlibekovAA/qa-llm/backend/internal/common/db"
	"github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

const (
	emailConstraint    = "users_email_key"
	usernameConstraint = "users_username_key"
)

type Repository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}

type PgRepository struct {
	pool commondb.Querier
}

func NewPgRepository(pool commondb.Querier) *PgRepository {
	return &PgRepository{pool: pool}
}

// Create relies on the UNIQUE constraints so concurrent registrations cannot both succeed.
func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (id, email, username, password_hash, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		string(user.ID),
		user.Email,
		user.Username,
		user.PasswordHash,
		user.IsActive,
	)

	err := row.Scan(&user.CreatedAt)
	if constraint, ok := commondb.UniqueViolation(err); ok {
		commondb.MeasureQueryDuration("create user", start)
		return domain.User{}, conflictFor(constraint)
	}
	if err := commondb.HandleExecError(err, "create user", start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return r.findOne(ctx, "find user by id", `WHERE id = $1`, string(id))
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, "find user by email", `WHERE email = $1`, domain.NormalizeEmail(email))
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, "find user by username", `WHERE username = $1`, username)
}

func (r *PgRepository) findOne(ctx context.Context, operation, where string, arg any) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, email, username, password_hash, is_active, created_at FROM users `+where,
		arg,
	)

	var (
		user domain.User
		id   string
	)
	err := row.Scan(&id, &user.Email, &user.Username, &user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err := commondb.HandleQueryError(err, ErrUserNotFound, operation, start); err != nil {
		return domain.User{}, err
	}
	user.ID = domain.ID(id)

	return user, nil
}

func conflictFor(constraint string) error {
	if constraint == usernameConstraint {
		return ErrUsernameAlreadyExists
	}
	return ErrEmailAlreadyExists
}
