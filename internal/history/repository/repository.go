package repository

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/clock"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/constants"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/crypto"
	commondb "github.com/AlibekovAA/qa-llm/backend/internal/common/db"
	"github.com/AlibekovAA/qa-llm/backend/internal/history/domain"
	userdomain "github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
)

type Repository interface {
	Append(ctx context.Context, userID userdomain.ID, question, answer string) (domain.Entry, error)
	List(ctx context.Context, userID userdomain.ID, limit, offset int) (domain.Page, error)
}

type PgRepository struct {
	pool  commondb.Querier
	ids   crypto.IDGenerator
	clock clock.Clock
}

func NewPgRepository(pool commondb.Querier, ids crypto.IDGenerator, clk clock.Clock) *PgRepository {
	return &PgRepository{pool: pool, ids: ids, clock: clk}
}

func (r *PgRepository) Append(ctx context.Context, userID userdomain.ID, question, answer string) (domain.Entry, error) {
	id, err := r.ids.NewID()
	if err != nil {
		return domain.Entry{}, err
	}

	entry := domain.Entry{
		ID:        domain.ID(id),
		UserID:    userID,
		Question:  question,
		Answer:    answer,
		CreatedAt: r.clock.Now().UTC(),
	}

	start := time.Now()
	_, err = r.pool.Exec(
		ctx,
		`INSERT INTO qa_llm (id, user_id, question, answer, "timestamp") VALUES ($1, $2, $3, $4, $5)`,
		string(entry.ID),
		string(entry.UserID),
		entry.Question,
		entry.Answer,
		entry.CreatedAt,
	)
	if err := commondb.HandleExecError(err, "append history entry", start); err != nil {
		return domain.Entry{}, err
	}

	return entry, nil
}

// List returns one page of the user's entries, newest first, and the user's total.
// Rows without an owner never match. Page and total come from one snapshot.
func (r *PgRepository) List(ctx context.Context, userID userdomain.ID, limit, offset int) (domain.Page, error) {
	limit, offset = ClampPage(limit, offset)
	start := time.Now()

	var page domain.Page
	err := commondb.WithReadSnapshot(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(
			ctx,
			`SELECT id, COALESCE(question, ''), COALESCE(answer, ''), COALESCE("timestamp", to_timestamp(0))
			 FROM qa_llm
			 WHERE user_id = $1
			 ORDER BY "timestamp" DESC NULLS LAST, seq DESC
			 LIMIT $2 OFFSET $3`,
			string(userID),
			limit,
			offset,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		page.Items = make([]domain.Entry, 0, limit)
		for rows.Next() {
			var (
				entry domain.Entry
				id    string
			)
			if err := rows.Scan(&id, &entry.Question, &entry.Answer, &entry.CreatedAt); err != nil {
				return err
			}
			entry.ID = domain.ID(id)
			entry.UserID = userID
			page.Items = append(page.Items, entry)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		return tx.QueryRow(ctx, `SELECT COUNT(*) FROM qa_llm WHERE user_id = $1`, string(userID)).Scan(&page.Total)
	})
	if err := commondb.HandleExecError(err, "list history", start); err != nil {
		return domain.Page{}, err
	}

	return page, nil
}

// ClampPage bounds limit to [HistoryMinLimit, HistoryMaxLimit] and offset to >= 0.
func ClampPage(limit, offset int) (int, int) {
	if limit < constants.HistoryMinLimit {
		limit = constants.HistoryMinLimit
	}
	if limit > constants.HistoryMaxLimit {
		limit = constants.HistoryMaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
