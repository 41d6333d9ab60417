package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/clock"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/crypto"
	"github.com/AlibekovAA/qa-llm/backend/internal/history/domain"
	userdomain "github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
)

type memoryRow struct {
	entry domain.Entry
	seq   int64
}

// MemoryRepository keeps entries in process with the same ordering and paging rules as PgRepository.
type MemoryRepository struct {
	mu    sync.RWMutex
	rows  []memoryRow
	seq   int64
	ids   crypto.IDGenerator
	clock clock.Clock
}

func NewMemoryRepository(ids crypto.IDGenerator, clk clock.Clock) *MemoryRepository {
	return &MemoryRepository{ids: ids, clock: clk}
}

func (r *MemoryRepository) Append(_ context.Context, userID userdomain.ID, question, answer string) (domain.Entry, error) {
	id, err := r.ids.NewID()
	if err != nil {
		return domain.Entry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	entry := domain.Entry{
		ID:        domain.ID(id),
		UserID:    userID,
		Question:  question,
		Answer:    answer,
		CreatedAt: r.clock.Now().UTC(),
	}
	r.rows = append(r.rows, memoryRow{entry: entry, seq: r.seq})
	return entry, nil
}

func (r *MemoryRepository) List(_ context.Context, userID userdomain.ID, limit, offset int) (domain.Page, error) {
	limit, offset = ClampPage(limit, offset)

	r.mu.RLock()
	owned := make([]memoryRow, 0, len(r.rows))
	for _, row := range r.rows {
		if userID != "" && row.entry.UserID == userID {
			owned = append(owned, row)
		}
	}
	r.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		a, b := owned[i], owned[j]
		if !a.entry.CreatedAt.Equal(b.entry.CreatedAt) {
			return a.entry.CreatedAt.After(b.entry.CreatedAt)
		}
		return a.seq > b.seq
	})

	page := domain.Page{Items: []domain.Entry{}, Total: len(owned)}
	if offset >= len(owned) {
		return page, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	for _, row := range owned[offset:end] {
		page.Items = append(page.Items, row.entry)
	}
	return page, nil
}

// AppendOrphan stores a row with no owner, the shape of entries written before accounts existed.
func (r *MemoryRepository) AppendOrphan(question, answer string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.rows = append(r.rows, memoryRow{
		entry: domain.Entry{ID: domain.ID("legacy"), Question: question, Answer: answer, CreatedAt: r.clock.Now().UTC()},
		seq:   r.seq,
	})
}
