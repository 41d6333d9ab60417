package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/clock"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/crypto"
	"github.com/AlibekovAA/qa-llm/backend/internal/history/domain"
	userdomain "github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
)

func newRepo() (*MemoryRepository, *clock.MockClock) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	return NewMemoryRepository(crypto.NewUUIDGenerator(), clk), clk
}

func questions(items []domain.Entry) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Question)
	}
	return out
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{limit: 10, offset: 0, wantLimit: 10, wantOffset: 0},
		{limit: 0, offset: -5, wantLimit: 1, wantOffset: 0},
		{limit: 500, offset: 7, wantLimit: 100, wantOffset: 7},
		{limit: 1, offset: 1, wantLimit: 1, wantOffset: 1},
	}
	for _, tc := range cases {
		l, o := ClampPage(tc.limit, tc.offset)
		assert.Equal(t, tc.wantLimit, l)
		assert.Equal(t, tc.wantOffset, o)
	}
}

func TestList_IsolatesUsersAndCountsAll(t *testing.T) {
	ctx := context.Background()
	repo, clk := newRepo()

	for i := 0; i < 5; i++ {
		_, err := repo.Append(ctx, "user-a", fmt.Sprintf("a%d", i), "ans")
		require.NoError(t, err)
		clk.Advance(time.Second)
	}
	for i := 0; i < 3; i++ {
		_, err := repo.Append(ctx, "user-b", fmt.Sprintf("b%d", i), "ans")
		require.NoError(t, err)
	}
	repo.AppendOrphan("legacy", "row")

	page, err := repo.List(ctx, "user-a", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Items, 2)
	for _, it := range page.Items {
		assert.Equal(t, userdomain.ID("user-a"), it.UserID)
	}

	page, err = repo.List(ctx, "user-b", 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, []string{"b2", "b1", "b0"}, questions(page.Items))
}

func TestList_PagesPartitionWithoutGapOrOverlap(t *testing.T) {
	ctx := context.Background()
	repo, clk := newRepo()

	for i := 0; i < 6; i++ {
		_, err := repo.Append(ctx, "u", fmt.Sprintf("q%d", i), "a")
		require.NoError(t, err)
		clk.Advance(time.Minute)
	}

	first, err := repo.List(ctx, "u", 2, 0)
	require.NoError(t, err)
	second, err := repo.List(ctx, "u", 2, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"q5", "q4"}, questions(first.Items))
	assert.Equal(t, []string{"q3", "q2"}, questions(second.Items))
}

func TestList_TiesBrokenByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	for _, q := range []string{"first", "second", "third"} {
		_, err := repo.Append(ctx, "u", q, "a")
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, "u", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, questions(page.Items))
}

func TestList_OffsetPastEnd(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	_, err := repo.Append(ctx, "u", "q", "a")
	require.NoError(t, err)

	page, err := repo.List(ctx, "u", 10, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}
