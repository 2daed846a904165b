package user

import (
	"context"
	"testing"
	"time"

	"github.com/finbook/finbook/internal/test_utils"
	"github.com/finbook/finbook/pkg/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*RecentMonthsRepoImpl, context.Context) {
	t.Helper()
	db := test_utils.SetupTestDB(t)
	records := ledger.NewRecordRepo(db)
	ctx := context.Background()
	require.NoError(t, records.Create(ctx, "a@b.co", "uid-1", ledger.NewUserRecord("Tester", "Password1!")))
	return NewRecentMonthsRepo(db), ctx
}

func TestRecentMonthsRepo_AddAndList(t *testing.T) {
	repo, ctx := setupRepo(t)
	base := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Add(ctx, "a@b.co", "2025-02", base))
	require.NoError(t, repo.Add(ctx, "a@b.co", "2025-03", base.Add(time.Hour)))
	require.NoError(t, repo.Add(ctx, "a@b.co", "2025-01", base.Add(2*time.Hour)))

	months, err := repo.List(ctx, "a@b.co")

	require.NoError(t, err)
	assert.Equal(t, []ledger.MonthKey{"2025-02", "2025-03", "2025-01"}, months)
}

func TestRecentMonthsRepo_AddIsIdempotentPerMonth(t *testing.T) {
	repo, ctx := setupRepo(t)
	base := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Add(ctx, "a@b.co", "2025-03", base))
	require.NoError(t, repo.Add(ctx, "a@b.co", "2025-03", base.Add(time.Hour)))

	months, err := repo.List(ctx, "a@b.co")

	require.NoError(t, err)
	assert.Equal(t, []ledger.MonthKey{"2025-03"}, months)
}

func TestRecentMonthsRepo_TrimKeepsNewest(t *testing.T) {
	repo, ctx := setupRepo(t)
	base := time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)

	for i, month := range []ledger.MonthKey{"2025-01", "2025-02", "2025-03", "2025-04"} {
		require.NoError(t, repo.Add(ctx, "a@b.co", month, base.Add(time.Duration(i)*time.Hour)))
	}

	require.NoError(t, repo.Trim(ctx, "a@b.co", 2))

	months, err := repo.List(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, []ledger.MonthKey{"2025-03", "2025-04"}, months)
}

func TestRecentMonthsRepo_ListUnknownUser(t *testing.T) {
	repo, ctx := setupRepo(t)

	months, err := repo.List(ctx, "nobody@b.co")

	require.NoError(t, err)
	assert.Empty(t, months)
}
