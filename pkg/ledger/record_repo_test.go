package ledger

import (
	"context"
	"testing"

	"github.com/finbook/finbook/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRepo_CreateAndLoad(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRecordRepo(db)
	ctx := context.Background()

	record := NewUserRecord("Test", "Password1!")
	m := NewMonthLedger()
	m.Income = append(m.Income, IncomeEntry{Title: "Salary", Amount: 50000})
	m.Expenses = append(m.Expenses,
		ExpenseEntry{Title: "Rent", Amount: 15000, Priority: PriorityHigh},
		ExpenseEntry{Title: "Snacks", Amount: 200, Priority: PriorityLow},
	)
	m.Events = append(m.Events, EventEntry{Name: "Concert", Date: "2025-03-22", Budget: 800, Priority: PriorityMedium})
	m.Goals = append(m.Goals, GoalEntry{Name: "Vacation", Deadline: "2025-03-30", Target: 5000, Priority: PriorityMedium, Progress: 250})
	record.SetMonth("2025-03", m)

	require.NoError(t, repo.Create(ctx, "test@example.com", "uid-1", record))

	loaded, err := repo.Load(ctx, "test@example.com")

	require.NoError(t, err)
	assert.Equal(t, record.Username, loaded.Username)
	assert.Equal(t, record.Password, loaded.Password)
	loadedMonth := loaded.Months["2025-03"]
	assert.Equal(t, m.Income, loadedMonth.Income)
	assert.Equal(t, m.Expenses, loadedMonth.Expenses)
	assert.Equal(t, m.Events, loadedMonth.Events)
	assert.Equal(t, m.Goals, loadedMonth.Goals)
}

func TestRecordRepo_LoadUnknownUser(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRecordRepo(db)

	_, err := repo.Load(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordRepo_CreateDuplicate(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRecordRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "test@example.com", "uid-1", NewUserRecord("Test", "Password1!")))

	err := repo.Create(ctx, "test@example.com", "uid-2", NewUserRecord("Other", "Password2!"))

	assert.ErrorIs(t, err, ErrRecordExists)
}

func TestRecordRepo_SaveUnknownUser(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRecordRepo(db)

	err := repo.Save(context.Background(), "nobody@example.com", NewUserRecord("T", "p"))

	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordRepo_SaveReplacesDocument(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRecordRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "test@example.com", "uid-1", NewUserRecord("Test", "Password1!")))

	record, err := repo.Load(ctx, "test@example.com")
	require.NoError(t, err)
	m := record.Month("2025-03")
	m.Income = append(m.Income, IncomeEntry{Title: "Salary", Amount: 100})
	record.SetMonth("2025-03", m)
	require.NoError(t, repo.Save(ctx, "test@example.com", record))

	reloaded, err := repo.Load(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Len(t, reloaded.Months["2025-03"].Income, 1)
}

func TestRecordRepo_CorruptedDocumentLoadsAsEmpty(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRecordRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "test@example.com", "uid-1", NewUserRecord("Test", "Password1!")))
	_, err := db.Exec("UPDATE user_record SET record = '{not json' WHERE email = ?", "test@example.com")
	require.NoError(t, err)

	loaded, err := repo.Load(ctx, "test@example.com")

	require.NoError(t, err)
	assert.Empty(t, loaded.Username)
	assert.Empty(t, loaded.Months)
}

func TestRecordRepo_Meta(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRecordRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "test@example.com", "uid-1", NewUserRecord("Test", "Password1!")))

	meta, err := repo.Meta(ctx, "test@example.com")

	require.NoError(t, err)
	assert.Equal(t, "uid-1", meta.Uid)
	assert.False(t, meta.CreatedAt.IsZero())
}
