package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Expenses {
	t.Helper()
	repo, err := NewExpenses(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func date(day, month, year int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestExpenses_CreateAndGetByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Coffee", 50.0, 1.2, date(1, 6, 2025))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Coffee", got.Name)
	require.Equal(t, 50.0, got.Amount)
	require.Equal(t, 1.2, got.AmountUSD)
	require.True(t, got.Date.Equal(date(1, 6, 2025)))
}

func TestExpenses_GetByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ExpenseNotFoundErr)
}

func TestExpenses_GetByRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "before", 1, 1, date(31, 12, 2024))
	require.NoError(t, err)
	_, err = repo.Create(ctx, "start", 2, 2, date(1, 1, 2025))
	require.NoError(t, err)
	_, err = repo.Create(ctx, "middle", 3, 3, date(15, 1, 2025))
	require.NoError(t, err)
	_, err = repo.Create(ctx, "end", 4, 4, date(31, 1, 2025))
	require.NoError(t, err)
	_, err = repo.Create(ctx, "after", 5, 5, date(1, 2, 2025))
	require.NoError(t, err)

	expenses, err := repo.GetByRange(ctx, date(1, 1, 2025), date(31, 1, 2025))
	require.NoError(t, err)
	require.Len(t, expenses, 3)

	// bounds are inclusive and order follows insertion
	require.Equal(t, "start", expenses[0].Name)
	require.Equal(t, "middle", expenses[1].Name)
	require.Equal(t, "end", expenses[2].Name)
}

func TestExpenses_GetByRange_Empty(t *testing.T) {
	repo := newTestRepo(t)

	expenses, err := repo.GetByRange(context.Background(), date(1, 1, 2025), date(31, 1, 2025))
	require.NoError(t, err)
	require.Empty(t, expenses)
}

func TestExpenses_GetAll_Order(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	names := []string{"first", "second", "third"}
	for _, name := range names {
		_, err := repo.Create(ctx, name, 1, 1, date(1, 6, 2025))
		require.NoError(t, err)
	}

	expenses, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	for i, name := range names {
		require.Equal(t, name, expenses[i].Name)
	}
}

func TestExpenses_Update(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Coffee", 50.0, 1.2, date(1, 6, 2025))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, "Tea", 30.0, 0.7)
	require.NoError(t, err)
	require.Equal(t, "Tea", updated.Name)
	require.Equal(t, 30.0, updated.Amount)
	require.Equal(t, 0.7, updated.AmountUSD)
	// the date never changes on update
	require.True(t, updated.Date.Equal(created.Date))
}

func TestExpenses_Update_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Update(context.Background(), 42, "Tea", 30.0, 0.7)
	require.ErrorIs(t, err, ExpenseNotFoundErr)
}

func TestExpenses_Delete_Twice(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Coffee", 50.0, 1.2, date(1, 6, 2025))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.ErrorIs(t, repo.Delete(ctx, created.ID), ExpenseNotFoundErr)
}
