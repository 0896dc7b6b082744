// Package service contains the business operations behind the expense API
package service

import (
	"context"
	"time"

	"github.com/chucky-1/expenses/internal/model"
	"github.com/chucky-1/expenses/internal/repository"
)

// Expenses glues the store and the currency converter together.
// The USD amount is always computed from the current rate, both on create
// and on update. It is never carried over from the previous record state.
type Expenses struct {
	repo      *repository.Expenses
	converter Converter
}

func NewExpenses(repo *repository.Expenses, converter Converter) *Expenses {
	return &Expenses{
		repo:      repo,
		converter: converter,
	}
}

func (e *Expenses) Create(ctx context.Context, name string, amount float64, date time.Time) (*model.Expense, error) {
	amountUSD, err := e.converter.Convert(ctx, amount)
	if err != nil {
		return nil, err
	}
	return e.repo.Create(ctx, name, amount, amountUSD, date)
}

func (e *Expenses) Update(ctx context.Context, id int64, name string, amount float64) (*model.Expense, error) {
	amountUSD, err := e.converter.Convert(ctx, amount)
	if err != nil {
		return nil, err
	}
	return e.repo.Update(ctx, id, name, amount, amountUSD)
}

func (e *Expenses) GetByID(ctx context.Context, id int64) (*model.Expense, error) {
	return e.repo.GetByID(ctx, id)
}

func (e *Expenses) GetByRange(ctx context.Context, start, end time.Time) ([]model.Expense, error) {
	return e.repo.GetByRange(ctx, start, end)
}

func (e *Expenses) GetAll(ctx context.Context) ([]model.Expense, error) {
	return e.repo.GetAll(ctx)
}

func (e *Expenses) Delete(ctx context.Context, id int64) error {
	return e.repo.Delete(ctx, id)
}
