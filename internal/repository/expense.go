// Package repository keeps expenses in a sqlite database
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chucky-1/expenses/internal/model"
)

var ExpenseNotFoundErr = errors.New("expense not found")

const migration = `CREATE TABLE IF NOT EXISTS expenses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	amount REAL NOT NULL,
	amount_usd REAL NOT NULL,
	date DATETIME NOT NULL
)`

type Expenses struct {
	db *sql.DB
}

// NewExpenses opens the database and runs the migration
func NewExpenses(path string) (*Expenses, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repository couldn't open sqlite database: %v", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("repository couldn't ping sqlite database: %v", err)
	}
	if _, err = db.Exec(migration); err != nil {
		return nil, fmt.Errorf("repository couldn't migrate sqlite database: %v", err)
	}
	return &Expenses{
		db: db,
	}, nil
}

func (e *Expenses) Close() error {
	return e.db.Close()
}

func (e *Expenses) Create(ctx context.Context, name string, amount, amountUSD float64, date time.Time) (*model.Expense, error) {
	result, err := e.db.ExecContext(ctx,
		"INSERT INTO expenses (name, amount, amount_usd, date) VALUES (?, ?, ?, ?)",
		name, amount, amountUSD, date)
	if err != nil {
		return nil, fmt.Errorf("repository couldn't insert expense: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("repository couldn't get last insert id: %v", err)
	}
	return e.GetByID(ctx, id)
}

func (e *Expenses) GetByID(ctx context.Context, id int64) (*model.Expense, error) {
	row := e.db.QueryRowContext(ctx,
		"SELECT id, name, amount, amount_usd, date FROM expenses WHERE id = ?", id)

	var exp model.Expense
	err := row.Scan(&exp.ID, &exp.Name, &exp.Amount, &exp.AmountUSD, &exp.Date)
	if err == sql.ErrNoRows {
		return nil, ExpenseNotFoundErr
	}
	if err != nil {
		return nil, fmt.Errorf("repository couldn't scan expense: %v", err)
	}
	return &exp, nil
}

// GetByRange returns expenses with start <= date <= end in insertion order.
// An empty result is not an error, the caller decides what empty means.
func (e *Expenses) GetByRange(ctx context.Context, start, end time.Time) ([]model.Expense, error) {
	rows, err := e.db.QueryContext(ctx,
		"SELECT id, name, amount, amount_usd, date FROM expenses WHERE date >= ? AND date <= ? ORDER BY id", start, end)
	if err != nil {
		return nil, fmt.Errorf("repository couldn't select expenses by range: %v", err)
	}
	return scanExpenses(rows)
}

func (e *Expenses) GetAll(ctx context.Context) ([]model.Expense, error) {
	rows, err := e.db.QueryContext(ctx,
		"SELECT id, name, amount, amount_usd, date FROM expenses ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("repository couldn't select all expenses: %v", err)
	}
	return scanExpenses(rows)
}

// Update changes name, amount and amount_usd. The date is immutable.
func (e *Expenses) Update(ctx context.Context, id int64, name string, amount, amountUSD float64) (*model.Expense, error) {
	result, err := e.db.ExecContext(ctx,
		"UPDATE expenses SET name = ?, amount = ?, amount_usd = ? WHERE id = ?",
		name, amount, amountUSD, id)
	if err != nil {
		return nil, fmt.Errorf("repository couldn't update expense: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("repository couldn't get affected rows: %v", err)
	}
	if affected == 0 {
		return nil, ExpenseNotFoundErr
	}
	return e.GetByID(ctx, id)
}

func (e *Expenses) Delete(ctx context.Context, id int64) error {
	result, err := e.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("repository couldn't delete expense: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository couldn't get affected rows: %v", err)
	}
	if affected == 0 {
		return ExpenseNotFoundErr
	}
	return nil
}

func scanExpenses(rows *sql.Rows) ([]model.Expense, error) {
	defer rows.Close()

	expenses := make([]model.Expense, 0)
	for rows.Next() {
		var exp model.Expense
		if err := rows.Scan(&exp.ID, &exp.Name, &exp.Amount, &exp.AmountUSD, &exp.Date); err != nil {
			return nil, fmt.Errorf("repository couldn't scan expense: %v", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository rows error: %v", err)
	}
	return expenses, nil
}
