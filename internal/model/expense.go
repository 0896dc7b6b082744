package model

import "time"

// DateLayout is the date format users type and the API accepts in paths and bodies
const DateLayout = "02.01.2006"

// Expense is one record of expenses
type Expense struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	AmountUSD float64   `json:"amount_usd"`
	Date      time.Time `json:"date"`
}

type CreateExpenseRequest struct {
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Date   string  `json:"date" validate:"required"`
}

type UpdateExpenseRequest struct {
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type CreateExpenseResponse struct {
	Message string  `json:"message"`
	Expense Expense `json:"expense"`
}

type UpdateExpenseResponse struct {
	Message string  `json:"message"`
	Expense Expense `json:"updated_expense"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
