package api

import "github.com/shopspring/decimal"

// LoginRequest is the payload for POST /api/v1/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GroupCreateRequest is the payload for POST /api/v1/groups.
type GroupCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ExpenseCreateRequest is the payload for POST /api/v1/groups/:id/expenses.
type ExpenseCreateRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PayerID     string          `json:"payerId"`
}
