package dto

import "github.com/shopspring/decimal"

type CreateCustomerRequest struct {
	Name     string  `json:"name"     validate:"required,min=2"`
	Phone    string  `json:"phone"    validate:"required,min=7"`
	Whatsapp *string `json:"whatsapp" validate:"omitempty,min=7"`
	Address  string  `json:"address"`
}

type UpdateCustomerRequest struct {
	Name     string  `json:"name"     validate:"required,min=2"`
	Phone    string  `json:"phone"    validate:"required,min=7"`
	Whatsapp *string `json:"whatsapp" validate:"omitempty,min=7"`
	Address  string  `json:"address"`
}

type CustomerResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Whatsapp       *string         `json:"whatsapp"`
	Address        string          `json:"address"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	// BalanceLabel: receivable | payable | clear — derived from sign only.
	BalanceLabel string `json:"balance_label"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
}

// BalanceResponse backs GET /v1/customers/:id/balance.
type BalanceResponse struct {
	CustomerID   string          `json:"customer_id"`
	Balance      decimal.Decimal `json:"balance"`
	BalanceLabel string          `json:"balance_label"`
}
