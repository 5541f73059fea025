package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// OrderFilter is bound from the query string of GET /v1/orders.
type OrderFilter struct {
	Date    string `form:"date"`   // YYYY-MM-DD in business time; empty = today
	Status  string `form:"status"` // created | assigned | in_progress | delivered | cancelled | all
	Type    string `form:"type"`   // delivery | walkin | clearbill | all
	RiderID string `form:"rider_id"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateOrderRequest struct {
	// CustomerID may be omitted only for a walk-in without a registered customer.
	CustomerID         *string         `json:"customer_id"          validate:"omitempty,uuid"`
	OrderType          string          `json:"order_type"           validate:"required,oneof=delivery walkin clearbill"`
	NumberOfBottles    int             `json:"number_of_bottles"    validate:"min=0"`
	CurrentOrderAmount decimal.Decimal `json:"current_order_amount"`
	Notes              *string         `json:"notes"`
}

type AssignRiderRequest struct {
	RiderID string `json:"rider_id" validate:"required,uuid"`
}

// SettleOrderRequest is shared by deliver (delivery orders) and complete
// (walk-in / clear-bill orders). PaymentAmount is signed: a refund to a
// payable customer is negative.
type SettleOrderRequest struct {
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash card bank_transfer jazzcash easypaisa naya_pay sadapay"`
	Notes         *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderResponse struct {
	ID                 string          `json:"id"`
	CustomerID         *string         `json:"customer_id"`
	CustomerName       *string         `json:"customer_name,omitempty"`
	RiderID            *string         `json:"rider_id"`
	RiderName          *string         `json:"rider_name,omitempty"`
	OrderType          string          `json:"order_type"`
	Status             string          `json:"status"`
	NumberOfBottles    int             `json:"number_of_bottles"`
	CurrentOrderAmount decimal.Decimal `json:"current_order_amount"`
	BalanceAtCreation  decimal.Decimal `json:"customer_balance_at_creation"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	PaymentStatus      *string         `json:"payment_status"`
	PaymentMethod      *string         `json:"payment_method"`
	Notes              *string         `json:"notes"`
	CreatedAt          string          `json:"created_at"`
	DeliveredAt        *string         `json:"delivered_at"`
}
