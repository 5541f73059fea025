package dto

import "github.com/shopspring/decimal"

// SaveClosingRequest closes one business date. Date empty = today.
type SaveClosingRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type RiderCollectionResponse struct {
	RiderID    string          `json:"rider_id"`
	RiderName  string          `json:"rider_name"`
	Collected  decimal.Decimal `json:"collected"`
	OrderCount int             `json:"order_count"`
}

type MethodTotalResponse struct {
	Method     string          `json:"method"`
	Collected  decimal.Decimal `json:"collected"`
	OrderCount int             `json:"order_count"`
}

// ClosingSummaryResponse is the read-only preview returned by
// GET /v1/closings/summary. CanClose is false while any order of the date is
// still in a non-terminal status; Save refuses in that state.
type ClosingSummaryResponse struct {
	Date          string `json:"date"` // YYYY-MM-DD
	CanClose      bool   `json:"can_close"`
	OpenOrders    int    `json:"open_orders"`
	AlreadyExists bool   `json:"already_exists"`

	TotalOrders             int             `json:"total_orders"`
	TotalBottles            int             `json:"total_bottles"`
	TotalCurrentOrderAmount decimal.Decimal `json:"total_current_order_amount"`
	TotalPaidAmount         decimal.Decimal `json:"total_paid_amount"`
	BalanceClearedToday     decimal.Decimal `json:"balance_cleared_today"`
	// Movement: "udhaar" when BalanceClearedToday > 0, "recovery" when < 0.
	Movement string `json:"movement"`

	WalkInAmount    decimal.Decimal `json:"walk_in_amount"`
	ClearBillAmount decimal.Decimal `json:"clear_bill_amount"`

	CustomerReceivable decimal.Decimal `json:"customer_receivable"`
	CustomerPayable    decimal.Decimal `json:"customer_payable"`

	RiderCollections []RiderCollectionResponse `json:"rider_collections"`
	PaymentMethods   []MethodTotalResponse     `json:"payment_methods"`
}

// ClosingResponse is a persisted daily closing record.
type ClosingResponse struct {
	ID                      string                    `json:"id"`
	Date                    string                    `json:"date"`
	CustomerReceivable      decimal.Decimal           `json:"customer_receivable"`
	CustomerPayable         decimal.Decimal           `json:"customer_payable"`
	TotalOrders             int                       `json:"total_orders"`
	TotalBottles            int                       `json:"total_bottles"`
	TotalCurrentOrderAmount decimal.Decimal           `json:"total_current_order_amount"`
	TotalPaidAmount         decimal.Decimal           `json:"total_paid_amount"`
	BalanceClearedToday     decimal.Decimal           `json:"balance_cleared_today"`
	Movement                string                    `json:"movement"`
	WalkInAmount            decimal.Decimal           `json:"walk_in_amount"`
	ClearBillAmount         decimal.Decimal           `json:"clear_bill_amount"`
	RiderCollections        []RiderCollectionResponse `json:"rider_collections"`
	PaymentMethods          []MethodTotalResponse     `json:"payment_methods"`
	CreatedAt               string                    `json:"created_at"`
	UpdatedAt               string                    `json:"updated_at"`
}
