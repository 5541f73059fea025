package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyClosing is the persisted end-of-day snapshot. One record per business
// calendar date (unique); re-closing the same day overwrites the prior record
// rather than appending. Closings are derived data — they can be rebuilt from
// the orders of that day plus the point-in-time customer balances.
type DailyClosing struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClosingDate time.Time `gorm:"type:date;uniqueIndex;not null"`

	// Point-in-time ledger snapshot across all customers, not scoped to the date.
	CustomerReceivable decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CustomerPayable    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	TotalOrders             int             `gorm:"not null"`
	TotalBottles            int             `gorm:"not null"`
	TotalCurrentOrderAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPaidAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// BalanceClearedToday = TotalCurrentOrderAmount − TotalPaidAmount.
	// Positive: new debt accrued ("udhaar"). Negative: debt recovered.
	BalanceClearedToday decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	WalkInAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ClearBillAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	RiderCollections []ClosingRiderCollection `gorm:"foreignKey:ClosingID;constraint:OnDelete:CASCADE"`
	PaymentMethods   []ClosingMethodTotal     `gorm:"foreignKey:ClosingID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClosingRiderCollection is a per-rider paid total for delivered delivery
// orders on the closing date.
type ClosingRiderCollection struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClosingID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	RiderID    uuid.UUID       `gorm:"type:uuid;not null"`
	RiderName  string          `gorm:"not null"`
	Collected  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OrderCount int             `gorm:"not null"`
}

// ClosingMethodTotal is a per-payment-method paid total for delivered orders
// on the closing date.
type ClosingMethodTotal struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClosingID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Method     PaymentMethod   `gorm:"type:varchar(20);not null"`
	Collected  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OrderCount int             `gorm:"not null"`
}
