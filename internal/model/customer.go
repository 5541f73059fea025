package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceLabel is derived purely from the sign of the running balance and is
// rendered verbatim across the console.
type BalanceLabel string

const (
	BalanceReceivable BalanceLabel = "receivable" // customer owes the business
	BalancePayable    BalanceLabel = "payable"    // business owes the customer
	BalanceClear      BalanceLabel = "clear"
)

// LabelForBalance maps a signed balance to its display label.
func LabelForBalance(b decimal.Decimal) BalanceLabel {
	switch b.Sign() {
	case 1:
		return BalanceReceivable
	case -1:
		return BalancePayable
	default:
		return BalanceClear
	}
}

// Customer holds the authoritative signed running balance.
// CurrentBalance is mutated only by order lifecycle transitions; daily
// closings record a snapshot of a day's activity without resetting it.
// Customers are never deleted, only deactivated.
type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"not null"`
	Phone    string    `gorm:"not null;index"`
	Whatsapp *string
	Address  string

	CurrentBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IsActive       bool            `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
