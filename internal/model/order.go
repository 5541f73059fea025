package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderType distinguishes how an order is fulfilled.
type OrderType string

const (
	OrderTypeDelivery  OrderType = "delivery"  // rider takes bottles to the customer
	OrderTypeWalkIn    OrderType = "walkin"    // fulfilled at the counter, no rider
	OrderTypeClearBill OrderType = "clearbill" // settles an outstanding balance, no product
)

// OrderStatus is the lifecycle state. Delivered and cancelled are terminal.
type OrderStatus string

const (
	StatusCreated    OrderStatus = "created"
	StatusAssigned   OrderStatus = "assigned"
	StatusInProgress OrderStatus = "in_progress"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Terminal reports whether no further transitions are permitted.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Open reports whether the order still blocks the daily closing.
func (s OrderStatus) Open() bool {
	return s == StatusCreated || s == StatusAssigned || s == StatusInProgress
}

// PaymentStatus is derived from (totalAmount, paidAmount) at settlement —
// it is never set independently.
type PaymentStatus string

const (
	PaymentNotPaid  PaymentStatus = "not_paid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentOverpaid PaymentStatus = "overpaid"
	PaymentRefund   PaymentStatus = "refund"
)

// PaymentMethod: cash plus the wallet/bank rails the business accepts.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodJazzCash     PaymentMethod = "jazzcash"
	MethodEasyPaisa    PaymentMethod = "easypaisa"
	MethodNayaPay      PaymentMethod = "naya_pay"
	MethodSadaPay      PaymentMethod = "sadapay"
)

// Order is a transaction against the customer ledger.
//
// BalanceAtCreation snapshots the customer's ledger balance when the order is
// created; TotalAmount = CurrentOrderAmount + BalanceAtCreation and is
// immutable thereafter. The ledger effect is deferred until settlement or
// cancellation, so an unassigned order never distorts the displayed balance.
// Orders are never physically deleted — cancellation is a terminal status.
type Order struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"` // nil for a walk-in without a registered customer
	RiderID    *uuid.UUID `gorm:"type:uuid;index"` // nil until assigned

	OrderType OrderType   `gorm:"type:varchar(20);not null;index"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;default:'created';index"`

	NumberOfBottles    int             `gorm:"not null;default:0"`
	CurrentOrderAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BalanceAtCreation  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	PaymentStatus *PaymentStatus `gorm:"type:varchar(20)"`
	PaymentMethod *PaymentMethod `gorm:"type:varchar(20)"`
	Notes         *string

	// Version backs the optimistic lock: every status-changing write is
	// conditional on the version read, so a delivery racing a cancellation
	// cannot both mutate the customer balance.
	Version int `gorm:"not null;default:1"`

	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
	DeliveredAt *time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
	Rider    *Rider    `gorm:"foreignKey:RiderID"`
}

// DerivePaymentStatus is the single source of truth for the payment badge.
// The caller is responsible for sign: a refund to a payable customer is a
// negative paidAmount against a negative totalAmount.
func DerivePaymentStatus(totalAmount, paidAmount decimal.Decimal) PaymentStatus {
	switch {
	case totalAmount.IsZero():
		// Nothing owed either direction — "Clear".
		return PaymentPaid
	case paidAmount.IsZero():
		return PaymentNotPaid
	case paidAmount.Sign() != totalAmount.Sign():
		return PaymentRefund
	}
	switch paidAmount.Abs().Cmp(totalAmount.Abs()) {
	case -1:
		return PaymentPartial
	case 0:
		return PaymentPaid
	default:
		return PaymentOverpaid
	}
}
