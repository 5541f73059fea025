package service

import (
	"context"
	"errors"

	"aquadesk/internal/apierror"
	"aquadesk/internal/model"
	"aquadesk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService owns the single authoritative signed balance per customer.
// Sign convention is load-bearing across the console: positive = receivable
// (customer owes the business), negative = payable, zero = clear.
//
// The Tx methods mutate the balance and are called only by the order state
// machine inside the transaction that writes the triggering order — both
// succeed or both fail. Presentation code reads, never writes.
type LedgerService interface {
	GetBalance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, model.BalanceLabel, error)
	ApplyDeltaTx(tx *gorm.DB, customerID uuid.UUID, delta decimal.Decimal) error
	// RestoreTx sets the balance to an exact point-in-time value. This backs
	// cancellation: a point restoration, not a delta subtraction, so a
	// partially applied order effect can never be double-reverted.
	RestoreTx(tx *gorm.DB, customerID uuid.UUID, balance decimal.Decimal) error
	// Snapshot returns (receivable, payable) across all customers.
	Snapshot(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

type ledgerService struct {
	customers repository.CustomerRepository
}

func NewLedgerService(customers repository.CustomerRepository) LedgerService {
	return &ledgerService{customers: customers}
}

func (s *ledgerService) GetBalance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, model.BalanceLabel, error) {
	c, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, "", apierror.NotFound("customer not found")
		}
		return decimal.Zero, "", err
	}
	return c.CurrentBalance, model.LabelForBalance(c.CurrentBalance), nil
}

func (s *ledgerService) ApplyDeltaTx(tx *gorm.DB, customerID uuid.UUID, delta decimal.Decimal) error {
	return s.customers.AddBalanceTx(tx, customerID, delta)
}

func (s *ledgerService) RestoreTx(tx *gorm.DB, customerID uuid.UUID, balance decimal.Decimal) error {
	return s.customers.SetBalanceTx(tx, customerID, balance)
}

func (s *ledgerService) Snapshot(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	return s.customers.SumBalances(ctx)
}
