package repository

import (
	"context"

	"aquadesk/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, includeInactive bool) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// AddBalanceTx applies a signed delta inside the caller's transaction.
	// Only the order state machine may call it.
	AddBalanceTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
	// SetBalanceTx restores the balance to an exact value (cancellation path).
	SetBalanceTx(tx *gorm.DB, id uuid.UUID, balance decimal.Decimal) error
	// SumBalances returns (receivable, payable) across all customers:
	// the sum of positive balances and the absolute sum of negative ones.
	SumBalances(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, includeInactive bool) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	err := q.Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ?", id).Update("is_active", active).Error
}

func (r *customerRepo) AddBalanceTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Customer{}).
		Where("id = ?", id).
		Update("current_balance", gorm.Expr("current_balance + ?", delta)).Error
}

func (r *customerRepo) SetBalanceTx(tx *gorm.DB, id uuid.UUID, balance decimal.Decimal) error {
	return tx.Model(&model.Customer{}).
		Where("id = ?", id).
		Update("current_balance", balance).Error
}

func (r *customerRepo) SumBalances(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		Receivable decimal.Decimal
		Payable    decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN current_balance > 0 THEN current_balance ELSE 0 END), 0) AS receivable,
			COALESCE(SUM(CASE WHEN current_balance < 0 THEN -current_balance ELSE 0 END), 0) AS payable
		FROM customers`).Scan(&row).Error
	return row.Receivable, row.Payable, err
}
