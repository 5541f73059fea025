package repository

import (
	"context"
	"time"

	"aquadesk/internal/apierror"
	"aquadesk/internal/dto"
	"aquadesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// UpdateGuardedTx writes the given columns only when the stored version
	// still matches expectedVersion, bumping the version in the same UPDATE.
	// Zero rows affected surfaces as a concurrency conflict.
	UpdateGuardedTx(tx *gorm.DB, id uuid.UUID, expectedVersion int, fields map[string]interface{}) error
	List(ctx context.Context, filter dto.OrderFilter, from, to time.Time) ([]model.Order, int64, error)
	ListByCreatedRange(ctx context.Context, from, to time.Time) ([]model.Order, error)
	CountOpenInRange(ctx context.Context, from, to time.Time) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Customer").Preload("Rider").First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) UpdateGuardedTx(tx *gorm.DB, id uuid.UUID, expectedVersion int, fields map[string]interface{}) error {
	fields["version"] = expectedVersion + 1
	res := tx.Model(&model.Order{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.Conflict("order was modified concurrently; re-fetch and retry")
	}
	return nil
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter, from, to time.Time) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to)

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" && filter.Type != "all" {
		q = q.Where("order_type = ?", filter.Type)
	}
	if filter.RiderID != "" {
		q = q.Where("rider_id = ?", filter.RiderID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Customer").Preload("Rider").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepo) ListByCreatedRange(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) CountOpenInRange(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("status IN ?", []model.OrderStatus{model.StatusCreated, model.StatusAssigned, model.StatusInProgress}).
		Count(&n).Error
	return n, err
}
