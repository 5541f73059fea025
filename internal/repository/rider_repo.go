package repository

import (
	"context"

	"aquadesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RiderRepository interface {
	Create(ctx context.Context, r *model.Rider) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rider, error)
	List(ctx context.Context, includeInactive bool) ([]model.Rider, error)
	Update(ctx context.Context, r *model.Rider) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type riderRepo struct{ db *gorm.DB }

func NewRiderRepository(db *gorm.DB) RiderRepository { return &riderRepo{db: db} }

func (r *riderRepo) Create(ctx context.Context, rd *model.Rider) error {
	return r.db.WithContext(ctx).Create(rd).Error
}

func (r *riderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Rider, error) {
	var rd model.Rider
	err := r.db.WithContext(ctx).First(&rd, "id = ?", id).Error
	return &rd, err
}

func (r *riderRepo) List(ctx context.Context, includeInactive bool) ([]model.Rider, error) {
	var riders []model.Rider
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	err := q.Find(&riders).Error
	return riders, err
}

func (r *riderRepo) Update(ctx context.Context, rd *model.Rider) error {
	return r.db.WithContext(ctx).Save(rd).Error
}

func (r *riderRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Rider{}).
		Where("id = ?", id).Update("is_active", active).Error
}
