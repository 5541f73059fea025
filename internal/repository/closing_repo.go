package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"aquadesk/internal/apierror"
	"aquadesk/internal/model"

	"gorm.io/gorm"
)

type ClosingRepository interface {
	FindByDate(ctx context.Context, date time.Time) (*model.DailyClosing, error)
	// FindByDateString looks up by the stored YYYY-MM-DD date value.
	FindByDateString(ctx context.Context, date string) (*model.DailyClosing, error)
	// Upsert persists the closing for its date, replacing any prior record
	// (and its child rows) instead of appending. The unique index on
	// closing_date serializes concurrent saves for the same day.
	Upsert(ctx context.Context, c *model.DailyClosing) error
	List(ctx context.Context) ([]model.DailyClosing, error)
}

type closingRepo struct{ db *gorm.DB }

func NewClosingRepository(db *gorm.DB) ClosingRepository { return &closingRepo{db: db} }

func (r *closingRepo) FindByDate(ctx context.Context, date time.Time) (*model.DailyClosing, error) {
	var c model.DailyClosing
	err := r.db.WithContext(ctx).
		Preload("RiderCollections").Preload("PaymentMethods").
		Where("closing_date = ?", date.Format("2006-01-02")).
		First(&c).Error
	return &c, err
}

func (r *closingRepo) FindByDateString(ctx context.Context, date string) (*model.DailyClosing, error) {
	var c model.DailyClosing
	err := r.db.WithContext(ctx).
		Preload("RiderCollections").Preload("PaymentMethods").
		Where("closing_date = ?", date).
		First(&c).Error
	return &c, err
}

func (r *closingRepo) Upsert(ctx context.Context, c *model.DailyClosing) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.DailyClosing
		findErr := tx.Where("closing_date = ?", c.ClosingDate.Format("2006-01-02")).First(&existing).Error
		switch {
		case findErr == nil:
			// Overwrite in place: keep identity and created_at, replace children.
			c.ID = existing.ID
			c.CreatedAt = existing.CreatedAt
			if err := tx.Where("closing_id = ?", existing.ID).Delete(&model.ClosingRiderCollection{}).Error; err != nil {
				return err
			}
			if err := tx.Where("closing_id = ?", existing.ID).Delete(&model.ClosingMethodTotal{}).Error; err != nil {
				return err
			}
			for i := range c.RiderCollections {
				c.RiderCollections[i].ClosingID = existing.ID
			}
			for i := range c.PaymentMethods {
				c.PaymentMethods[i].ClosingID = existing.ID
			}
			return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(c).Error
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			return tx.Create(c).Error
		default:
			return findErr
		}
	})
	// A unique violation here means two saves raced for the same date; the
	// loser must re-read and resubmit.
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return apierror.Conflict("closing for this date was saved concurrently; retry")
	}
	return err
}

func (r *closingRepo) List(ctx context.Context) ([]model.DailyClosing, error) {
	var closings []model.DailyClosing
	err := r.db.WithContext(ctx).
		Preload("RiderCollections").Preload("PaymentMethods").
		Order("closing_date DESC").
		Find(&closings).Error
	return closings, err
}
