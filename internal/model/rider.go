package model

import (
	"time"

	"github.com/google/uuid"
)

// Rider owns zero or more delivery orders via Order.RiderID. Riders have no
// ledger effect of their own; they are aggregated for the daily collections
// view. Only active riders may be assigned.
type Rider struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"not null"`
	Phone    string    `gorm:"not null"`
	Whatsapp *string
	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
