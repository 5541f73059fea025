package model

import (
	"time"

	"github.com/google/uuid"
)

// User stores console logins with role-based access.
// Role: "admin" | "rider"
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	// RiderID links a rider login to its Rider record; nil for admins.
	RiderID   *uuid.UUID `gorm:"type:uuid"`
	IsActive  bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
