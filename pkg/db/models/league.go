package models

import (
	"time"

	"github.com/google/uuid"
)

// League groups jerseys by competition (Premier League, Brasileirão, ...).
type League struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	Country   *string   `gorm:"column:country"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
