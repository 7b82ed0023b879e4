package models

import (
	"time"

	"github.com/google/uuid"
)

// Nationality groups national-team jerseys by country.
type Nationality struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	FlagURL   *string   `gorm:"column:flag_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
