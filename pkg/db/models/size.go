package models

import (
	"time"

	"github.com/google/uuid"
)

// Size is a sellable jersey size (P, M, G, GG, ...).
type Size struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Label     string    `gorm:"column:label;not null;uniqueIndex"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
