package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a jersey listing in the catalog.
type Product struct {
	ID                  uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string           `gorm:"column:name;not null"`
	TeamName            string           `gorm:"column:team_name;not null"`
	Description         *string          `gorm:"column:description"`
	Price               decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	PromoPrice          *decimal.Decimal `gorm:"column:promo_price;type:numeric(10,2)"`
	ImageURL            *string          `gorm:"column:image_url"`
	LeagueID            *uuid.UUID       `gorm:"column:league_id;type:uuid"`
	NationalityID       *uuid.UUID       `gorm:"column:nationality_id;type:uuid"`
	Season              *string          `gorm:"column:season"`
	SpecialEdition      bool             `gorm:"column:special_edition;not null;default:false"`
	SpecialEditionNotes *string          `gorm:"column:special_edition_notes"`
	IsActive            bool             `gorm:"column:is_active;not null;default:true"`
	StockQty            int              `gorm:"column:stock_qty;not null;default:0"`
	Rating              float64          `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	AvailableSizes      pq.StringArray   `gorm:"column:available_sizes;type:text[];not null;default:ARRAY[]::text[]"`
	League              *League          `gorm:"foreignKey:LeagueID"`
	Nationality         *Nationality     `gorm:"foreignKey:NationalityID"`
	CreatedAt           time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
