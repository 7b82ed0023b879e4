package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agimports/storefront-backend/pkg/enums"
)

// Order snapshots a cart at the moment the checkout deep link was produced.
// The handoff carries no delivery confirmation, so status starts at "sent".
type Order struct {
	ID             uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status         enums.OrderStatus `gorm:"column:status;type:text;not null;default:'sent'"`
	ItemCount      int               `gorm:"column:item_count;not null"`
	Total          decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	ContactNumber  string            `gorm:"column:contact_number;not null"`
	MessageBody    string            `gorm:"column:message_body;not null"`
	Items          []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
