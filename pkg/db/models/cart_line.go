package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one (product, size, quantity) entry in a user's cart.
// At most one row exists per (user, product, size); repeated adds increase quantity.
type CartLine struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_lines_user_product_size"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_lines_user_product_size"`
	SizeID    uuid.UUID `gorm:"column:size_id;type:uuid;not null;uniqueIndex:idx_cart_lines_user_product_size"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	Size      *Size     `gorm:"foreignKey:SizeID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
