package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDTO is a cart line joined with its product snapshot as of read time.
type ItemDTO struct {
	LineID          uuid.UUID        `json:"line_id"`
	ProductID       uuid.UUID        `json:"product_id"`
	SizeID          uuid.UUID        `json:"size_id"`
	SizeLabel       string           `json:"size_label"`
	Quantity        int              `json:"quantity"`
	Name            string           `json:"name"`
	TeamName        string           `json:"team_name"`
	Price           decimal.Decimal  `json:"price"`
	PromoPrice      *decimal.Decimal `json:"promo_price,omitempty"`
	ImageURL        *string          `json:"image_url,omitempty"`
	LeagueName      string           `json:"league_name,omitempty"`
	NationalityName string           `json:"nationality_name,omitempty"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
}

// SummaryDTO is the full cart payload for the cart screen.
type SummaryDTO struct {
	Items []ItemDTO       `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// AddRequest is the payload for adding a line to the cart.
type AddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	SizeID    uuid.UUID `json:"size_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateRequest sets an absolute quantity; zero or less removes the line.
type UpdateRequest struct {
	Quantity int `json:"quantity"`
}
