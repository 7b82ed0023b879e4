package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agimports/storefront-backend/pkg/db/models"
)

// ProductView is the denormalized catalog row the pipeline operates on and
// the API returns. League and nationality are resolved to display names.
type ProductView struct {
	ID                  uuid.UUID        `json:"id"`
	Name                string           `json:"name"`
	TeamName            string           `json:"team_name"`
	Description         *string          `json:"description,omitempty"`
	Price               decimal.Decimal  `json:"price"`
	PromoPrice          *decimal.Decimal `json:"promo_price,omitempty"`
	ImageURL            *string          `json:"image_url,omitempty"`
	LeagueName          string           `json:"league_name,omitempty"`
	NationalityName     string           `json:"nationality_name,omitempty"`
	Season              *string          `json:"season,omitempty"`
	SpecialEdition      bool             `json:"special_edition"`
	SpecialEditionNotes *string          `json:"special_edition_notes,omitempty"`
	StockQty            int              `json:"stock_qty"`
	Rating              float64          `json:"rating"`
	AvailableSizes      []string         `json:"available_sizes"`
	CreatedAt           time.Time        `json:"created_at"`
}

// ViewFromModel flattens a product model (with preloaded relations) into a view.
func ViewFromModel(p models.Product) ProductView {
	view := ProductView{
		ID:                  p.ID,
		Name:                p.Name,
		TeamName:            p.TeamName,
		Description:         p.Description,
		Price:               p.Price,
		PromoPrice:          p.PromoPrice,
		ImageURL:            p.ImageURL,
		Season:              p.Season,
		SpecialEdition:      p.SpecialEdition,
		SpecialEditionNotes: p.SpecialEditionNotes,
		StockQty:            p.StockQty,
		Rating:              p.Rating,
		AvailableSizes:      []string(p.AvailableSizes),
		CreatedAt:           p.CreatedAt,
	}
	if p.League != nil {
		view.LeagueName = p.League.Name
	}
	if p.Nationality != nil {
		view.NationalityName = p.Nationality.Name
	}
	return view
}

// FilterOptionsDTO feeds the storefront filter drawer. Leagues and
// nationalities are fetched jointly; the payload is only produced when both
// queries succeed.
type FilterOptionsDTO struct {
	Leagues       []LeagueDTO      `json:"leagues"`
	Nationalities []NationalityDTO `json:"nationalities"`
	Seasons       []string         `json:"seasons"`
	Sizes         []SizeDTO        `json:"sizes"`
}

// LeagueDTO is the public league shape.
type LeagueDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Country *string   `json:"country,omitempty"`
}

// NationalityDTO is the public nationality shape.
type NationalityDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	FlagURL *string   `json:"flag_url,omitempty"`
}

// SizeDTO is the public size shape, ordered by sort_order.
type SizeDTO struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

// ProductPageDTO is the pipeline output plus paging metadata.
type ProductPageDTO struct {
	Items      []ProductView `json:"items"`
	TotalMatch int           `json:"total_match"`
	Limit      int           `json:"limit"`
	HasMore    bool          `json:"has_more"`
}
