package favorites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/internal/catalog"
	"github.com/agimports/storefront-backend/pkg/db/models"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
	"github.com/agimports/storefront-backend/pkg/pagination"
)

// FavoriteDTO is a saved product with the snapshot the list screen renders.
// Product is nil when the catalog entry has since been removed or hidden.
type FavoriteDTO struct {
	ProductID   uuid.UUID            `json:"product_id"`
	FavoritedAt time.Time            `json:"favorited_at"`
	Product     *catalog.ProductView `json:"product,omitempty"`
}

// PageDTO is one cursor page of favorites.
type PageDTO struct {
	Items      []FavoriteDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// Service manages per-user favorite products.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PageDTO, error)
}

type favoriteRepository interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	ListPage(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.FavoriteItem, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindActiveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	FavoriteRepo favoriteRepository
	ProductRepo  productFinder
}

type service struct {
	favorites favoriteRepository
	products  productFinder
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FavoriteRepo == nil {
		return nil, fmt.Errorf("favorite repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{
		favorites: params.FavoriteRepo,
		products:  params.ProductRepo,
	}, nil
}

// Add saves the product as a favorite. Saving twice is a no-op.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.favorites.Add(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return nil
}

// Remove unsaves the product. Removing an absent favorite succeeds.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}
	if err := s.favorites.Remove(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return nil
}

// List returns the user's favorites newest first with product snapshots
// resolved in one batch.
func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PageDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.favorites.ListPage(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	products, err := s.products.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favorite products")
	}

	page := &PageDTO{
		Items:   make([]FavoriteDTO, 0, len(rows)),
		HasMore: hasMore,
	}
	for _, row := range rows {
		item := FavoriteDTO{
			ProductID:   row.ProductID,
			FavoritedAt: row.CreatedAt,
		}
		if product, ok := products[row.ProductID]; ok {
			view := catalog.ViewFromModel(product)
			item.Product = &view
		}
		page.Items = append(page.Items, item)
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}
