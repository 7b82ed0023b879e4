package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/db/models"
	"github.com/agimports/storefront-backend/pkg/pagination"
)

// Repository encapsulates favorite item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add marks the product as a favorite. Re-adding an existing favorite is a
// no-op at the database level.
func (r *Repository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO favorite_items (user_id, product_id)
VALUES (?, ?)
ON CONFLICT (user_id, product_id) DO NOTHING`,
			userID, productID).
		Error
}

// Remove deletes the favorite; removing an absent favorite is not an error.
func (r *Repository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.FavoriteItem{}).Error
}

// Exists reports whether the user already favorited the product.
func (r *Repository) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FavoriteItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListIDs returns every favorited product id for the user.
func (r *Repository) ListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.FavoriteItem{}).
		Where("user_id = ?", userID).
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListPage returns favorites newest first, keyed on (created_at, id) so the
// cursor stays stable under concurrent inserts. Callers pass a limit with a
// buffer row to detect the next page.
func (r *Repository) ListPage(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.FavoriteItem, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var favorites []models.FavoriteItem
	if err := query.Find(&favorites).Error; err != nil {
		return nil, err
	}
	return favorites, nil
}
