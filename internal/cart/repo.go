package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/db/models"
)

// Repository encapsulates cart line persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// UpsertIncrement adds qty to the (user, product, size) line, creating it
// when absent. Runs on tx when provided so concurrent adds commute. The
// single statement keeps the merge atomic either way.
func (r *Repository) UpsertIncrement(ctx context.Context, tx *gorm.DB, userID, productID, sizeID uuid.UUID, qty int) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Exec(`INSERT INTO cart_lines (user_id, product_id, size_id, quantity)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, product_id, size_id)
DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = CURRENT_TIMESTAMP`,
			userID, productID, sizeID, qty).
		Error
}

// FindLine loads one line owned by the user.
func (r *Repository) FindLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, lineID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// SetQuantity overwrites the line quantity.
func (r *Repository) SetQuantity(ctx context.Context, userID, lineID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("user_id = ? AND id = ?", userID, lineID).
		Update("quantity", qty).Error
}

// DeleteLine removes a line; deleting an absent line is not an error.
func (r *Repository) DeleteLine(ctx context.Context, userID, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, lineID).
		Delete(&models.CartLine{}).Error
}

// DeleteAll clears every line for the user. Runs on tx when provided so
// checkout can clear the cart in the same transaction that writes the order.
func (r *Repository) DeleteAll(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartLine{}).Error
}

// ListLines returns the user's lines with product and size resolved, oldest
// first so the checkout message iterates in aggregator order.
func (r *Repository) ListLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.League").
		Preload("Product.Nationality").
		Preload("Size").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// SumQuantities returns the badge count: the summed quantity across lines.
func (r *Repository) SumQuantities(ctx context.Context, userID uuid.UUID) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Select("SUM(quantity)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// DeleteOlderThan purges lines not touched since the cutoff and reports how
// many were removed. Used by the abandoned-cart job.
func (r *Repository) DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&models.CartLine{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteForInactiveUsers removes lines owned by deactivated accounts so the
// abandoned-cart job does not keep carting for users who cannot log in.
func (r *Repository) DeleteForInactiveUsers(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.WithContext(ctx).
		Exec(`DELETE FROM cart_lines
WHERE user_id IN (SELECT id FROM users WHERE is_active = FALSE)`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
