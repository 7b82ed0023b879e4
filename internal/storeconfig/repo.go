package storeconfig

import (
	"context"

	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/db/models"
)

// Repository encapsulates the singleton store settings row.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a store settings repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get loads the singleton row. The row is seeded by migration, so a miss is
// a real error.
func (r *Repository) Get(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", models.StoreSettingsID).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save writes the full settings row back, keeping the fixed id.
func (r *Repository) Save(ctx context.Context, settings *models.StoreSettings) error {
	settings.ID = models.StoreSettingsID
	return r.db.WithContext(ctx).Save(settings).Error
}
