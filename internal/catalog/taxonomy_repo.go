package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/db/models"
)

// TaxonomyRepository manages the lookup tables behind the filter drawer:
// leagues, nationalities, and sizes.
type TaxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository constructs the repo bound to the provided gorm DB.
func NewTaxonomyRepository(db *gorm.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

// ListLeagues returns every league ordered by name.
func (r *TaxonomyRepository) ListLeagues(ctx context.Context) ([]models.League, error) {
	var leagues []models.League
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&leagues).Error; err != nil {
		return nil, err
	}
	return leagues, nil
}

// CreateLeague inserts a league.
func (r *TaxonomyRepository) CreateLeague(ctx context.Context, league *models.League) error {
	return r.db.WithContext(ctx).Create(league).Error
}

// UpdateLeague saves the full league row.
func (r *TaxonomyRepository) UpdateLeague(ctx context.Context, league *models.League) error {
	return r.db.WithContext(ctx).Save(league).Error
}

// DeleteLeague removes a league; products keep running with a null league.
func (r *TaxonomyRepository) DeleteLeague(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.League{}, "id = ?", id).Error
}

// FindLeagueByID loads one league.
func (r *TaxonomyRepository) FindLeagueByID(ctx context.Context, id uuid.UUID) (*models.League, error) {
	var league models.League
	if err := r.db.WithContext(ctx).First(&league, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &league, nil
}

// ListNationalities returns every nationality ordered by name.
func (r *TaxonomyRepository) ListNationalities(ctx context.Context) ([]models.Nationality, error) {
	var nationalities []models.Nationality
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&nationalities).Error; err != nil {
		return nil, err
	}
	return nationalities, nil
}

// CreateNationality inserts a nationality.
func (r *TaxonomyRepository) CreateNationality(ctx context.Context, nationality *models.Nationality) error {
	return r.db.WithContext(ctx).Create(nationality).Error
}

// UpdateNationality saves the full nationality row.
func (r *TaxonomyRepository) UpdateNationality(ctx context.Context, nationality *models.Nationality) error {
	return r.db.WithContext(ctx).Save(nationality).Error
}

// DeleteNationality removes a nationality.
func (r *TaxonomyRepository) DeleteNationality(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Nationality{}, "id = ?", id).Error
}

// FindNationalityByID loads one nationality.
func (r *TaxonomyRepository) FindNationalityByID(ctx context.Context, id uuid.UUID) (*models.Nationality, error) {
	var nationality models.Nationality
	if err := r.db.WithContext(ctx).First(&nationality, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &nationality, nil
}

// ListSizes returns every size ordered for display.
func (r *TaxonomyRepository) ListSizes(ctx context.Context) ([]models.Size, error) {
	var sizes []models.Size
	if err := r.db.WithContext(ctx).Order("sort_order ASC").Find(&sizes).Error; err != nil {
		return nil, err
	}
	return sizes, nil
}

// FindSizeByID loads one size.
func (r *TaxonomyRepository) FindSizeByID(ctx context.Context, id uuid.UUID) (*models.Size, error) {
	var size models.Size
	if err := r.db.WithContext(ctx).First(&size, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &size, nil
}
