package favorites

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/db/models"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
	"github.com/agimports/storefront-backend/pkg/pagination"
)

type fakeFavoriteRepo struct {
	rows     []models.FavoriteItem
	products map[uuid.UUID]*models.Product
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (f *fakeFavoriteRepo) Add(ctx context.Context, userID, productID uuid.UUID) error {
	for _, row := range f.rows {
		if row.UserID == userID && row.ProductID == productID {
			return nil
		}
	}
	f.rows = append(f.rows, models.FavoriteItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().Add(time.Duration(len(f.rows)) * time.Second),
	})
	return nil
}

func (f *fakeFavoriteRepo) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.UserID != userID || row.ProductID != productID {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeFavoriteRepo) ListPage(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.FavoriteItem, error) {
	var rows []models.FavoriteItem
	for _, row := range f.rows {
		if row.UserID != userID {
			continue
		}
		if cursor != nil && !row.CreatedAt.Before(cursor.CreatedAt) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeFavoriteRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (f *fakeFavoriteRepo) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	found := make(map[uuid.UUID]models.Product)
	for _, id := range ids {
		if product, ok := f.products[id]; ok && product.IsActive {
			found[id] = *product
		}
	}
	return found, nil
}

func (f *fakeFavoriteRepo) seedProduct(name string, active bool) *models.Product {
	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		TeamName: name,
		Price:    decimal.RequireFromString("99.90"),
		IsActive: active,
	}
	f.products[product.ID] = product
	return product
}

func newFavoritesService(t *testing.T, repo *fakeFavoriteRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{FavoriteRepo: repo, ProductRepo: repo})
	require.NoError(t, err)
	return svc
}

func TestAddIsIdempotent(t *testing.T) {
	repo := newFakeFavoriteRepo()
	product := repo.seedProduct("Flamengo Home", true)
	svc := newFavoritesService(t, repo)

	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, svc.Add(ctx, userID, product.ID))
	require.NoError(t, svc.Add(ctx, userID, product.ID))

	page, err := svc.List(ctx, userID, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestAddUnknownProductFails(t *testing.T) {
	repo := newFakeFavoriteRepo()
	svc := newFavoritesService(t, repo)

	err := svc.Add(context.Background(), uuid.New(), uuid.New())
		coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestRemoveAbsentFavoriteSucceeds(t *testing.T) {
	repo := newFakeFavoriteRepo()
	svc := newFavoritesService(t, repo)

	assert.NoError(t, svc.Remove(context.Background(), uuid.New(), uuid.New()))
}

func TestListPaginatesNewestFirst(t *testing.T) {
	repo := newFakeFavoriteRepo()
	svc := newFavoritesService(t, repo)

	ctx := context.Background()
	userID := uuid.New()
	var last *models.Product
	for i := 0; i < 5; i++ {
		last = repo.seedProduct("Shirt", true)
		require.NoError(t, svc.Add(ctx, userID, last.ID))
	}

	page, err := svc.List(ctx, userID, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)
	assert.Equal(t, last.ID, page.Items[0].ProductID, "most recent favorite comes first")

	rest, err := svc.List(ctx, userID, pagination.Params{Limit: 3, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, rest.Items, 2)
	assert.False(t, rest.HasMore)
	assert.Empty(t, rest.NextCursor)
}

func TestListSkipsInactiveProductSnapshot(t *testing.T) {
	repo := newFakeFavoriteRepo()
	retired := repo.seedProduct("Retired Kit", false)
	svc := newFavoritesService(t, repo)

	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, svc.Add(ctx, userID, retired.ID))
	repo.products[retired.ID].IsActive = false

	page, err := svc.List(ctx, userID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].Product, "inactive products keep the row but drop the snapshot")
}
