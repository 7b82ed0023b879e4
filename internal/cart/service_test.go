package cart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/db/models"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
	"github.com/agimports/storefront-backend/pkg/observe"
)

type lineKey struct {
	user    uuid.UUID
	product uuid.UUID
	size    uuid.UUID
}

type fakeCartRepo struct {
	lines    map[uuid.UUID]*models.CartLine
	byKey    map[lineKey]uuid.UUID
	products map[uuid.UUID]*models.Product
	sizes    map[uuid.UUID]*models.Size
	sumErr   error
	listErr  error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		lines:    make(map[uuid.UUID]*models.CartLine),
		byKey:    make(map[lineKey]uuid.UUID),
		products: make(map[uuid.UUID]*models.Product),
		sizes:    make(map[uuid.UUID]*models.Size),
	}
}

func (f *fakeCartRepo) UpsertIncrement(ctx context.Context, tx *gorm.DB, userID, productID, sizeID uuid.UUID, qty int) error {
	key := lineKey{user: userID, product: productID, size: sizeID}
	if id, ok := f.byKey[key]; ok {
		f.lines[id].Quantity += qty
		return nil
	}
	line := &models.CartLine{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		SizeID:    sizeID,
		Quantity:  qty,
		Product:   f.products[productID],
		Size:      f.sizes[sizeID],
		CreatedAt: time.Now().Add(time.Duration(len(f.lines)) * time.Millisecond),
	}
	f.lines[line.ID] = line
	f.byKey[key] = line.ID
	return nil
}

func (f *fakeCartRepo) FindLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error) {
	line, ok := f.lines[lineID]
	if !ok || line.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return line, nil
}

func (f *fakeCartRepo) SetQuantity(ctx context.Context, userID, lineID uuid.UUID, qty int) error {
	line, ok := f.lines[lineID]
	if ok && line.UserID == userID {
		line.Quantity = qty
	}
	return nil
}

func (f *fakeCartRepo) DeleteLine(ctx context.Context, userID, lineID uuid.UUID) error {
	line, ok := f.lines[lineID]
	if ok && line.UserID == userID {
		delete(f.byKey, lineKey{user: line.UserID, product: line.ProductID, size: line.SizeID})
		delete(f.lines, lineID)
	}
	return nil
}

func (f *fakeCartRepo) DeleteAll(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	for id, line := range f.lines {
		if line.UserID == userID {
			delete(f.byKey, lineKey{user: line.UserID, product: line.ProductID, size: line.SizeID})
			delete(f.lines, id)
		}
	}
	return nil
}

func (f *fakeCartRepo) ListLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var lines []models.CartLine
	for _, line := range f.lines {
		if line.UserID == userID {
			lines = append(lines, *line)
		}
	}
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			if lines[j].CreatedAt.Before(lines[i].CreatedAt) {
				lines[i], lines[j] = lines[j], lines[i]
			}
		}
	}
	return lines, nil
}

func (f *fakeCartRepo) SumQuantities(ctx context.Context, userID uuid.UUID) (int, error) {
	if f.sumErr != nil {
		return 0, f.sumErr
	}
	total := 0
	for _, line := range f.lines {
		if line.UserID == userID {
			total += line.Quantity
		}
	}
	return total, nil
}

func (f *fakeCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (f *fakeCartRepo) FindSizeByID(ctx context.Context, id uuid.UUID) (*models.Size, error) {
	size, ok := f.sizes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return size, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (f *fakeCartRepo) seedProduct(name, price string, sizeLabels ...string) *models.Product {
	product := &models.Product{
		ID:             uuid.New(),
		Name:           name,
		TeamName:       name,
		Price:          decimal.RequireFromString(price),
		IsActive:       true,
		AvailableSizes: sizeLabels,
	}
	f.products[product.ID] = product
	return product
}

func (f *fakeCartRepo) seedSize(label string) *models.Size {
	size := &models.Size{ID: uuid.New(), Label: label}
	f.sizes[size.ID] = size
	return size
}

func newCartService(t *testing.T, repo *fakeCartRepo, hub *observe.Hub) Service {
	t.Helper()
	params := ServiceParams{
		CartRepo:    repo,
		ProductRepo: repo,
		SizeRepo:    repo,
		Tx:          fakeTxRunner{},
	}
	if hub != nil {
		params.Hub = hub
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	return svc
}

func TestAddToCartMergesDuplicateLines(t *testing.T) {
	repo := newFakeCartRepo()
	product := repo.seedProduct("Flamengo Home", "100.00", "M")
	size := repo.seedSize("M")
	svc := newCartService(t, repo, nil)

	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, svc.AddToCart(ctx, userID, product.ID, size.ID, 2))
	require.NoError(t, svc.AddToCart(ctx, userID, product.ID, size.ID, 1))

	items, err := svc.Items(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1, "same (product, size) must merge into one line")
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddToCartDistinctSizesStaySeparate(t *testing.T) {
	repo := newFakeCartRepo()
	product := repo.seedProduct("Flamengo Home", "100.00", "M", "G")
	m := repo.seedSize("M")
	g := repo.seedSize("G")
	svc := newCartService(t, repo, nil)

	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, svc.AddToCart(ctx, userID, product.ID, m.ID, 1))
	require.NoError(t, svc.AddToCart(ctx, userID, product.ID, g.ID, 1))

	items, err := svc.Items(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestAddToCartValidation(t *testing.T) {
	repo := newFakeCartRepo()
	product := repo.seedProduct("Flamengo Home", "100.00", "M")
	size := repo.seedSize("M")
	other := repo.seedSize("XGG")
	svc := newCartService(t, repo, nil)

	ctx := context.Background()
	userID := uuid.New()
	var coded *pkgerrors.Error

	err := svc.AddToCart(ctx, userID, product.ID, size.ID, 0)
	coded = pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())

	err = svc.AddToCart(ctx, userID, uuid.New(), size.ID, 1)
	coded = pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())

	err = svc.AddToCart(ctx, userID, product.ID, other.ID, 1)
	coded = pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code(), "size not offered for the product")
}

func TestUpdateQuantityZeroDeletesLine(t *testing.T) {
	for _, qty := range []int{0, -1} {
		repo := newFakeCartRepo()
		product := repo.seedProduct("Flamengo Home", "100.00", "M")
		size := repo.seedSize("M")
		svc := newCartService(t, repo, nil)

		ctx := context.Background()
		userID := uuid.New()
		require.NoError(t, svc.AddToCart(ctx, userID, product.ID, size.ID, 2))

		items, err := svc.Items(ctx, userID)
		require.NoError(t, err)
		require.Len(t, items, 1)

		require.NoError(t, svc.UpdateQuantity(ctx, userID, items[0].LineID, qty))

		items, err = svc.Items(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, items, "quantity %d should delete the line", qty)
	}
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	repo := newFakeCartRepo()
	product := repo.seedProduct("Flamengo Home", "100.00", "M")
	size := repo.seedSize("M")
	svc := newCartService(t, repo, nil)

	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, svc.AddToCart(ctx, userID, product.ID, size.ID, 2))

	items, err := svc.Items(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateQuantity(ctx, userID, items[0].LineID, 5))

	items, err = svc.Items(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 5, items[0].Quantity, "update sets, not increments")
}

func TestRemoveIsIdempotent(t *testing.T) {
	repo := newFakeCartRepo()
	svc := newCartService(t, repo, nil)

	err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	assert.NoError(t, err, "removing an absent line is not an error")
}

func TestTotalAndCountExample(t *testing.T) {
	repo := newFakeCartRepo()
	shirt := repo.seedProduct("Flamengo Home", "100.00", "M")
	retro := repo.seedProduct("Santos Retro", "50.00", "G")
	m := repo.seedSize("M")
	g := repo.seedSize("G")
	svc := newCartService(t, repo, nil)

	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, svc.AddToCart(ctx, userID, shirt.ID, m.ID, 2))
	require.NoError(t, svc.AddToCart(ctx, userID, retro.ID, g.ID, 1))

	total, err := svc.Total(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "250.00", total.StringFixed(2))
	assert.Equal(t, 3, svc.Count(ctx, userID))
}

func TestTotalIgnoresPromoPrice(t *testing.T) {
	repo := newFakeCartRepo()
	product := repo.seedProduct("Corinthians Home", "200.00", "M")
	promo := decimal.RequireFromString("149.90")
	product.PromoPrice = &promo
	size := repo.seedSize("M")
	svc := newCartService(t, repo, nil)

	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, svc.AddToCart(ctx, userID, product.ID, size.ID, 1))

	total, err := svc.Total(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "200.00", total.StringFixed(2), "list price, not promo, feeds the total")
}

func TestCountDegradesToZeroOnFailure(t *testing.T) {
	repo := newFakeCartRepo()
	repo.sumErr = fmt.Errorf("db down")
	svc := newCartService(t, repo, nil)

	assert.Equal(t, 0, svc.Count(context.Background(), uuid.New()))
}

func TestMutationsPublishBadgeCount(t *testing.T) {
	repo := newFakeCartRepo()
	product := repo.seedProduct("Flamengo Home", "100.00", "M")
	size := repo.seedSize("M")
	hub := observe.NewHub()
	defer hub.Close()
	svc := newCartService(t, repo, hub)

	events, cancel := hub.Subscribe(observe.TopicCartBadge)
	defer cancel()

	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, svc.AddToCart(ctx, userID, product.ID, size.ID, 2))

	select {
	case event := <-events:
		assert.Equal(t, userID, event.UserID)
		assert.Equal(t, 2, event.Count)
	case <-time.After(time.Second):
		t.Fatal("no badge event after add")
	}

	require.NoError(t, svc.Clear(ctx, userID))
	select {
	case event := <-events:
		assert.Equal(t, 0, event.Count)
	case <-time.After(time.Second):
		t.Fatal("no badge event after clear")
	}
}
