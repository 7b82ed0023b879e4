package orders

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
	"github.com/agimports/storefront-backend/pkg/enums"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
	"github.com/agimports/storefront-backend/pkg/pagination"
)

type fakeOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) ListPageByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	return f.list(func(o *models.Order) bool { return o.UserID == userID }, cursor, limit), nil
}

func (f *fakeOrderRepo) ListPageAll(ctx context.Context, status *enums.OrderStatus, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	return f.list(func(o *models.Order) bool {
		return status == nil || o.Status == *status
	}, cursor, limit), nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if order, ok := f.orders[id]; ok {
		order.Status = status
	}
	return nil
}

func (f *fakeOrderRepo) list(match func(*models.Order) bool, cursor *pagination.Cursor, limit int) []models.Order {
	var rows []models.Order
	for _, order := range f.orders {
		if !match(order) {
			continue
		}
		if cursor != nil && !order.CreatedAt.Before(cursor.CreatedAt) {
			continue
		}
		rows = append(rows, *order)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func (f *fakeOrderRepo) seed(userID uuid.UUID, total string, at time.Time) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        enums.OrderStatusSent,
		ItemCount:     1,
		Total:         decimal.RequireFromString(total),
		ContactNumber: "5511987654321",
		MessageBody:   "Total: R$ " + total,
		Items: []models.OrderItem{{
			Name:      "Shirt",
			TeamName:  "Team",
			SizeLabel: "M",
			UnitPrice: decimal.RequireFromString(total),
			Quantity:  1,
			Subtotal:  decimal.RequireFromString(total),
			Position:  1,
		}},
		CreatedAt: at,
	}
	f.orders[order.ID] = order
	return order
}

func newOrdersService(t *testing.T, repo *fakeOrderRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{OrderRepo: repo})
	require.NoError(t, err)
	return svc
}

func TestGetScopesToOwner(t *testing.T) {
	repo := newFakeOrderRepo()
	owner := uuid.New()
	order := repo.seed(owner, "100.00", time.Now())
	svc := newOrdersService(t, repo)

	ctx := context.Background()
	detail, err := svc.Get(ctx, owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, detail.ID)
	assert.Equal(t, "5511987654321", detail.ContactNumber)
	require.Len(t, detail.Items, 1)

	_, err = svc.Get(ctx, uuid.New(), order.ID)
		coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code(), "other users see not found, not forbidden")
}

func TestListByUserPaginates(t *testing.T) {
	repo := newFakeOrderRepo()
	userID := uuid.New()
	base := time.Now()
	var newest *models.Order
	for i := 0; i < 4; i++ {
		newest = repo.seed(userID, "50.00", base.Add(time.Duration(i)*time.Minute))
	}
	repo.seed(uuid.New(), "10.00", base.Add(time.Hour))
	svc := newOrdersService(t, repo)

	page, err := svc.ListByUser(context.Background(), userID, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.True(t, page.HasMore)
	assert.Equal(t, newest.ID, page.Items[0].ID)

	rest, err := svc.ListByUser(context.Background(), userID, pagination.Params{Limit: 3, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, rest.Items, 1)
	assert.False(t, rest.HasMore)
}

func TestAdminListFiltersByStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	base := time.Now()
	confirmed := repo.seed(uuid.New(), "10.00", base)
	confirmed.Status = enums.OrderStatusConfirmed
	repo.seed(uuid.New(), "20.00", base.Add(time.Minute))
	svc := newOrdersService(t, repo)

	status := enums.OrderStatusConfirmed
	page, err := svc.AdminList(context.Background(), &status, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, confirmed.ID, page.Items[0].ID)
}

func TestAdminUpdateStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.seed(uuid.New(), "10.00", time.Now())
	svc := newOrdersService(t, repo)

	ctx := context.Background()
	require.NoError(t, svc.AdminUpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed))
	assert.Equal(t, enums.OrderStatusConfirmed, repo.orders[order.ID].Status)

	err := svc.AdminUpdateStatus(ctx, order.ID, enums.OrderStatus("shipped"))
		coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())

	err = svc.AdminUpdateStatus(ctx, uuid.New(), enums.OrderStatusCancelled)
	coded = pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}
