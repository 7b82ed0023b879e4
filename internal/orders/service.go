package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/db/models"
	"github.com/agimports/storefront-backend/pkg/enums"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
	"github.com/agimports/storefront-backend/pkg/pagination"
)

// Service exposes order history. Orders are written by checkout; this service
// only reads them and lets admins move the status.
type Service interface {
	Get(ctx context.Context, userID, orderID uuid.UUID) (*DetailDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PageDTO, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (*DetailDTO, error)
	AdminList(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*PageDTO, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
}

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListPageByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	ListPageAll(ctx context.Context, status *enums.OrderStatus, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	OrderRepo orderRepository
}

type service struct {
	orders orderRepository
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	return &service{orders: params.OrderRepo}, nil
}

// Get loads one order owned by the user. Orders belonging to someone else
// read as not found rather than forbidden.
func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*DetailDTO, error) {
	if userID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and order id are required")
	}
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return detailFromModel(*order), nil
}

// ListByUser returns the user's order history newest first.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PageDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.page(params, func(cursor *pagination.Cursor, limit int) ([]models.Order, error) {
		return s.orders.ListPageByUser(ctx, userID, cursor, limit)
	})
}

// AdminGet loads any order regardless of owner.
func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (*DetailDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return detailFromModel(*order), nil
}

// AdminList returns orders across all users, optionally filtered by status.
func (s *service) AdminList(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*PageDTO, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	return s.page(params, func(cursor *pagination.Cursor, limit int) ([]models.Order, error) {
		return s.orders.ListPageAll(ctx, status, cursor, limit)
	})
}

// AdminUpdateStatus records what the store learned about the order over chat.
func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if _, err := s.loadOrder(ctx, orderID); err != nil {
		return err
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) page(params pagination.Params, fetch func(cursor *pagination.Cursor, limit int) ([]models.Order, error)) (*PageDTO, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := fetch(cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	page := &PageDTO{
		Items:   make([]OrderDTO, 0, len(rows)),
		HasMore: hasMore,
	}
	for _, row := range rows {
		page.Items = append(page.Items, orderFromModel(row))
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
