package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/db/models"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
	"github.com/agimports/storefront-backend/pkg/logger"
	"github.com/agimports/storefront-backend/pkg/observe"
)

// Service exposes the cart aggregator. Every mutation publishes the new
// badge count on the observe hub.
type Service interface {
	AddToCart(ctx context.Context, userID, productID, sizeID uuid.UUID, qty int) error
	UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, qty int) error
	Remove(ctx context.Context, userID, lineID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	Items(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
	Count(ctx context.Context, userID uuid.UUID) int
	Total(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Summary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error)
}

type cartRepository interface {
	UpsertIncrement(ctx context.Context, tx *gorm.DB, userID, productID, sizeID uuid.UUID, qty int) error
	FindLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error)
	SetQuantity(ctx context.Context, userID, lineID uuid.UUID, qty int) error
	DeleteLine(ctx context.Context, userID, lineID uuid.UUID) error
	DeleteAll(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	ListLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	SumQuantities(ctx context.Context, userID uuid.UUID) (int, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type sizeFinder interface {
	FindSizeByID(ctx context.Context, id uuid.UUID) (*models.Size, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventPublisher interface {
	Publish(event observe.Event)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    cartRepository
	ProductRepo productFinder
	SizeRepo    sizeFinder
	Tx          txRunner
	Hub         eventPublisher
	Logger      *logger.Logger
}

type service struct {
	cart     cartRepository
	products productFinder
	sizes    sizeFinder
	tx       txRunner
	hub      eventPublisher
	logg     *logger.Logger
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.SizeRepo == nil {
		return nil, fmt.Errorf("size repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		cart:     params.CartRepo,
		products: params.ProductRepo,
		sizes:    params.SizeRepo,
		tx:       params.Tx,
		hub:      params.Hub,
		logg:     params.Logger,
	}, nil
}

// AddToCart merges the quantity into the (user, product, size) line inside a
// transaction so duplicate in-flight adds commute.
func (s *service) AddToCart(ctx context.Context, userID, productID, sizeID uuid.UUID, qty int) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	size, err := s.sizes.FindSizeByID(ctx, sizeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "size not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load size")
	}
	if len(product.AvailableSizes) > 0 && !slices.Contains(product.AvailableSizes, size.Label) {
		return pkgerrors.New(pkgerrors.CodeValidation, "size not offered for this product")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.cart.UpsertIncrement(ctx, tx, userID, productID, sizeID, qty)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add to cart")
	}

	s.publishBadge(ctx, userID)
	return nil
}

// UpdateQuantity sets the absolute quantity; zero or less deletes the line.
func (s *service) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, qty int) error {
	if userID == uuid.Nil || lineID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and line id are required")
	}

	if qty <= 0 {
		return s.Remove(ctx, userID, lineID)
	}

	if _, err := s.cart.FindLine(ctx, userID, lineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart line not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if err := s.cart.SetQuantity(ctx, userID, lineID, qty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quantity")
	}

	s.publishBadge(ctx, userID)
	return nil
}

// Remove deletes the line unconditionally; removing an absent line succeeds.
func (s *service) Remove(ctx context.Context, userID, lineID uuid.UUID) error {
	if userID == uuid.Nil || lineID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and line id are required")
	}
	if err := s.cart.DeleteLine(ctx, userID, lineID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	s.publishBadge(ctx, userID)
	return nil
}

// Clear empties the user's cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.cart.DeleteAll(ctx, nil, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.publishBadge(ctx, userID)
	return nil
}

// Items returns the cart lines joined with a product snapshot as of read time.
func (s *service) Items(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	lines, err := s.cart.ListLines(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	items := make([]ItemDTO, 0, len(lines))
	for _, line := range lines {
		items = append(items, lineToItem(line))
	}
	return items, nil
}

// Count returns the summed quantity for the badge. A read failure degrades
// to 0 instead of breaking the page; this is the only operation allowed to
// swallow an error.
func (s *service) Count(ctx context.Context, userID uuid.UUID) int {
	if userID == uuid.Nil {
		return 0
	}
	count, err := s.cart.SumQuantities(ctx, userID)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "cart badge count failed, degrading to 0")
		}
		return 0
	}
	return count
}

// Total sums list price times quantity with decimal arithmetic. A line whose
// product is missing contributes 0. Promotional prices are ignored here.
func (s *service) Total(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return sumItems(items), nil
}

// Summary bundles items, badge count, and total for the cart screen.
func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return &SummaryDTO{
		Items: items,
		Count: count,
		Total: sumItems(items),
	}, nil
}

func sumItems(items []ItemDTO) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}

func lineToItem(line models.CartLine) ItemDTO {
	item := ItemDTO{
		LineID:    line.ID,
		ProductID: line.ProductID,
		SizeID:    line.SizeID,
		Quantity:  line.Quantity,
		Subtotal:  decimal.Zero,
	}
	if line.Size != nil {
		item.SizeLabel = line.Size.Label
	}
	if line.Product != nil {
		item.Name = line.Product.Name
		item.TeamName = line.Product.TeamName
		item.Price = line.Product.Price
		item.PromoPrice = line.Product.PromoPrice
		item.ImageURL = line.Product.ImageURL
		if line.Product.League != nil {
			item.LeagueName = line.Product.League.Name
		}
		if line.Product.Nationality != nil {
			item.NationalityName = line.Product.Nationality.Name
		}
		item.Subtotal = line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
	}
	return item
}

func (s *service) publishBadge(ctx context.Context, userID uuid.UUID) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(observe.Event{
		Topic:  observe.TopicCartBadge,
		UserID: userID,
		Count:  s.Count(ctx, userID),
	})
}
