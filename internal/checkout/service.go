package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/pkg/config"
	"github.com/agimports/storefront-backend/pkg/db/models"
	"github.com/agimports/storefront-backend/pkg/enums"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
	"github.com/agimports/storefront-backend/pkg/logger"
	"github.com/agimports/storefront-backend/pkg/observe"
)

// Result reports a completed handoff. LinkOpened is always true on success;
// there is no delivery confirmation from the messaging app.
type Result struct {
	OrderID    uuid.UUID `json:"order_id"`
	LinkOpened bool      `json:"link_opened"`
	Link       string    `json:"link"`
}

// Service turns the current cart into a messaging deep link and an order
// snapshot.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*Result, error)
}

type settingsReader interface {
	Get(ctx context.Context) (*models.StoreSettings, error)
}

type cartStore interface {
	ListLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	DeleteAll(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type orderWriter interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventPublisher interface {
	Publish(event observe.Event)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Settings settingsReader
	CartRepo cartStore
	Orders   orderWriter
	Tx       txRunner
	Hub      eventPublisher
	Config   config.CheckoutConfig
	Logger   *logger.Logger
}

type service struct {
	settings settingsReader
	cart     cartStore
	orders   orderWriter
	tx       txRunner
	hub      eventPublisher
	cfg      config.CheckoutConfig
	logg     *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Settings == nil {
		return nil, fmt.Errorf("store settings reader is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Config.MessagingScheme == "" {
		return nil, fmt.Errorf("messaging scheme is required")
	}
	if params.Config.CountryCallingCode == "" {
		return nil, fmt.Errorf("country calling code is required")
	}
	return &service{
		settings: params.Settings,
		cart:     params.CartRepo,
		orders:   params.Orders,
		tx:       params.Tx,
		hub:      params.Hub,
		cfg:      params.Config,
		logg:     params.Logger,
	}, nil
}

// Checkout builds the deep link, persists the order snapshot, and clears the
// cart in one transaction. Any failure before the commit leaves the cart
// untouched and creates no order.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*Result, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store settings")
	}
	if settings.WhatsAppNumber == nil || *settings.WhatsAppNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store contact number is not configured")
	}

	number, err := SanitizePhone(*settings.WhatsAppNumber, s.cfg.CountryCallingCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store contact number")
	}

	lines, err := s.cart.ListLines(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	body, total := buildMessage(lines)
	link := buildLink(s.cfg.MessagingScheme, number, body)
	order := snapshotOrder(userID, number, body, total, lines)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orders.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("persist order: %w", err)
		}
		return s.cart.DeleteAll(ctx, tx, userID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize checkout")
	}

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("checkout handed off order %s with %d items", order.ID, order.ItemCount))
	}
	s.publishBadge(userID)

	return &Result{OrderID: order.ID, LinkOpened: true, Link: link}, nil
}

// snapshotOrder copies the cart into a denormalized order so history survives
// catalog edits. Positions follow the cart order used by the message body.
func snapshotOrder(userID uuid.UUID, number, body string, total decimal.Decimal, lines []models.CartLine) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        enums.OrderStatusSent,
		Total:         total,
		ContactNumber: number,
		MessageBody:   body,
	}
	for i, line := range lines {
		item := models.OrderItem{
			OrderID:  order.ID,
			Quantity: line.Quantity,
			Position: i + 1,
		}
		productID := line.ProductID
		item.ProductID = &productID
		if line.Product != nil {
			item.Name = line.Product.Name
			item.TeamName = line.Product.TeamName
			item.UnitPrice = line.Product.Price
		}
		if line.Size != nil {
			item.SizeLabel = line.Size.Label
		}
		item.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		order.ItemCount += line.Quantity
		order.Items = append(order.Items, item)
	}
	return order
}

func (s *service) publishBadge(userID uuid.UUID) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(observe.Event{
		Topic:  observe.TopicCartBadge,
		UserID: userID,
		Count:  0,
	})
}
