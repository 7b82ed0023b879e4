package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agimports/storefront-backend/pkg/db/models"
	"github.com/agimports/storefront-backend/pkg/enums"
)

// ItemDTO is one denormalized order line as it appeared in the handoff
// message.
type ItemDTO struct {
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	TeamName  string          `json:"team_name"`
	SizeLabel string          `json:"size_label"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Position  int             `json:"position"`
}

// OrderDTO is the list row for order history.
type OrderDTO struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Status    enums.OrderStatus `json:"status"`
	ItemCount int               `json:"item_count"`
	Total     decimal.Decimal   `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
}

// DetailDTO is one order with its lines and the exact message that was sent.
type DetailDTO struct {
	OrderDTO
	ContactNumber string    `json:"contact_number"`
	MessageBody   string    `json:"message_body"`
	Items         []ItemDTO `json:"items"`
}

// PageDTO is one cursor page of orders.
type PageDTO struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

// UpdateStatusRequest moves an order through its lifecycle.
type UpdateStatusRequest struct {
	Status enums.OrderStatus `json:"status" validate:"required"`
}

func orderFromModel(order models.Order) OrderDTO {
	return OrderDTO{
		ID:        order.ID,
		UserID:    order.UserID,
		Status:    order.Status,
		ItemCount: order.ItemCount,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
	}
}

func detailFromModel(order models.Order) *DetailDTO {
	detail := &DetailDTO{
		OrderDTO:      orderFromModel(order),
		ContactNumber: order.ContactNumber,
		MessageBody:   order.MessageBody,
		Items:         make([]ItemDTO, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		detail.Items = append(detail.Items, ItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			TeamName:  item.TeamName,
			SizeLabel: item.SizeLabel,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
			Position:  item.Position,
		})
	}
	return detail
}
