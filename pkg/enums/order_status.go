package enums

// OrderStatus tracks the lifecycle of an order handed off via the messaging deep link.
// The handoff is fire-and-forget, so "sent" only means the link was produced.
type OrderStatus string

const (
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusSent, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}
