package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EventTypeOrderClosed = "order.closed"

type OrderClosedEvent struct {
	OrderID   int64           `json:"order_id"`
	OrderUUID uuid.UUID       `json:"order_uuid"`
	UserID    int64           `json:"user_id"`
	Cost      decimal.Decimal `json:"cost"`
	Currency  string          `json:"currency"`
	ClosedAt  time.Time       `json:"closed_at"`
}

func NewOrderClosedEvent(o Order, currencyCode string) OrderClosedEvent {
	return OrderClosedEvent{
		OrderID:   o.ID,
		OrderUUID: o.UUID,
		UserID:    o.UserID,
		Cost:      o.Cost(),
		Currency:  currencyCode,
		ClosedAt:  o.UpdatedAt,
	}
}
