package port

import (
	"context"

	"github.com/nikolayk812/shopcore/internal/domain"
)

type OrderRepository interface {
	// GetOrCreateOpenOrder returns the single open order of the user, creating it if needed.
	GetOrCreateOpenOrder(ctx context.Context, userID int64) (domain.Order, error)

	// ChangeLineQuantity returns the order view: positive lines sorted by product id.
	ChangeLineQuantity(ctx context.Context, userID int64, change domain.ChangeQuantity) (domain.Order, error)

	GetOrder(ctx context.Context, orderID int64) (domain.Order, error)
	ListUserOrders(ctx context.Context, userID int64, query domain.PageQuery) (domain.Page[domain.Order], error)

	CloseOrder(ctx context.Context, orderID int64) (domain.Order, error)
}
