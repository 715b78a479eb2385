package port

import (
	"context"

	"github.com/nikolayk812/shopcore/internal/domain"
)

type OrderEventPublisher interface {
	PublishOrderClosed(ctx context.Context, event domain.OrderClosedEvent) error
}

type OrderNotifier interface {
	NotifyOrderClosed(ctx context.Context, event domain.OrderClosedEvent) error
}
