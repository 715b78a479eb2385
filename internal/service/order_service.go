package service

import (
	"context"
	"fmt"

	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/metrics"
	"github.com/nikolayk812/shopcore/internal/port"
	"github.com/rs/zerolog"
	"golang.org/x/text/currency"
)

type OrderService struct {
	repo      port.OrderRepository
	publisher port.OrderEventPublisher
	currency  currency.Unit
	logger    zerolog.Logger
}

// NewOrderService wires the cart. publisher may be nil, closing then emits no event.
func NewOrderService(repo port.OrderRepository, publisher port.OrderEventPublisher, storeCurrency currency.Unit, logger zerolog.Logger) *OrderService {
	if repo == nil {
		panic("order service missing required dependency order repository")
	}

	return &OrderService{
		repo:      repo,
		publisher: publisher,
		currency:  storeCurrency,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

func (s *OrderService) Currency() currency.Unit {
	return s.currency
}

// Current returns the view of the open order of the user, creating an empty one if needed.
func (s *OrderService) Current(ctx context.Context, userID int64) (domain.Order, error) {
	order, err := s.repo.GetOrCreateOpenOrder(ctx, userID)
	if err != nil {
		return order, fmt.Errorf("repo.GetOrCreateOpenOrder: %w", err)
	}
	return order.View(), nil
}

func (s *OrderService) ChangeQuantity(ctx context.Context, userID int64, change domain.ChangeQuantity) (domain.Order, error) {
	order, err := s.repo.ChangeLineQuantity(ctx, userID, change)
	if err != nil {
		return order, fmt.Errorf("repo.ChangeLineQuantity: %w", err)
	}

	s.logger.Debug().
		Int64("order_id", order.ID).
		Int64("user_id", userID).
		Int64("product_id", change.ProductID).
		Str("mode", string(change.Mode)).
		Int64("quantity", change.Quantity).
		Msg("order line changed")

	return order, nil
}

func (s *OrderService) Get(ctx context.Context, orderID int64) (domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return order, fmt.Errorf("repo.GetOrder: %w", err)
	}
	return order.View(), nil
}

func (s *OrderService) History(ctx context.Context, userID int64, query domain.PageQuery) (domain.Page[domain.Order], error) {
	page, err := s.repo.ListUserOrders(ctx, userID, query)
	if err != nil {
		return page, fmt.Errorf("repo.ListUserOrders: %w", err)
	}

	for i := range page.Items {
		page.Items[i] = page.Items[i].View()
	}

	return page, nil
}

// Close is the payment collaborator hook. The close is committed before the
// event is published, a publish failure is logged and does not undo it.
func (s *OrderService) Close(ctx context.Context, orderID int64) (domain.Order, error) {
	order, err := s.repo.CloseOrder(ctx, orderID)
	if err != nil {
		return order, fmt.Errorf("repo.CloseOrder: %w", err)
	}

	metrics.RecordOrderClosed()

	log := s.logger.With().Int64("order_id", order.ID).Int64("user_id", order.UserID).Logger()
	log.Info().Str("cost", order.Cost().StringFixed(2)).Msg("order closed")

	if s.publisher != nil {
		event := domain.NewOrderClosedEvent(order, s.currency.String())
		if err := s.publisher.PublishOrderClosed(ctx, event); err != nil {
			log.Error().Err(err).Msg("publish order closed event")
		}
	}

	return order.View(), nil
}
