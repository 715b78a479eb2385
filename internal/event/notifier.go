package event

import (
	"context"

	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/port"
	"github.com/rs/zerolog"
)

type logNotifier struct {
	logger zerolog.Logger
}

var _ port.OrderNotifier = (*logNotifier)(nil)

// NewLogNotifier records order notifications in the log, mail delivery is
// plugged in behind port.OrderNotifier.
func NewLogNotifier(logger zerolog.Logger) port.OrderNotifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) NotifyOrderClosed(_ context.Context, event domain.OrderClosedEvent) error {
	n.logger.Info().
		Int64("order_id", event.OrderID).
		Str("order_uuid", event.OrderUUID.String()).
		Int64("user_id", event.UserID).
		Str("cost", event.Cost.StringFixed(2)).
		Str("currency", event.Currency).
		Time("closed_at", event.ClosedAt).
		Msg("order closed, customer notified")

	return nil
}
