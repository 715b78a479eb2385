package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/shopcore/internal/db"
	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/port"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

var orderSortColumns = []string{"created_at", "updated_at"}

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *orderRepository) GetOrCreateOpenOrder(ctx context.Context, userID int64) (domain.Order, error) {
	var o domain.Order

	if err := domain.ValidateUserID(userID); err != nil {
		return o, err
	}

	order, err := inTx(ctx, r.dbtx, func(tx pgx.Tx) (domain.Order, error) {
		dbOrder, err := getOrCreateOpenOrder(ctx, tx, userID)
		if err != nil {
			return o, fmt.Errorf("getOrCreateOpenOrder: %w", err)
		}

		return loadOrder(ctx, db.New(tx), dbOrder)
	})
	if err != nil {
		return o, fmt.Errorf("inTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ChangeLineQuantity(ctx context.Context, userID int64, change domain.ChangeQuantity) (domain.Order, error) {
	var o domain.Order

	if err := domain.ValidateUserID(userID); err != nil {
		return o, err
	}
	if err := change.Validate(); err != nil {
		return o, err
	}

	order, err := inTx(ctx, r.dbtx, func(tx pgx.Tx) (domain.Order, error) {
		q := db.New(tx)

		price, err := q.GetProductPrice(ctx, change.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("q.GetProductPrice: %w", domain.ErrProductNotFound)
			}
			return o, fmt.Errorf("q.GetProductPrice: %w", err)
		}

		openOrder, err := getOrCreateOpenOrder(ctx, tx, userID)
		if err != nil {
			return o, fmt.Errorf("getOrCreateOpenOrder: %w", err)
		}

		// serializes line changes of one order and races with CloseOrder
		dbOrder, err := q.LockOrder(ctx, openOrder.ID)
		if err != nil {
			return o, fmt.Errorf("q.LockOrder: %w", mapError(err))
		}
		if dbOrder.IsClosed {
			return o, fmt.Errorf("q.LockOrder: %w", domain.ErrOrderClosed)
		}

		if _, err := q.EnsureOrderLine(ctx, db.EnsureOrderLineParams{
			OrderID:       dbOrder.ID,
			ProductID:     change.ProductID,
			PriceAmount:   price.PriceAmount,
			PriceCurrency: price.PriceCurrency,
		}); err != nil {
			return o, fmt.Errorf("q.EnsureOrderLine: %w", err)
		}

		line, err := q.LockOrderLine(ctx, db.LockOrderLineParams{
			OrderID:   dbOrder.ID,
			ProductID: change.ProductID,
		})
		if err != nil {
			return o, fmt.Errorf("q.LockOrderLine: %w", mapError(err))
		}

		quantity, err := domain.ApplyQuantity(line.Quantity, change.Quantity, change.Mode)
		if err != nil {
			return o, err
		}

		// the line always carries the catalog price of its last touch
		if _, err := q.UpdateOrderLine(ctx, db.UpdateOrderLineParams{
			ID:            line.ID,
			Quantity:      quantity,
			PriceAmount:   price.PriceAmount,
			PriceCurrency: price.PriceCurrency,
		}); err != nil {
			return o, fmt.Errorf("q.UpdateOrderLine: %w", err)
		}

		if _, err := q.TouchOrder(ctx, dbOrder.ID); err != nil {
			return o, fmt.Errorf("q.TouchOrder: %w", err)
		}

		return loadOrder(ctx, q, dbOrder)
	})
	if err != nil {
		return o, fmt.Errorf("inTx: %w", err)
	}

	return order.View(), nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOrder(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("q.GetOrder: %w", mapError(err))
		}

		return loadOrder(ctx, q, dbOrder)
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) CloseOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.CloseOrder(ctx, orderID)
		if err == nil {
			return loadOrder(ctx, q, dbOrder)
		}

		if !errors.Is(err, pgx.ErrNoRows) {
			return o, fmt.Errorf("q.CloseOrder: %w", err)
		}

		// either absent or closed before
		if _, err := q.GetOrder(ctx, orderID); err != nil {
			return o, fmt.Errorf("q.CloseOrder: %w", mapError(err))
		}

		return o, fmt.Errorf("q.CloseOrder: %w", domain.ErrOrderClosed)
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListUserOrders(ctx context.Context, userID int64, query domain.PageQuery) (domain.Page[domain.Order], error) {
	var p domain.Page[domain.Order]

	if err := domain.ValidateUserID(userID); err != nil {
		return p, err
	}
	if err := query.Validate(); err != nil {
		return p, err
	}

	page, err := withSnapshot(ctx, r.dbtx, func(q *db.Queries) (domain.Page[domain.Order], error) {
		dbOrders, total, err := q.ListClosedOrdersByUser(ctx, userID, toListParams(query, orderSortColumns, nil))
		if err != nil {
			return p, fmt.Errorf("q.ListClosedOrdersByUser: %w", err)
		}

		ids := lo.Map(dbOrders, func(o db.Order, _ int) int64 { return o.ID })

		var dbLines []db.OrderLine
		if len(ids) > 0 {
			dbLines, err = q.GetOrderLines(ctx, ids)
			if err != nil {
				return p, fmt.Errorf("q.GetOrderLines: %w", err)
			}
		}

		linesByOrder := lo.GroupBy(dbLines, func(l db.OrderLine) int64 { return l.OrderID })

		orders := make([]domain.Order, 0, len(dbOrders))
		for _, dbOrder := range dbOrders {
			order, err := mapDBOrderToDomain(dbOrder, linesByOrder[dbOrder.ID])
			if err != nil {
				return p, fmt.Errorf("mapDBOrderToDomain: %w", err)
			}
			orders = append(orders, order)
		}

		return domain.NewPage(orders, total, query), nil
	})
	if err != nil {
		return p, fmt.Errorf("withSnapshot: %w", err)
	}

	return page, nil
}

// getOrCreateOpenOrder reads the open order of the user and inserts one when
// absent. Two requests may both miss the read: the loser of the insert race
// hits the partial unique index, rolls its savepoint back and re-reads.
func getOrCreateOpenOrder(ctx context.Context, tx pgx.Tx, userID int64) (db.Order, error) {
	q := db.New(tx)

	dbOrder, err := q.GetOpenOrderByUser(ctx, userID)
	if err == nil {
		return dbOrder, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return dbOrder, fmt.Errorf("q.GetOpenOrderByUser: %w", err)
	}

	dbOrder, err = withSubTx(ctx, tx, func(sq *db.Queries) (db.Order, error) {
		return sq.InsertOrder(ctx, db.InsertOrderParams{
			Uuid:   uuid.New(),
			UserID: userID,
		})
	})
	if err == nil {
		return dbOrder, nil
	}
	if !isUniqueViolation(err) {
		return dbOrder, fmt.Errorf("q.InsertOrder: %w", err)
	}

	dbOrder, err = q.GetOpenOrderByUser(ctx, userID)
	if err != nil {
		return dbOrder, fmt.Errorf("q.GetOpenOrderByUser: %w", mapError(err))
	}

	return dbOrder, nil
}

func loadOrder(ctx context.Context, q *db.Queries, dbOrder db.Order) (domain.Order, error) {
	dbLines, err := q.GetOrderLines(ctx, []int64{dbOrder.ID})
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrderLines: %w", err)
	}

	order, err := mapDBOrderToDomain(dbOrder, dbLines)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mapDBOrderToDomain: %w", err)
	}

	return order, nil
}

func mapDBOrderLineToDomain(row db.OrderLine) (domain.OrderLine, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.OrderLine{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.OrderLine{
		ID:        row.ID,
		OrderID:   row.OrderID,
		ProductID: row.ProductID,
		Quantity:  row.Quantity,
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func mapDBOrderToDomain(dbOrder db.Order, dbLines []db.OrderLine) (domain.Order, error) {
	var lines []domain.OrderLine

	for _, row := range dbLines {
		line, err := mapDBOrderLineToDomain(row)
		if err != nil {
			return domain.Order{}, fmt.Errorf("mapDBOrderLineToDomain: %w", err)
		}

		lines = append(lines, line)
	}

	return domain.Order{
		ID:        dbOrder.ID,
		UUID:      dbOrder.Uuid,
		UserID:    dbOrder.UserID,
		IsClosed:  dbOrder.IsClosed,
		Lines:     lines,
		CreatedAt: dbOrder.CreatedAt,
		UpdatedAt: dbOrder.UpdatedAt,
	}, nil
}
