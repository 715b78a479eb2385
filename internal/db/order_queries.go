package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, uuid, user_id, is_closed, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.Uuid,
		&i.UserID,
		&i.IsClosed,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getOpenOrderByUser = `SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
  AND NOT is_closed`

func (q *Queries) GetOpenOrderByUser(ctx context.Context, userID int64) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOpenOrderByUser, userID))
}

const insertOrder = `INSERT INTO orders (uuid, user_id)
VALUES ($1, $2)
RETURNING ` + orderColumns

type InsertOrderParams struct {
	Uuid   uuid.UUID
	UserID int64
}

// InsertOrder fails with a unique violation when the user already has an open order.
func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, insertOrder, arg.Uuid, arg.UserID))
}

const getOrder = `SELECT ` + orderColumns + `
FROM orders
WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id int64) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const lockOrder = getOrder + `
FOR UPDATE`

func (q *Queries) LockOrder(ctx context.Context, id int64) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, lockOrder, id))
}

const closeOrder = `UPDATE orders
SET is_closed  = TRUE,
    updated_at = NOW()
WHERE id = $1
  AND NOT is_closed
RETURNING ` + orderColumns

// CloseOrder returns pgx.ErrNoRows when the order is absent or already closed.
func (q *Queries) CloseOrder(ctx context.Context, id int64) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, closeOrder, id))
}

const touchOrder = `UPDATE orders SET updated_at = NOW() WHERE id = $1`

func (q *Queries) TouchOrder(ctx context.Context, id int64) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, touchOrder, id)
}

// ListClosedOrdersByUser pages the order history of a user. The open order is not part of it.
func (q *Queries) ListClosedOrdersByUser(ctx context.Context, userID int64, arg ListParams) ([]Order, int64, error) {
	lq := buildListQuery("orders", orderColumns, []string{"user_id = $1", "is_closed"}, []any{userID}, arg)

	var total int64
	if err := q.db.QueryRow(ctx, lq.countSQL, lq.countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.db.Query(ctx, lq.selectSQL, lq.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Order
	for rows.Next() {
		i, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

const orderLineColumns = `id, order_id, product_id, quantity, price_amount, price_currency, updated_at`

func scanOrderLine(row pgx.Row) (OrderLine, error) {
	var i OrderLine
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.ProductID,
		&i.Quantity,
		&i.PriceAmount,
		&i.PriceCurrency,
		&i.UpdatedAt,
	)
	return i, err
}

// ensureOrderLine never inserts a duplicate (order_id, product_id) pair.
const ensureOrderLine = `INSERT INTO order_lines (order_id, product_id, quantity, price_amount, price_currency)
VALUES ($1, $2, 0, $3, $4)
ON CONFLICT (order_id, product_id) DO NOTHING`

type EnsureOrderLineParams struct {
	OrderID       int64
	ProductID     int64
	PriceAmount   decimal.Decimal
	PriceCurrency string
}

func (q *Queries) EnsureOrderLine(ctx context.Context, arg EnsureOrderLineParams) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, ensureOrderLine, arg.OrderID, arg.ProductID, arg.PriceAmount, arg.PriceCurrency)
}

const lockOrderLine = `SELECT ` + orderLineColumns + `
FROM order_lines
WHERE order_id = $1
  AND product_id = $2
FOR UPDATE`

type LockOrderLineParams struct {
	OrderID   int64
	ProductID int64
}

func (q *Queries) LockOrderLine(ctx context.Context, arg LockOrderLineParams) (OrderLine, error) {
	return scanOrderLine(q.db.QueryRow(ctx, lockOrderLine, arg.OrderID, arg.ProductID))
}

const updateOrderLine = `UPDATE order_lines
SET quantity       = $2,
    price_amount   = $3,
    price_currency = $4,
    updated_at     = NOW()
WHERE id = $1`

type UpdateOrderLineParams struct {
	ID            int64
	Quantity      int64
	PriceAmount   decimal.Decimal
	PriceCurrency string
}

func (q *Queries) UpdateOrderLine(ctx context.Context, arg UpdateOrderLineParams) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, updateOrderLine, arg.ID, arg.Quantity, arg.PriceAmount, arg.PriceCurrency)
}

const getOrderLines = `SELECT ` + orderLineColumns + `
FROM order_lines
WHERE order_id = ANY($1::bigint[])
ORDER BY order_id, product_id`

// GetOrderLines returns every line of the given orders, zero quantity ones included.
func (q *Queries) GetOrderLines(ctx context.Context, orderIDs []int64) ([]OrderLine, error) {
	rows, err := q.db.Query(ctx, getOrderLines, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderLine
	for rows.Next() {
		i, err := scanOrderLine(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
