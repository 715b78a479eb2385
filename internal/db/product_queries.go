package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const productColumns = `id, uuid, title, description, price_amount, price_currency, images, main_image, category_id, created_at`

func scanProduct(row pgx.Row) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Uuid,
		&i.Title,
		&i.Description,
		&i.PriceAmount,
		&i.PriceCurrency,
		&i.Images,
		&i.MainImage,
		&i.CategoryID,
		&i.CreatedAt,
	)
	return i, err
}

const insertProduct = `INSERT INTO products (uuid, title, description, price_amount, price_currency, images, main_image, category_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + productColumns

type InsertProductParams struct {
	Uuid          uuid.UUID
	Title         string
	Description   string
	PriceAmount   decimal.Decimal
	PriceCurrency string
	Images        []string
	MainImage     string
	CategoryID    int64
}

func (q *Queries) InsertProduct(ctx context.Context, arg InsertProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, insertProduct,
		arg.Uuid,
		arg.Title,
		arg.Description,
		arg.PriceAmount,
		arg.PriceCurrency,
		arg.Images,
		arg.MainImage,
		arg.CategoryID,
	)
	return scanProduct(row)
}

const getProduct = `SELECT ` + productColumns + `
FROM products
WHERE id = $1`

func (q *Queries) GetProduct(ctx context.Context, id int64) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

const getProductPrice = `SELECT price_amount, price_currency
FROM products
WHERE id = $1`

type GetProductPriceRow struct {
	PriceAmount   decimal.Decimal
	PriceCurrency string
}

func (q *Queries) GetProductPrice(ctx context.Context, id int64) (GetProductPriceRow, error) {
	var i GetProductPriceRow
	err := q.db.QueryRow(ctx, getProductPrice, id).Scan(&i.PriceAmount, &i.PriceCurrency)
	return i, err
}

func (q *Queries) ListProducts(ctx context.Context, arg ListParams) ([]Product, int64, error) {
	lq := buildListQuery("products", productColumns, nil, nil, arg)

	var total int64
	if err := q.db.QueryRow(ctx, lq.countSQL, lq.countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.db.Query(ctx, lq.selectSQL, lq.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Product
	for rows.Next() {
		i, err := scanProduct(rows)
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
