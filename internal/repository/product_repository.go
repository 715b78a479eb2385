package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/shopcore/internal/db"
	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/port"
	"golang.org/x/text/currency"
)

var (
	productSortColumns   = []string{"title", "price_amount", "created_at"}
	productSearchColumns = []string{"title", "description"}
)

type productRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *productRepository) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	var p domain.Product

	if err := product.Validate(); err != nil {
		return p, err
	}

	productUUID := product.UUID
	if productUUID == uuid.Nil {
		productUUID = uuid.New()
	}

	dbProduct, err := r.q.InsertProduct(ctx, db.InsertProductParams{
		Uuid:          productUUID,
		Title:         product.Title,
		Description:   product.Description,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		Images:        emptyIfNil(product.Images),
		MainImage:     product.MainImage,
		CategoryID:    product.CategoryID,
	})
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return p, fmt.Errorf("q.InsertProduct: %w", domain.ErrCategoryNotFound)
		}
		return p, fmt.Errorf("q.InsertProduct: %w", mapError(err))
	}

	return mapDBProductToDomain(dbProduct)
}

func (r *productRepository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product

	dbProduct, err := r.q.GetProduct(ctx, id)
	if err != nil {
		return p, fmt.Errorf("q.GetProduct: %w", mapError(err))
	}

	return mapDBProductToDomain(dbProduct)
}

func (r *productRepository) ListProducts(ctx context.Context, query domain.PageQuery) (domain.Page[domain.Product], error) {
	var p domain.Page[domain.Product]

	if err := query.Validate(); err != nil {
		return p, err
	}

	// clients sort by "price", the column is price_amount
	if query.SortBy == "price" {
		query.SortBy = "price_amount"
	}

	page, err := withSnapshot(ctx, r.dbtx, func(q *db.Queries) (domain.Page[domain.Product], error) {
		dbProducts, total, err := q.ListProducts(ctx, toListParams(query, productSortColumns, productSearchColumns))
		if err != nil {
			return p, fmt.Errorf("q.ListProducts: %w", err)
		}

		items := make([]domain.Product, 0, len(dbProducts))
		for _, row := range dbProducts {
			item, err := mapDBProductToDomain(row)
			if err != nil {
				return p, fmt.Errorf("mapDBProductToDomain: %w", err)
			}
			items = append(items, item)
		}

		return domain.NewPage(items, total, query), nil
	})
	if err != nil {
		return p, fmt.Errorf("withSnapshot: %w", err)
	}

	return page, nil
}

func mapDBProductToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Product{
		ID:          row.ID,
		UUID:        row.Uuid,
		Title:       row.Title,
		Description: row.Description,
		Price:       domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Images:      row.Images,
		MainImage:   row.MainImage,
		CategoryID:  row.CategoryID,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
