package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

var uah = currency.MustParseISO("UAH")

func fakeCategoryName() string {
	// unique names, the column carries a unique key
	return fmt.Sprintf("%s %s", gofakeit.ProductCategory(), gofakeit.LetterN(8))
}

func fakeProduct(categoryID int64) domain.Product {
	return domain.Product{
		Title:       fmt.Sprintf("%s %s", gofakeit.ProductName(), gofakeit.LetterN(8)),
		Description: gofakeit.ProductDescription(),
		Price: domain.Money{
			Amount:   decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
			Currency: uah,
		},
		Images:     []string{gofakeit.URL(), gofakeit.URL()},
		MainImage:  gofakeit.URL(),
		CategoryID: categoryID,
	}
}

func createCategory(ctx context.Context, t *testing.T, pool *pgxpool.Pool) domain.Category {
	t.Helper()

	category, err := repository.NewCategory(pool).CreateCategory(ctx, fakeCategoryName())
	require.NoError(t, err)

	return category
}

func createProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, categoryID int64, price string) domain.Product {
	t.Helper()

	p := fakeProduct(categoryID)
	p.Price.Amount = decimal.RequireFromString(price)

	product, err := repository.NewProduct(pool).CreateProduct(ctx, p)
	require.NoError(t, err)

	return product
}

func truncateAll(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(ctx, "TRUNCATE TABLE order_lines, orders, products, categories RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}

var currencyComparer = cmp.Comparer(func(x, y currency.Unit) bool {
	return x.String() == y.String()
})

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})

func assertProduct(t *testing.T, expected, actual domain.Product) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Product{}, "ID", "UUID", "CreatedAt"),
		cmpopts.EquateEmpty(),
		currencyComparer,
		decimalComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.Positive(t, actual.ID)
	assert.False(t, actual.CreatedAt.IsZero())
}

// lineQuantities maps product id to quantity, zero lines included.
func lineQuantities(o domain.Order) map[int64]int64 {
	result := make(map[int64]int64, len(o.Lines))
	for _, line := range o.Lines {
		result[line.ProductID] = line.Quantity
	}
	return result
}
