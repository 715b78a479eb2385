package repository_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/port"
	"github.com/nikolayk812/shopcore/internal/repository"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

type productRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      port.ProductRepository
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestProductRepositorySuite(t *testing.T) {
	suite.Run(t, new(productRepositorySuite))
}

// before all tests in the suite
func (suite *productRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewProduct(suite.pool)
}

// after all tests in the suite
func (suite *productRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *productRepositorySuite) TearDownTest() {
	truncateAll(suite.T().Context(), suite.T(), suite.pool)
}

func (suite *productRepositorySuite) TestCreateProduct() {
	category := createCategory(suite.T().Context(), suite.T(), suite.pool)
	existing := createProduct(suite.T().Context(), suite.T(), suite.pool, category.ID, "5.00")

	tests := []struct {
		name        string
		productFunc func() domain.Product
		wantError   string
	}{
		{
			name:        "valid product: ok",
			productFunc: func() domain.Product { return fakeProduct(category.ID) },
		},
		{
			name: "valid product, no extra images: ok",
			productFunc: func() domain.Product {
				p := fakeProduct(category.ID)
				p.Images = nil
				return p
			},
		},
		{
			name: "client supplied uuid is kept: ok",
			productFunc: func() domain.Product {
				p := fakeProduct(category.ID)
				p.UUID = uuid.New()
				return p
			},
		},
		{
			name: "minimal price: ok",
			productFunc: func() domain.Product {
				p := fakeProduct(category.ID)
				p.Price.Amount = decimal.RequireFromString("0.01")
				return p
			},
		},
		{
			name: "price below minimum: fail",
			productFunc: func() domain.Product {
				p := fakeProduct(category.ID)
				p.Price.Amount = decimal.RequireFromString("0.009")
				return p
			},
			wantError: "validation failed: price must be at least 0.01",
		},
		{
			name: "empty title: fail",
			productFunc: func() domain.Product {
				p := fakeProduct(category.ID)
				p.Title = "  "
				return p
			},
			wantError: "validation failed: title must be 1..255 characters",
		},
		{
			name: "missing main image: fail",
			productFunc: func() domain.Product {
				p := fakeProduct(category.ID)
				p.MainImage = ""
				return p
			},
			wantError: "validation failed: main_image: url is empty",
		},
		{
			name: "unknown category: fail",
			productFunc: func() domain.Product {
				return fakeProduct(category.ID + 1000)
			},
			wantError: "q.InsertProduct: category not found",
		},
		{
			name: "duplicate title: fail",
			productFunc: func() domain.Product {
				p := fakeProduct(category.ID)
				p.Title = existing.Title
				return p
			},
			wantError: "q.InsertProduct: already exists: products_title_key",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			product := tt.productFunc()

			created, err := suite.repo.CreateProduct(ctx, product)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assertProduct(t, product, created)
			assert.NotEqual(t, uuid.Nil, created.UUID)
			if product.UUID != uuid.Nil {
				assert.Equal(t, product.UUID, created.UUID)
			}

			actual, err := suite.repo.GetProduct(ctx, created.ID)
			require.NoError(t, err)
			assertProduct(t, product, actual)
		})
	}
}

func (suite *productRepositorySuite) TestGetProductNotFound() {
	_, err := suite.repo.GetProduct(suite.T().Context(), 424242)
	suite.EqualError(err, "q.GetProduct: not found")
}

func (suite *productRepositorySuite) TestListProducts() {
	t := suite.T()
	ctx := t.Context()

	category := createCategory(ctx, t, suite.pool)

	cheap := fakeProduct(category.ID)
	cheap.Title = "Cheap kettle"
	cheap.Description = "Plastic, one liter"
	cheap.Price.Amount = decimal.RequireFromString("9.99")

	middle := fakeProduct(category.ID)
	middle.Title = "Toaster"
	middle.Description = "Stainless steel, fits a kettle shelf"
	middle.Price.Amount = decimal.RequireFromString("49.50")

	pricey := fakeProduct(category.ID)
	pricey.Title = "Espresso machine"
	pricey.Description = "Pump driven"
	pricey.Price.Amount = decimal.RequireFromString("499.00")

	for _, p := range []domain.Product{pricey, cheap, middle} {
		_, err := suite.repo.CreateProduct(ctx, p)
		require.NoError(t, err)
	}

	tests := []struct {
		name       string
		query      domain.PageQuery
		wantTitles []string
		wantTotal  int64
	}{
		{
			name:       "default order is id asc: ok",
			query:      domain.DefaultPageQuery(),
			wantTitles: []string{"Espresso machine", "Cheap kettle", "Toaster"},
			wantTotal:  3,
		},
		{
			name:       "sort by price desc: ok",
			query:      domain.PageQuery{SortBy: "price", Direction: domain.SortDesc, Page: 1, Limit: 10},
			wantTitles: []string{"Espresso machine", "Toaster", "Cheap kettle"},
			wantTotal:  3,
		},
		{
			name:       "search matches title or description: ok",
			query:      domain.PageQuery{Q: "KETTLE", SortBy: "title", Direction: domain.SortAsc, Page: 1, Limit: 10},
			wantTitles: []string{"Cheap kettle", "Toaster"},
			wantTotal:  2,
		},
		{
			name:       "second page: ok",
			query:      domain.PageQuery{SortBy: "price", Direction: domain.SortAsc, Page: 2, Limit: 2},
			wantTitles: []string{"Espresso machine"},
			wantTotal:  3,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			page, err := suite.repo.ListProducts(t.Context(), tt.query)
			require.NoError(t, err)

			titles := lo.Map(page.Items, func(p domain.Product, _ int) string { return p.Title })
			assert.Equal(t, tt.wantTitles, titles)
			assert.Equal(t, tt.wantTotal, page.Total)
		})
	}
}
