package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/port"
	"github.com/nikolayk812/shopcore/internal/repository"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

type categoryRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      port.CategoryRepository
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestCategoryRepositorySuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(categoryRepositorySuite))
}

// before all tests in the suite
func (suite *categoryRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewCategory(suite.pool)
}

// after all tests in the suite
func (suite *categoryRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *categoryRepositorySuite) TearDownTest() {
	truncateAll(suite.T().Context(), suite.T(), suite.pool)
}

func (suite *categoryRepositorySuite) TestCreateCategory() {
	existing := createCategory(suite.T().Context(), suite.T(), suite.pool)

	tests := []struct {
		name      string
		catName   string
		wantError string
	}{
		{
			name:    "valid name: ok",
			catName: "Laptops",
		},
		{
			name:    "cyrillic name, counted in runes: ok",
			catName: "Ноутбуки",
		},
		{
			name:      "too short name: fail",
			catName:   "TV",
			wantError: "validation failed: name must be 3..50 characters",
		},
		{
			name:      "duplicate name: fail",
			catName:   existing.Name,
			wantError: "q.InsertCategory: already exists: categories_name_key",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			created, err := suite.repo.CreateCategory(ctx, tt.catName)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.Positive(t, created.ID)
			assert.Equal(t, int64(1), created.Version)
			assert.Equal(t, tt.catName, created.Name)

			actual, err := suite.repo.GetCategory(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, actual)
		})
	}
}

func (suite *categoryRepositorySuite) TestGetCategoryNotFound() {
	_, err := suite.repo.GetCategory(suite.T().Context(), 424242)
	suite.EqualError(err, "q.GetCategory: not found")
	suite.ErrorIs(err, domain.ErrNotFound)
}

func (suite *categoryRepositorySuite) TestPatchCategory() {
	tests := []struct {
		name            string
		patch           domain.CategoryPatch
		missing         bool
		expectedVersion func(current int64) int64
		wantError       string
		wantName        func(old string) string
	}{
		{
			name:            "matching version, new name: ok",
			patch:           domain.CategoryPatch{Name: lo.ToPtr("Renamed category")},
			expectedVersion: func(current int64) int64 { return current },
			wantName:        func(string) string { return "Renamed category" },
		},
		{
			name:            "matching version, empty patch bumps version: ok",
			patch:           domain.CategoryPatch{},
			expectedVersion: func(current int64) int64 { return current },
			wantName:        func(old string) string { return old },
		},
		{
			name:            "stale version: fail",
			patch:           domain.CategoryPatch{Name: lo.ToPtr("Stale rename")},
			expectedVersion: func(current int64) int64 { return current + 1 },
			wantError:       "withTx: q.PatchCategory: version conflict",
		},
		{
			name:            "omitted version: fail",
			patch:           domain.CategoryPatch{Name: lo.ToPtr("No version")},
			expectedVersion: func(int64) int64 { return 0 },
			wantError:       "withTx: q.PatchCategory: version conflict",
		},
		{
			name:            "missing category: fail",
			patch:           domain.CategoryPatch{Name: lo.ToPtr("Ghost")},
			missing:         true,
			expectedVersion: func(current int64) int64 { return current },
			wantError:       "withTx: q.PatchCategory: not found",
		},
		{
			name:            "invalid name: fail",
			patch:           domain.CategoryPatch{Name: lo.ToPtr("ab")},
			expectedVersion: func(current int64) int64 { return current },
			wantError:       "validation failed: name must be 3..50 characters",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			category := createCategory(ctx, t, suite.pool)

			id := category.ID
			if tt.missing {
				id = category.ID + 1000
			}

			patched, err := suite.repo.PatchCategory(ctx, id, tt.patch, tt.expectedVersion(category.Version))
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)

				// a rejected patch leaves the row untouched
				actual, err := suite.repo.GetCategory(ctx, category.ID)
				require.NoError(t, err)
				assert.Equal(t, category, actual)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, category.Version+1, patched.Version)
			assert.Equal(t, tt.wantName(category.Name), patched.Name)
			assert.False(t, patched.UpdatedAt.Before(category.UpdatedAt))
		})
	}
}

func (suite *categoryRepositorySuite) TestPatchCategoryConcurrent() {
	t := suite.T()
	ctx := t.Context()

	category := createCategory(ctx, t, suite.pool)

	const writers = 8

	results := make([]error, writers)

	var g errgroup.Group
	for i := range writers {
		g.Go(func() error {
			name := fmt.Sprintf("Concurrent writer %d", i)
			_, results[i] = suite.repo.PatchCategory(ctx, category.ID, domain.CategoryPatch{Name: &name}, category.Version)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded := lo.CountBy(results, func(err error) bool { return err == nil })
	conflicted := lo.CountBy(results, func(err error) bool { return errors.Is(err, domain.ErrVersionConflict) })

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, conflicted)

	actual, err := suite.repo.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, category.Version+1, actual.Version)
}

func (suite *categoryRepositorySuite) TestListCategoriesDuringInserts() {
	t := suite.T()
	ctx := t.Context()

	const (
		inserts = 40
		readers = 4
	)

	query := domain.PageQuery{Direction: domain.SortAsc, Page: 1, Limit: domain.MaxPageLimit}
	done := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		for range inserts {
			if _, err := suite.repo.CreateCategory(gctx, fakeCategoryName()); err != nil {
				return err
			}
		}
		return nil
	})

	for range readers {
		g.Go(func() error {
			for {
				select {
				case <-done:
					return nil
				default:
				}

				page, err := suite.repo.ListCategories(gctx, query)
				if err != nil {
					return err
				}
				// every listing fits one page, so it must hold exactly total items
				if int64(len(page.Items)) != page.Total {
					return fmt.Errorf("page has %d items, total is %d", len(page.Items), page.Total)
				}
			}
		})
	}
	require.NoError(t, g.Wait())

	page, err := suite.repo.ListCategories(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, int64(inserts), page.Total)
	assert.Len(t, page.Items, inserts)
}

func (suite *categoryRepositorySuite) TestDeleteCategory() {
	tests := []struct {
		name         string
		withProduct  bool
		missing      bool
		wantError    string
		wantSentinel error
	}{
		{
			name: "empty category: ok",
		},
		{
			name:         "category with product: fail",
			withProduct:  true,
			wantError:    "withTx: q.AnyProductInCategory: has dependent records",
			wantSentinel: domain.ErrHasDependents,
		},
		{
			name:         "missing category: fail",
			missing:      true,
			wantError:    "withTx: q.DeleteCategory: not found",
			wantSentinel: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			category := createCategory(ctx, t, suite.pool)
			if tt.withProduct {
				createProduct(ctx, t, suite.pool, category.ID, "10.00")
			}

			id := category.ID
			if tt.missing {
				id = category.ID + 1000
			}

			err := suite.repo.DeleteCategory(ctx, id)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				require.ErrorIs(t, err, tt.wantSentinel)
				return
			}
			require.NoError(t, err)

			_, err = suite.repo.GetCategory(ctx, id)
			require.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func (suite *categoryRepositorySuite) TestListCategories() {
	t := suite.T()
	ctx := t.Context()

	var names []string
	for i := range 12 {
		name := fmt.Sprintf("Category %02d", i+1)
		_, err := suite.repo.CreateCategory(ctx, name)
		require.NoError(t, err)
		names = append(names, name)
	}
	_, err := suite.repo.CreateCategory(ctx, "Other 100%_stuff")
	require.NoError(t, err)

	tests := []struct {
		name      string
		query     domain.PageQuery
		wantNames []string
		wantTotal int64
		wantPages int64
		wantError string
	}{
		{
			name:      "third page of five: ok",
			query:     domain.PageQuery{Q: "category", Direction: domain.SortAsc, Page: 3, Limit: 5},
			wantNames: names[10:12],
			wantTotal: 12,
			wantPages: 3,
		},
		{
			name:      "sort by name desc: ok",
			query:     domain.PageQuery{Q: "category", SortBy: "name", Direction: domain.SortDesc, Page: 1, Limit: 2},
			wantNames: []string{names[11], names[10]},
			wantTotal: 12,
			wantPages: 6,
		},
		{
			name:      "unknown sort field falls back to id asc: ok",
			query:     domain.PageQuery{Q: "CATEGORY 0", SortBy: "password", Direction: domain.SortDesc, Page: 1, Limit: 3},
			wantNames: names[0:3],
			wantTotal: 9,
			wantPages: 3,
		},
		{
			name:      "wildcards are matched literally: ok",
			query:     domain.PageQuery{Q: "100%_", Direction: domain.SortAsc, Page: 1, Limit: 10},
			wantNames: []string{"Other 100%_stuff"},
			wantTotal: 1,
			wantPages: 1,
		},
		{
			name:      "page past the end: ok",
			query:     domain.PageQuery{Direction: domain.SortAsc, Page: 9, Limit: 10},
			wantTotal: 13,
			wantPages: 2,
		},
		{
			name:      "zero limit: fail",
			query:     domain.PageQuery{Direction: domain.SortAsc, Page: 1, Limit: 0},
			wantError: "validation failed: limit must be 1..50",
		},
		{
			name:      "limit above max: fail",
			query:     domain.PageQuery{Direction: domain.SortAsc, Page: 1, Limit: 51},
			wantError: "validation failed: limit must be 1..50",
		},
		{
			name:      "zero page: fail",
			query:     domain.PageQuery{Direction: domain.SortAsc, Page: 0, Limit: 5},
			wantError: "validation failed: page must be >= 1",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			page, err := suite.repo.ListCategories(t.Context(), tt.query)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			actualNames := lo.Map(page.Items, func(c domain.Category, _ int) string { return c.Name })

			assert.Equal(t, tt.wantNames, emptyToNil(actualNames))
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantPages, page.Pages)
			assert.Equal(t, tt.query.Page, page.Page)
			assert.Equal(t, tt.query.Limit, page.Limit)
		})
	}
}

func emptyToNil[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
