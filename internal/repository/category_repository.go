package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/shopcore/internal/db"
	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/port"
	"github.com/samber/lo"
)

var (
	categorySortColumns   = []string{"name", "version", "created_at", "updated_at"}
	categorySearchColumns = []string{"name"}
)

type categoryRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewCategory(pool *pgxpool.Pool) port.CategoryRepository {
	return &categoryRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewCategoryWithTx(tx pgx.Tx) port.CategoryRepository {
	return &categoryRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *categoryRepository) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	var c domain.Category

	if err := domain.ValidateCategoryName(name); err != nil {
		return c, err
	}

	dbCategory, err := r.q.InsertCategory(ctx, name)
	if err != nil {
		return c, fmt.Errorf("q.InsertCategory: %w", mapError(err))
	}

	return mapDBCategoryToDomain(dbCategory), nil
}

func (r *categoryRepository) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category

	dbCategory, err := r.q.GetCategory(ctx, id)
	if err != nil {
		return c, fmt.Errorf("q.GetCategory: %w", mapError(err))
	}

	return mapDBCategoryToDomain(dbCategory), nil
}

func (r *categoryRepository) PatchCategory(ctx context.Context, id int64, patch domain.CategoryPatch, expectedVersion int64) (domain.Category, error) {
	var c domain.Category

	if err := patch.Validate(); err != nil {
		return c, err
	}

	category, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Category, error) {
		dbCategory, err := q.PatchCategory(ctx, db.PatchCategoryParams{
			ID:              id,
			ExpectedVersion: expectedVersion,
			Name:            patch.Name,
		})
		if err == nil {
			return mapDBCategoryToDomain(dbCategory), nil
		}

		if !errors.Is(err, pgx.ErrNoRows) {
			return c, fmt.Errorf("q.PatchCategory: %w", mapError(err))
		}

		// nothing matched: either the row is gone or the version is stale
		exists, err := q.CategoryExists(ctx, id)
		if err != nil {
			return c, fmt.Errorf("q.CategoryExists: %w", err)
		}
		if !exists {
			return c, fmt.Errorf("q.PatchCategory: %w", domain.ErrNotFound)
		}

		return c, fmt.Errorf("q.PatchCategory: %w", domain.ErrVersionConflict)
	})
	if err != nil {
		return c, fmt.Errorf("withTx: %w", err)
	}

	return category, nil
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	_, err := withTx(ctx, r.dbtx, func(q *db.Queries) (struct{}, error) {
		hasProducts, err := q.AnyProductInCategory(ctx, id)
		if err != nil {
			return struct{}{}, fmt.Errorf("q.AnyProductInCategory: %w", err)
		}
		if hasProducts {
			return struct{}{}, fmt.Errorf("q.AnyProductInCategory: %w", domain.ErrHasDependents)
		}

		cmdTag, err := q.DeleteCategory(ctx, id)
		if err != nil {
			// a product inserted after the guard still trips the RESTRICT key
			if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
				return struct{}{}, fmt.Errorf("q.DeleteCategory: %w", domain.ErrHasDependents)
			}
			return struct{}{}, fmt.Errorf("q.DeleteCategory: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return struct{}{}, fmt.Errorf("q.DeleteCategory: %w", domain.ErrNotFound)
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *categoryRepository) ListCategories(ctx context.Context, query domain.PageQuery) (domain.Page[domain.Category], error) {
	var p domain.Page[domain.Category]

	if err := query.Validate(); err != nil {
		return p, err
	}

	page, err := withSnapshot(ctx, r.dbtx, func(q *db.Queries) (domain.Page[domain.Category], error) {
		dbCategories, total, err := q.ListCategories(ctx, toListParams(query, categorySortColumns, categorySearchColumns))
		if err != nil {
			return p, fmt.Errorf("q.ListCategories: %w", err)
		}

		items := lo.Map(dbCategories, func(c db.Category, _ int) domain.Category {
			return mapDBCategoryToDomain(c)
		})

		return domain.NewPage(items, total, query), nil
	})
	if err != nil {
		return p, fmt.Errorf("withSnapshot: %w", err)
	}

	return page, nil
}

func mapDBCategoryToDomain(c db.Category) domain.Category {
	return domain.Category{
		ID:        c.ID,
		Version:   c.Version,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toListParams(query domain.PageQuery, sortColumns, searchColumns []string) db.ListParams {
	sortBy, direction := query.ResolveSort(sortColumns)

	return db.ListParams{
		Search:        query.Q,
		SearchColumns: searchColumns,
		SortColumn:    sortBy,
		SortDesc:      direction == domain.SortDesc,
		Limit:         query.Limit,
		Offset:        query.Offset(),
	}
}
