package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const categoryColumns = `id, version, name, created_at, updated_at`

func scanCategory(row pgx.Row) (Category, error) {
	var i Category
	err := row.Scan(
		&i.ID,
		&i.Version,
		&i.Name,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertCategory = `INSERT INTO categories (name)
VALUES ($1)
RETURNING ` + categoryColumns

func (q *Queries) InsertCategory(ctx context.Context, name string) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, insertCategory, name))
}

const getCategory = `SELECT ` + categoryColumns + `
FROM categories
WHERE id = $1`

func (q *Queries) GetCategory(ctx context.Context, id int64) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, getCategory, id))
}

const categoryExists = `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`

func (q *Queries) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, categoryExists, id).Scan(&exists)
	return exists, err
}

// patchCategory is the compare-and-swap: the row only changes when the stored
// version still equals the expected one. NULL parameters leave columns as is.
const patchCategory = `UPDATE categories
SET name       = COALESCE($3::varchar, name),
    version    = version + 1,
    updated_at = NOW()
WHERE id = $1
  AND version = $2
RETURNING ` + categoryColumns

type PatchCategoryParams struct {
	ID              int64
	ExpectedVersion int64
	Name            *string
}

// PatchCategory returns pgx.ErrNoRows when the id is absent or the version is stale.
func (q *Queries) PatchCategory(ctx context.Context, arg PatchCategoryParams) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, patchCategory, arg.ID, arg.ExpectedVersion, arg.Name))
}

const deleteCategory = `DELETE FROM categories WHERE id = $1`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, deleteCategory, id)
}

const anyProductInCategory = `SELECT EXISTS(SELECT 1 FROM products WHERE category_id = $1)`

func (q *Queries) AnyProductInCategory(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, anyProductInCategory, categoryID).Scan(&exists)
	return exists, err
}

func (q *Queries) ListCategories(ctx context.Context, arg ListParams) ([]Category, int64, error) {
	lq := buildListQuery("categories", categoryColumns, nil, nil, arg)

	var total int64
	if err := q.db.QueryRow(ctx, lq.countSQL, lq.countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.db.Query(ctx, lq.selectSQL, lq.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Category
	for rows.Next() {
		i, err := scanCategory(rows)
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
