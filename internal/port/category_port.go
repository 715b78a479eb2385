package port

import (
	"context"

	"github.com/nikolayk812/shopcore/internal/domain"
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, name string) (domain.Category, error)
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
	ListCategories(ctx context.Context, query domain.PageQuery) (domain.Page[domain.Category], error)

	// PatchCategory applies only supplied fields when expectedVersion equals the stored version.
	PatchCategory(ctx context.Context, id int64, patch domain.CategoryPatch, expectedVersion int64) (domain.Category, error)

	DeleteCategory(ctx context.Context, id int64) error
}
