package port

import (
	"context"

	"github.com/nikolayk812/shopcore/internal/domain"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	ListProducts(ctx context.Context, query domain.PageQuery) (domain.Page[domain.Product], error)
}

type ProductCache interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, bool, error)
	SetProduct(ctx context.Context, product domain.Product) error
}
