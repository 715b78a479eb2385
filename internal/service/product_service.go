package service

import (
	"context"
	"fmt"

	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/metrics"
	"github.com/nikolayk812/shopcore/internal/port"
	"github.com/rs/zerolog"
	"golang.org/x/text/currency"
)

type ProductService struct {
	repo     port.ProductRepository
	cache    port.ProductCache
	currency currency.Unit
	logger   zerolog.Logger
}

// NewProductService wires the catalog. Products are priced in the single
// store currency. cache may be nil.
func NewProductService(repo port.ProductRepository, cache port.ProductCache, storeCurrency currency.Unit, logger zerolog.Logger) *ProductService {
	if repo == nil {
		panic("product service missing required dependency product repository")
	}

	return &ProductService{
		repo:     repo,
		cache:    cache,
		currency: storeCurrency,
		logger:   logger.With().Str("service", "product").Logger(),
	}
}

func (s *ProductService) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	product.Price.Currency = s.currency

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return created, fmt.Errorf("repo.CreateProduct: %w", err)
	}

	s.logger.Info().Int64("product_id", created.ID).Str("title", created.Title).Msg("product created")
	return created, nil
}

// Get reads through the cache. Cache failures degrade to a database read.
func (s *ProductService) Get(ctx context.Context, id int64) (domain.Product, error) {
	if s.cache != nil {
		cached, found, err := s.cache.GetProduct(ctx, id)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Int64("product_id", id).Msg("product cache read failed")
		case found:
			metrics.RecordCacheLookup(true)
			return cached, nil
		default:
			metrics.RecordCacheLookup(false)
		}
	}

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return product, fmt.Errorf("repo.GetProduct: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product); err != nil {
			s.logger.Warn().Err(err).Int64("product_id", id).Msg("product cache write failed")
		}
	}

	return product, nil
}

func (s *ProductService) List(ctx context.Context, query domain.PageQuery) (domain.Page[domain.Product], error) {
	page, err := s.repo.ListProducts(ctx, query)
	if err != nil {
		return page, fmt.Errorf("repo.ListProducts: %w", err)
	}
	return page, nil
}
