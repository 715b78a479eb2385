package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/metrics"
	"github.com/nikolayk812/shopcore/internal/port"
	"github.com/rs/zerolog"
)

type CategoryService struct {
	repo   port.CategoryRepository
	logger zerolog.Logger
}

func NewCategoryService(repo port.CategoryRepository, logger zerolog.Logger) *CategoryService {
	if repo == nil {
		panic("category service missing required dependency category repository")
	}

	return &CategoryService{
		repo:   repo,
		logger: logger.With().Str("service", "category").Logger(),
	}
}

func (s *CategoryService) Create(ctx context.Context, name string) (domain.Category, error) {
	category, err := s.repo.CreateCategory(ctx, name)
	if err != nil {
		return category, fmt.Errorf("repo.CreateCategory: %w", err)
	}

	s.logger.Info().Int64("category_id", category.ID).Str("name", category.Name).Msg("category created")
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (domain.Category, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return category, fmt.Errorf("repo.GetCategory: %w", err)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, query domain.PageQuery) (domain.Page[domain.Category], error) {
	page, err := s.repo.ListCategories(ctx, query)
	if err != nil {
		return page, fmt.Errorf("repo.ListCategories: %w", err)
	}
	return page, nil
}

// Patch never retries a version conflict, the client has to re-read.
func (s *CategoryService) Patch(ctx context.Context, id int64, patch domain.CategoryPatch, expectedVersion int64) (domain.Category, error) {
	category, err := s.repo.PatchCategory(ctx, id, patch, expectedVersion)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			metrics.RecordVersionConflict("category")
			s.logger.Warn().Int64("category_id", id).Int64("expected_version", expectedVersion).Msg("stale category version")
		}
		return category, fmt.Errorf("repo.PatchCategory: %w", err)
	}

	s.logger.Info().Int64("category_id", id).Int64("version", category.Version).Msg("category patched")
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("repo.DeleteCategory: %w", err)
	}

	s.logger.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}
