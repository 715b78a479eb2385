package service_test

import (
	"context"

	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockCategoryRepository struct {
	mock.Mock
}

func (m *mockCategoryRepository) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) ListCategories(ctx context.Context, query domain.PageQuery) (domain.Page[domain.Category], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.Page[domain.Category]), args.Error(1)
}

func (m *mockCategoryRepository) PatchCategory(ctx context.Context, id int64, patch domain.CategoryPatch, expectedVersion int64) (domain.Category, error) {
	args := m.Called(ctx, id, patch, expectedVersion)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductRepository) ListProducts(ctx context.Context, query domain.PageQuery) (domain.Page[domain.Product], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.Page[domain.Product]), args.Error(1)
}

type mockProductCache struct {
	mock.Mock
}

func (m *mockProductCache) GetProduct(ctx context.Context, id int64) (domain.Product, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Bool(1), args.Error(2)
}

func (m *mockProductCache) SetProduct(ctx context.Context, product domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) GetOrCreateOpenOrder(ctx context.Context, userID int64) (domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrderRepository) ChangeLineQuantity(ctx context.Context, userID int64, change domain.ChangeQuantity) (domain.Order, error) {
	args := m.Called(ctx, userID, change)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrderRepository) GetOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrderRepository) ListUserOrders(ctx context.Context, userID int64, query domain.PageQuery) (domain.Page[domain.Order], error) {
	args := m.Called(ctx, userID, query)
	return args.Get(0).(domain.Page[domain.Order]), args.Error(1)
}

func (m *mockOrderRepository) CloseOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(domain.Order), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishOrderClosed(ctx context.Context, event domain.OrderClosedEvent) error {
	return m.Called(ctx, event).Error(0)
}
