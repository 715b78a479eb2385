package api_test

import (
	"context"

	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/stretchr/testify/mock"
	"golang.org/x/text/currency"
)

var uah = currency.MustParseISO("UAH")

type mockCategoryService struct {
	mock.Mock
}

func (m *mockCategoryService) Create(ctx context.Context, name string) (domain.Category, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *mockCategoryService) Get(ctx context.Context, id int64) (domain.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *mockCategoryService) List(ctx context.Context, query domain.PageQuery) (domain.Page[domain.Category], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.Page[domain.Category]), args.Error(1)
}

func (m *mockCategoryService) Patch(ctx context.Context, id int64, patch domain.CategoryPatch, expectedVersion int64) (domain.Category, error) {
	args := m.Called(ctx, id, patch, expectedVersion)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *mockCategoryService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductService) Get(ctx context.Context, id int64) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductService) List(ctx context.Context, query domain.PageQuery) (domain.Page[domain.Product], error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.Page[domain.Product]), args.Error(1)
}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) Current(ctx context.Context, userID int64) (domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrderService) ChangeQuantity(ctx context.Context, userID int64, change domain.ChangeQuantity) (domain.Order, error) {
	args := m.Called(ctx, userID, change)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrderService) Get(ctx context.Context, orderID int64) (domain.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrderService) History(ctx context.Context, userID int64, query domain.PageQuery) (domain.Page[domain.Order], error) {
	args := m.Called(ctx, userID, query)
	return args.Get(0).(domain.Page[domain.Order]), args.Error(1)
}

func (m *mockOrderService) Close(ctx context.Context, orderID int64) (domain.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrderService) Currency() currency.Unit {
	return uah
}
