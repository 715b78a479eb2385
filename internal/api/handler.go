package api

import (
	"context"
	"net/http"

	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/text/currency"
)

type CategoryService interface {
	Create(ctx context.Context, name string) (domain.Category, error)
	Get(ctx context.Context, id int64) (domain.Category, error)
	List(ctx context.Context, query domain.PageQuery) (domain.Page[domain.Category], error)
	Patch(ctx context.Context, id int64, patch domain.CategoryPatch, expectedVersion int64) (domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type ProductService interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	Get(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context, query domain.PageQuery) (domain.Page[domain.Product], error)
}

type OrderService interface {
	Current(ctx context.Context, userID int64) (domain.Order, error)
	ChangeQuantity(ctx context.Context, userID int64, change domain.ChangeQuantity) (domain.Order, error)
	Get(ctx context.Context, orderID int64) (domain.Order, error)
	History(ctx context.Context, userID int64, query domain.PageQuery) (domain.Page[domain.Order], error)
	Close(ctx context.Context, orderID int64) (domain.Order, error)
	Currency() currency.Unit
}

type Handler struct {
	categories CategoryService
	products   ProductService
	orders     OrderService
	logger     zerolog.Logger
}

func NewHandler(categories CategoryService, products ProductService, orders OrderService, logger zerolog.Logger) *Handler {
	return &Handler{
		categories: categories,
		products:   products,
		orders:     orders,
		logger:     logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /api/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	category, err := h.categories.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

// GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	query, err := pageQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page, err := h.categories.List(r.Context(), query)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(page, toCategoryResponse))
}

// GET /api/categories/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

// PATCH /api/categories/{id}
func (h *Handler) PatchCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req patchCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var expectedVersion int64
	if req.Version != nil {
		expectedVersion = *req.Version
	}

	category, err := h.categories.Patch(r.Context(), id, domain.CategoryPatch{Name: req.Name}, expectedVersion)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

// DELETE /api/categories/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	product, err := h.products.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

// GET /api/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query, err := pageQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page, err := h.products.List(r.Context(), query)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(page, toProductResponse))
}

// GET /api/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// GET /api/orders/current
func (h *Handler) CurrentOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	order, err := h.orders.Current(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order, h.orders.Currency()))
}

// PATCH /api/orders/change-quantity
func (h *Handler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req changeQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	change, err := req.toDomain()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	order, err := h.orders.ChangeQuantity(r.Context(), userID, change)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order, h.orders.Currency()))
}

// GET /api/orders/history
func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	query, err := pageQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page, err := h.orders.History(r.Context(), userID, query)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	unit := h.orders.Currency()
	writeJSON(w, http.StatusOK, toPageResponse(page, func(o domain.Order) orderResponse {
		return toOrderResponse(o, unit)
	}))
}

// GET /api/orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order, h.orders.Currency()))
}

// POST /api/orders/{id}/close
func (h *Handler) CloseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	order, err := h.orders.Close(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order, h.orders.Currency()))
}
