package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type pageResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

func toPageResponse[D, T any](page domain.Page[D], mapFn func(D) T) pageResponse[T] {
	items := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, mapFn(item))
	}

	return pageResponse[T]{
		Items: items,
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
		Pages: page.Pages,
	}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// Version is a pointer so an omitted version is told apart from a sent one;
// both end up as a conflict against a stored record.
type patchCategoryRequest struct {
	Name    *string `json:"name"`
	Version *int64  `json:"version"`
}

type categoryResponse struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCategoryResponse(c domain.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Version:   c.Version,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type createProductRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	MainImage   string          `json:"main_image"`
	CategoryID  int64           `json:"category_id"`
}

func (r createProductRequest) toDomain() domain.Product {
	return domain.Product{
		Title:       r.Title,
		Description: r.Description,
		Price:       domain.Money{Amount: r.Price},
		Images:      r.Images,
		MainImage:   r.MainImage,
		CategoryID:  r.CategoryID,
	}
}

type productResponse struct {
	ID          int64     `json:"id"`
	UUID        uuid.UUID `json:"uuid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Currency    string    `json:"currency"`
	Images      []string  `json:"images"`
	MainImage   string    `json:"main_image"`
	CategoryID  int64     `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		UUID:        p.UUID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.Amount.StringFixed(2),
		Currency:    p.Price.Currency.String(),
		Images:      lo.Ternary(p.Images == nil, []string{}, p.Images),
		MainImage:   p.MainImage,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
	}
}

type changeQuantityRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Mode      string `json:"mode"`
}

func (r changeQuantityRequest) toDomain() (domain.ChangeQuantity, error) {
	mode, err := domain.ToQuantityMode(r.Mode)
	if err != nil {
		return domain.ChangeQuantity{}, err
	}

	change := domain.ChangeQuantity{
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Mode:      mode,
	}

	return change, change.Validate()
}

type orderLineResponse struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
	Total     string `json:"total"`
}

type orderResponse struct {
	ID        int64               `json:"id"`
	UUID      uuid.UUID           `json:"uuid"`
	UserID    int64               `json:"user_id"`
	IsClosed  bool                `json:"is_closed"`
	Cost      string              `json:"cost"`
	Currency  string              `json:"currency"`
	Lines     []orderLineResponse `json:"lines"`
	CreatedAt time.Time           `json:"created_at"`
}

// toOrderResponse renders the view of o: lines with a positive quantity
// ordered by product id.
func toOrderResponse(o domain.Order, unit currency.Unit) orderResponse {
	visible := o.VisibleLines()

	lines := make([]orderLineResponse, 0, len(visible))
	for _, l := range visible {
		lines = append(lines, orderLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price.Amount.StringFixed(2),
			Total:     l.Total().Amount.StringFixed(2),
		})
	}

	return orderResponse{
		ID:        o.ID,
		UUID:      o.UUID,
		UserID:    o.UserID,
		IsClosed:  o.IsClosed,
		Cost:      o.Cost().StringFixed(2),
		Currency:  unit.String(),
		Lines:     lines,
		CreatedAt: o.CreatedAt,
	}
}
