package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/nikolayk812/shopcore/internal/port"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const DefaultPrefix = "shopcore:product"

type productCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ port.ProductCache = (*productCache)(nil)

// NewProduct caches products under "<prefix>:<id>". Products are immutable
// once created, so entries are only ever expired by ttl.
func NewProduct(client *redis.Client, prefix string, ttl time.Duration) port.ProductCache {
	return &productCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *productCache) key(id int64) string {
	var builder strings.Builder
	builder.Grow(len(c.prefix) + 21)
	builder.WriteString(c.prefix)
	builder.WriteString(":")
	builder.WriteString(strconv.FormatInt(id, 10))
	return builder.String()
}

// GetProduct reports a miss with false and a nil error.
func (c *productCache) GetProduct(ctx context.Context, id int64) (domain.Product, bool, error) {
	var p domain.Product

	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return p, false, nil
		}
		return p, false, fmt.Errorf("client.Get: %w", err)
	}

	var entry cachedProduct
	if err := json.Unmarshal(raw, &entry); err != nil {
		return p, false, fmt.Errorf("json.Unmarshal: %w", err)
	}

	p, err = entry.toDomain()
	if err != nil {
		return p, false, fmt.Errorf("entry.toDomain: %w", err)
	}

	return p, true, nil
}

func (c *productCache) SetProduct(ctx context.Context, product domain.Product) error {
	raw, err := json.Marshal(fromDomain(product))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := c.client.Set(ctx, c.key(product.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

type cachedProduct struct {
	ID          int64           `json:"id"`
	UUID        uuid.UUID       `json:"uuid"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Images      []string        `json:"images"`
	MainImage   string          `json:"main_image"`
	CategoryID  int64           `json:"category_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

func fromDomain(p domain.Product) cachedProduct {
	return cachedProduct{
		ID:          p.ID,
		UUID:        p.UUID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.Amount,
		Currency:    p.Price.Currency.String(),
		Images:      p.Images,
		MainImage:   p.MainImage,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
	}
}

func (e cachedProduct) toDomain() (domain.Product, error) {
	unit, err := currency.ParseISO(e.Currency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", e.Currency, err)
	}

	return domain.Product{
		ID:          e.ID,
		UUID:        e.UUID,
		Title:       e.Title,
		Description: e.Description,
		Price:       domain.Money{Amount: e.Price, Currency: unit},
		Images:      e.Images,
		MainImage:   e.MainImage,
		CategoryID:  e.CategoryID,
		CreatedAt:   e.CreatedAt,
	}, nil
}
