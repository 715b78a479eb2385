package domain

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const ProductTitleMaxLen = 255

var MinProductPrice = decimal.RequireFromString("0.01")

// Product is read-only once created.
type Product struct {
	ID          int64
	UUID        uuid.UUID
	Title       string
	Description string
	Price       Money
	Images      []string
	MainImage   string
	CategoryID  int64

	CreatedAt time.Time
}

func (p Product) Validate() error {
	if !utf8.ValidString(p.Title) {
		return validationErrorf("title must be valid UTF-8")
	}

	title := strings.TrimSpace(p.Title)
	if title == "" || len(title) > ProductTitleMaxLen {
		return validationErrorf("title must be 1..%d characters", ProductTitleMaxLen)
	}

	if p.Price.Amount.LessThan(MinProductPrice) {
		return validationErrorf("price must be at least %s", MinProductPrice)
	}

	if p.CategoryID < 1 {
		return validationErrorf("category_id must be positive")
	}

	if err := validateURL(p.MainImage); err != nil {
		return validationErrorf("main_image: %s", err)
	}

	for i, img := range p.Images {
		if err := validateURL(img); err != nil {
			return validationErrorf("images[%d]: %s", i, err)
		}
	}

	return nil
}

func validateURL(s string) error {
	if s == "" {
		return errEmptyURL
	}

	_, err := url.ParseRequestURI(s)
	return err
}

var errEmptyURL = errors.New("url is empty")
