package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID        int64
	Version   int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID            int64
	Uuid          uuid.UUID
	Title         string
	Description   string
	PriceAmount   decimal.Decimal
	PriceCurrency string
	Images        []string
	MainImage     string
	CategoryID    int64
	CreatedAt     time.Time
}

type Order struct {
	ID        int64
	Uuid      uuid.UUID
	UserID    int64
	IsClosed  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderLine struct {
	ID            int64
	OrderID       int64
	ProductID     int64
	Quantity      int64
	PriceAmount   decimal.Decimal
	PriceCurrency string
	UpdatedAt     time.Time
}
