package domain

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Order is the cart aggregate root. At most one order per user is open
// (IsClosed == false) at any time.
type Order struct {
	ID       int64
	UUID     uuid.UUID
	UserID   int64
	IsClosed bool
	Lines    []OrderLine

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine is unique per (OrderID, ProductID). A zero quantity line is kept
// in storage as a history marker and hidden from views and cost.
type OrderLine struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int64
	Price     Money

	UpdatedAt time.Time
}

func (l OrderLine) Total() Money {
	return l.Price.Times(l.Quantity)
}

// Cost sums line totals over lines with a positive quantity.
func (o Order) Cost() decimal.Decimal {
	cost := decimal.Zero
	for _, line := range o.Lines {
		if line.Quantity > 0 {
			cost = cost.Add(line.Total().Amount)
		}
	}
	return cost
}

// VisibleLines returns lines with a positive quantity ordered by product id.
func (o Order) VisibleLines() []OrderLine {
	lines := lo.Filter(o.Lines, func(l OrderLine, _ int) bool {
		return l.Quantity > 0
	})

	slices.SortFunc(lines, func(a, b OrderLine) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})

	return lines
}

// View is the client facing shape of the order.
func (o Order) View() Order {
	v := o
	v.Lines = o.VisibleLines()
	return v
}

