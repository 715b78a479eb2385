package domain

import (
	"fmt"
	"math"
)

type QuantityMode string

// remember to add new modes to the validQuantityModes map
const (
	QuantityModeIncrease QuantityMode = "increase"
	QuantityModeDecrease QuantityMode = "decrease"
	QuantityModeSet      QuantityMode = "set"
)

var validQuantityModes = map[QuantityMode]struct{}{
	QuantityModeIncrease: {},
	QuantityModeDecrease: {},
	QuantityModeSet:      {},
}

func ToQuantityMode(s string) (QuantityMode, error) {
	mode := QuantityMode(s)
	if _, ok := validQuantityModes[mode]; ok {
		return mode, nil
	}

	return "", validationErrorf("invalid quantity mode %q", s)
}

type ChangeQuantity struct {
	ProductID int64
	Quantity  int64
	Mode      QuantityMode
}

func (c ChangeQuantity) Validate() error {
	if c.ProductID < 1 {
		return validationErrorf("product_id must be positive")
	}

	if c.Quantity < 0 {
		return validationErrorf("quantity must not be negative")
	}

	if _, err := ToQuantityMode(string(c.Mode)); err != nil {
		return err
	}

	return nil
}

// ApplyQuantity computes the new line quantity. The result never drops
// below zero: decreasing past the floor saturates at 0. An increase past
// math.MaxInt64 is rejected.
func ApplyQuantity(current, amount int64, mode QuantityMode) (int64, error) {
	var next int64

	switch mode {
	case QuantityModeIncrease:
		if amount > math.MaxInt64-current {
			return current, fmt.Errorf("ApplyQuantity: %w", validationErrorf("quantity overflows"))
		}
		next = current + amount
	case QuantityModeDecrease:
		next = current - amount
	case QuantityModeSet:
		next = amount
	default:
		return current, fmt.Errorf("ApplyQuantity: %w", validationErrorf("invalid quantity mode %q", mode))
	}

	return max(next, 0), nil
}
