// Package pricing derives line-item subtotals and order totals. All arithmetic
// is exact decimal arithmetic; nothing here touches storage.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidLineItem = errors.New("invalid line item")

type LineItem struct {
	UnitPrice decimal.Decimal
	Quantity  int64
}

func (li LineItem) validate() error {
	if li.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: price %s is negative", ErrInvalidLineItem, li.UnitPrice)
	}
	if li.Quantity < 1 {
		return fmt.Errorf("%w: quantity %d must be at least 1", ErrInvalidLineItem, li.Quantity)
	}
	return nil
}

// Subtotal returns price × quantity.
func Subtotal(li LineItem) (decimal.Decimal, error) {
	if err := li.validate(); err != nil {
		return decimal.Zero, err
	}
	return li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity)), nil
}

// Total sums the subtotals of items. An empty order totals zero.
func Total(items []LineItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, li := range items {
		sub, err := Subtotal(li)
		if err != nil {
			return decimal.Zero, fmt.Errorf("item %d: %w", i, err)
		}
		total = total.Add(sub)
	}
	return total, nil
}
