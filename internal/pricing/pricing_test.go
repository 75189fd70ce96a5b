package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSubtotal_Exact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price string
		qty   int64
		want  string
	}{
		{price: "19.99", qty: 2, want: "39.98"},
		{price: "0.10", qty: 3, want: "0.30"},
		{price: "0.01", qty: 100, want: "1.00"},
		{price: "99999999.99", qty: 7, want: "699999999.93"},
		{price: "0", qty: 5, want: "0"},
	}

	for _, tt := range tests {
		sub, err := Subtotal(LineItem{UnitPrice: d(tt.price), Quantity: tt.qty})
		require.NoError(t, err)
		assert.True(t, d(tt.want).Equal(sub), "%s x %d = %s, got %s", tt.price, tt.qty, tt.want, sub)
	}
}

func TestSubtotal_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		li   LineItem
	}{
		{name: "zero quantity", li: LineItem{UnitPrice: d("1.00"), Quantity: 0}},
		{name: "negative quantity", li: LineItem{UnitPrice: d("1.00"), Quantity: -2}},
		{name: "negative price", li: LineItem{UnitPrice: d("-0.01"), Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Subtotal(tt.li)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidLineItem)
		})
	}
}

func TestTotal(t *testing.T) {
	t.Parallel()

	total, err := Total(nil)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	items := []LineItem{
		{UnitPrice: d("19.99"), Quantity: 2},
		{UnitPrice: d("0.10"), Quantity: 3},
		{UnitPrice: d("5.05"), Quantity: 1},
	}
	total, err = Total(items)
	require.NoError(t, err)
	assert.Equal(t, "45.33", total.StringFixed(2))

	var sum decimal.Decimal
	for _, li := range items {
		sub, err := Subtotal(li)
		require.NoError(t, err)
		sum = sum.Add(sub)
	}
	assert.True(t, sum.Equal(total))
}

func TestTotal_InvalidItem(t *testing.T) {
	t.Parallel()

	_, err := Total([]LineItem{
		{UnitPrice: d("1.00"), Quantity: 1},
		{UnitPrice: d("1.00"), Quantity: 0},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLineItem)
	assert.Contains(t, err.Error(), "item 1")
}
