package transport

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pricing"
)

func TestNewOrderResponse(t *testing.T) {
	owner := uuid.New()
	book := models.Product{ID: 1, Name: "Book", Price: decimal.RequireFromString("19.99"), Stock: 3}
	pen := models.Product{ID: 2, Name: "Pen", Price: decimal.RequireFromString("0.1"), Stock: 0}

	o := models.Order{
		ID:        uuid.New(),
		UserID:    owner,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Status:    models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: 1, Product: book, Quantity: 2},
			{ProductID: 2, Product: pen, Quantity: 3},
		},
	}

	got, err := NewOrderResponse(o)
	require.NoError(t, err)

	assert.Equal(t, o.ID, got.OrderID)
	assert.Equal(t, owner, got.User)
	assert.Equal(t, "Pending", got.Status)
	require.Len(t, got.Items, 2)
	assert.Equal(t, OrderItemResponse{ProductID: 1, ProductName: "Book", ProductPrice: "19.99", Quantity: 2, ItemSubtotal: "39.98"}, got.Items[0])
	assert.Equal(t, "0.30", got.Items[1].ItemSubtotal)
	assert.Equal(t, "40.28", got.TotalPrice)
}

func TestNewOrderResponse_EmptyOrder(t *testing.T) {
	got, err := NewOrderResponse(models.Order{ID: uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.NotNil(t, got.Items)
	assert.Equal(t, "0.00", got.TotalPrice)
}

func TestNewOrderResponse_InvalidLine(t *testing.T) {
	o := models.Order{Items: []models.OrderItem{{Product: models.Product{Price: decimal.NewFromInt(1)}, Quantity: 0}}}
	_, err := NewOrderResponse(o)
	assert.ErrorIs(t, err, pricing.ErrInvalidLineItem)
}

func TestNewProductResponse(t *testing.T) {
	got := NewProductResponse(models.Product{ID: 4, Name: "Mug", Price: decimal.NewFromInt(5), Stock: 0})
	assert.Equal(t, "5.00", got.Price)
	assert.False(t, got.InStock)
}
