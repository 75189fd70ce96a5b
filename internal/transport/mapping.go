package transport

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pricing"
)

func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func NewProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       Money(p.Price),
		Stock:       p.Stock,
		InStock:     p.InStock(),
	}
}

func NewProductResponses(items []models.Product) []ProductResponse {
	out := make([]ProductResponse, len(items))
	for i, p := range items {
		out[i] = NewProductResponse(p)
	}
	return out
}

// NewOrderResponse copies the product fields of every line into the response
// and computes subtotals and the total fresh from the loaded prices.
func NewOrderResponse(o models.Order) (OrderResponse, error) {
	items := make([]OrderItemResponse, len(o.Items))
	lines := make([]pricing.LineItem, len(o.Items))

	for i, it := range o.Items {
		line := pricing.LineItem{UnitPrice: it.Product.Price, Quantity: int64(it.Quantity)}
		sub, err := pricing.Subtotal(line)
		if err != nil {
			return OrderResponse{}, fmt.Errorf("order %s: %w", o.ID, err)
		}
		lines[i] = line
		items[i] = OrderItemResponse{
			ProductID:    it.ProductID,
			ProductName:  it.Product.Name,
			ProductPrice: Money(it.Product.Price),
			Quantity:     it.Quantity,
			ItemSubtotal: Money(sub),
		}
	}

	total, err := pricing.Total(lines)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("order %s: %w", o.ID, err)
	}

	return OrderResponse{
		OrderID:    o.ID,
		CreatedAt:  o.CreatedAt,
		User:       o.UserID,
		Status:     string(o.Status),
		Items:      items,
		TotalPrice: Money(total),
	}, nil
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}
