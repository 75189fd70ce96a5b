package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRequest is the body of POST and PUT; every writable field is taken
// as given.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint            `json:"stock"`
}

// PatchProductRequest only touches the fields that are present.
type PatchProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *uint            `json:"stock"`
}

type ProductResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       uint   `json:"stock"`
	InStock     bool   `json:"in_stock"`
}

type ProductInfoResponse struct {
	Products []ProductResponse `json:"products"`
	Count    int               `json:"count"`
	MaxPrice *string           `json:"max_price"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ProductPage struct {
	Data []ProductResponse `json:"data"`
	Meta PageMeta          `json:"meta"`
}

type OrderItemRequest struct {
	ProductID uint  `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CreateOrderRequest struct {
	UserID uuid.UUID          `json:"user_id"`
	Status string             `json:"status"`
	Items  []OrderItemRequest `json:"items"`
}

// UpdateOrderRequest leaves a nil field untouched. A non-nil Items replaces
// every line of the order.
type UpdateOrderRequest struct {
	Status *string             `json:"status"`
	Items  *[]OrderItemRequest `json:"items"`
}

type OrderItemResponse struct {
	ProductID    uint   `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductPrice string `json:"product_price"`
	Quantity     uint   `json:"quantity"`
	ItemSubtotal string `json:"item_subtotal"`
}

type OrderResponse struct {
	OrderID    uuid.UUID           `json:"order_id"`
	CreatedAt  time.Time           `json:"created_at"`
	User       uuid.UUID           `json:"user"`
	Status     string              `json:"status"`
	Items      []OrderItemResponse `json:"items"`
	TotalPrice string              `json:"total_price"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
