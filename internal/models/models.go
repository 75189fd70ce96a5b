package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name        string          `gorm:"size:200;not null"             json:"name"`
	Description string          `gorm:"not null"                      json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"   json:"price"`
	Stock       uint            `gorm:"not null;default:0"            json:"stock"`
	Version     uint            `gorm:"not null;default:1"            json:"-"`
}

// InStock is derived and never stored.
func (p Product) InStock() bool {
	return p.Stock > 0
}

type Order struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"              json:"order_id"`
	UserID    uuid.UUID   `gorm:"type:uuid;index;not null"          json:"user"`
	CreatedAt time.Time   `gorm:"not null;index"                    json:"created_at"`
	Status    OrderStatus `gorm:"size:10;not null;default:Pending"  json:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}

type OrderItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"        json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"        json:"order_id"`
	ProductID uint      `gorm:"index;not null"                  json:"product_id"`
	Product   Product   `gorm:"constraint:OnDelete:CASCADE"     json:"product"`
	Quantity  uint      `gorm:"not null;check:quantity>0"       json:"quantity"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
