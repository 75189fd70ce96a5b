package repo

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

type SortField struct {
	Column string
	Desc   bool
}

var productSortable = map[string]bool{"id": true, "name": true, "price": true, "stock": true}

// ProductFilter predicates are combined with AND.
type ProductFilter struct {
	NameIExact    string
	NameIContains string

	Price    *decimal.Decimal
	PriceLT  *decimal.Decimal
	PriceGT  *decimal.Decimal
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal

	Search      string
	InStockOnly bool

	Ordering []SortField
}

func (f ProductFilter) apply(q *gorm.DB) *gorm.DB {
	if f.NameIExact != "" {
		q = q.Where("LOWER(name) = ?", strings.ToLower(f.NameIExact))
	}
	if f.NameIContains != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(f.NameIContains))
	}
	if f.Price != nil {
		q = q.Where("price = ?", *f.Price)
	}
	if f.PriceLT != nil {
		q = q.Where("price < ?", *f.PriceLT)
	}
	if f.PriceGT != nil {
		q = q.Where("price > ?", *f.PriceGT)
	}
	if f.PriceMin != nil {
		q = q.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("price <= ?", *f.PriceMax)
	}
	if f.Search != "" {
		p := containsPattern(f.Search)
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, p, p)
	}
	if f.InStockOnly {
		q = q.Where("stock > ?", 0)
	}
	return q
}

func (f ProductFilter) order(q *gorm.DB) *gorm.DB {
	hasID := false
	for _, s := range f.Ordering {
		if !productSortable[s.Column] {
			continue
		}
		if s.Column == "id" {
			hasID = true
		}
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc})
	}
	if !hasID {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
	return q
}

type OrderFilter struct {
	OwnerID *uuid.UUID
	Status  models.OrderStatus

	CreatedAt     *time.Time
	CreatedOn     *time.Time
	CreatedBefore *time.Time
	CreatedAfter  *time.Time
}

func (f OrderFilter) apply(q *gorm.DB) *gorm.DB {
	if f.OwnerID != nil {
		q = q.Where("orders.user_id = ?", *f.OwnerID)
	}
	if f.Status != "" {
		q = q.Where("orders.status = ?", f.Status)
	}
	if f.CreatedAt != nil {
		q = q.Where("orders.created_at = ?", f.CreatedAt.UTC())
	}
	if f.CreatedOn != nil {
		day := time.Date(f.CreatedOn.Year(), f.CreatedOn.Month(), f.CreatedOn.Day(), 0, 0, 0, 0, time.UTC)
		q = q.Where("orders.created_at >= ? AND orders.created_at < ?", day, day.Add(24*time.Hour))
	}
	if f.CreatedBefore != nil {
		q = q.Where("orders.created_at < ?", f.CreatedBefore.UTC())
	}
	if f.CreatedAfter != nil {
		q = q.Where("orders.created_at > ?", f.CreatedAfter.UTC())
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
