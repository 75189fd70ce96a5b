package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

// withItems eagerly loads items and their products. The number of statements
// is fixed (orders, items, products) however many orders match.
func withItems(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Product")
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := f.apply(r.DB.WithContext(ctx).Model(&models.Order{}))

	orders := make([]models.Order, 0)
	if err := withItems(q).Order("orders.created_at ASC").Order("orders.id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := withItems(r.DB.WithContext(ctx)).Where("orders.id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	items := order.Items
	order.Items = nil

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, order.UserID); err != nil {
			return err
		}
		if err := productsExist(tx, items); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		return insertItems(tx, order.ID, items)
	})
	if err != nil {
		return nil, err
	}

	return r.GetOrder(ctx, order.ID)
}

// UpdateOrder sets the status when status is non-nil and replaces every line
// item when items is non-nil. Both happen in one transaction.
func (r *GormRepo) UpdateOrder(ctx context.Context, id uuid.UUID, status *models.OrderStatus, items *[]models.OrderItem) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}

		if status != nil {
			if err := tx.Model(&models.Order{}).Where("id = ?", id).Update("status", *status).Error; err != nil {
				return err
			}
		}

		if items != nil {
			if err := productsExist(tx, *items); err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := insertItems(tx, id, *items); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetOrder(ctx, id)
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func insertItems(tx *gorm.DB, orderID uuid.UUID, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]models.OrderItem, len(items))
	for i, it := range items {
		rows[i] = models.OrderItem{
			OrderID:   orderID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		}
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func productsExist(tx *gorm.DB, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	var n int64
	if err := tx.Model(&models.Product{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return ErrProductNotFound
	}
	return nil
}

func userExists(tx *gorm.DB, id uuid.UUID) error {
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
