package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/policy"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/events"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	// ConcealForeignOrders reports an order the caller may not read as
	// missing rather than forbidden.
	ConcealForeignOrders bool
}

// ListOrders returns the orders visible to who that also match f. Standard
// principals only ever see their own orders, whatever f.OwnerID says.
func (s *OrderService) ListOrders(ctx context.Context, who *policy.Principal, f repo.OrderFilter) ([]transport.OrderResponse, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}
	if !who.Elevated() {
		owner := who.ID
		f.OwnerID = &owner
	}

	orders, err := s.Repo.ListOrders(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]transport.OrderResponse, 0, len(orders))
	for _, o := range orders {
		view, err := transport.NewOrderResponse(o)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *OrderService) GetOrder(ctx context.Context, who *policy.Principal, id uuid.UUID) (transport.OrderResponse, error) {
	o, err := s.readableOrder(ctx, who, id)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	return transport.NewOrderResponse(*o)
}

// readableOrder loads the order and applies the read policy. Whether a
// foreign order is reported as forbidden or as missing is decided here only.
func (s *OrderService) readableOrder(ctx context.Context, who *policy.Principal, id uuid.UUID) (*models.Order, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}

	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, err
	}

	if !policy.CanReadOrder(who, o.UserID) {
		if s.ConcealForeignOrders {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: order %s belongs to another user", ErrForbidden, id)
	}
	return o, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, who *policy.Principal, req transport.CreateOrderRequest) (transport.OrderResponse, error) {
	if who == nil {
		return transport.OrderResponse{}, ErrUnauthenticated
	}
	if !policy.CanWriteOrder(who, req.UserID) {
		return transport.OrderResponse{}, fmt.Errorf("%w: creating orders requires elevated role", ErrForbidden)
	}

	if req.UserID == uuid.Nil {
		return transport.OrderResponse{}, invalid("user_id", "This field is required.")
	}

	order := &models.Order{UserID: req.UserID, Status: models.OrderStatusPending}
	if req.Status != "" {
		st, err := parseStatus(req.Status)
		if err != nil {
			return transport.OrderResponse{}, err
		}
		order.Status = st
	}

	items, err := orderLines(req.Items)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	order.Items = items

	created, err := s.Repo.CreateOrder(ctx, order)
	if err != nil {
		return transport.OrderResponse{}, mapOrderWriteError(err)
	}

	return s.orderChanged(ctx, OrderCreated, *created)
}

// UpdateOrder sets the status and/or replaces the lines. Status is an opaque
// field; any valid value may follow any other.
func (s *OrderService) UpdateOrder(ctx context.Context, who *policy.Principal, id uuid.UUID, req transport.UpdateOrderRequest) (transport.OrderResponse, error) {
	if err := s.writableOrder(ctx, who, id); err != nil {
		return transport.OrderResponse{}, err
	}

	var status *models.OrderStatus
	if req.Status != nil {
		st, err := parseStatus(*req.Status)
		if err != nil {
			return transport.OrderResponse{}, err
		}
		status = &st
	}

	var items *[]models.OrderItem
	if req.Items != nil {
		lines, err := orderLines(*req.Items)
		if err != nil {
			return transport.OrderResponse{}, err
		}
		items = &lines
	}

	updated, err := s.Repo.UpdateOrder(ctx, id, status, items)
	if err != nil {
		if repo.IsNotFound(err) {
			return transport.OrderResponse{}, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return transport.OrderResponse{}, mapOrderWriteError(err)
	}

	return s.orderChanged(ctx, OrderUpdated, *updated)
}

func (s *OrderService) DeleteOrder(ctx context.Context, who *policy.Principal, id uuid.UUID) error {
	if err := s.writableOrder(ctx, who, id); err != nil {
		return err
	}

	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return err
	}

	publish(ctx, s.Events, events.OrderTopic, id.String(), OrderEvent{
		Type:    OrderDeleted,
		OrderID: id,
		At:      time.Now().UTC(),
	})
	return nil
}

// writableOrder applies the read rule first so that a foreign order is
// reported the same way as on reads.
func (s *OrderService) writableOrder(ctx context.Context, who *policy.Principal, id uuid.UUID) error {
	o, err := s.readableOrder(ctx, who, id)
	if err != nil {
		return err
	}
	if !policy.CanWriteOrder(who, o.UserID) {
		return fmt.Errorf("%w: modifying orders requires elevated role", ErrForbidden)
	}
	return nil
}

func (s *OrderService) orderChanged(ctx context.Context, kind string, o models.Order) (transport.OrderResponse, error) {
	view, err := transport.NewOrderResponse(o)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	publish(ctx, s.Events, events.OrderTopic, o.ID.String(), OrderEvent{
		Type:    kind,
		OrderID: o.ID,
		Order:   &view,
		At:      time.Now().UTC(),
	})
	return view, nil
}

func orderLines(req []transport.OrderItemRequest) ([]models.OrderItem, error) {
	lines := make([]models.OrderItem, 0, len(req))
	for _, it := range req {
		if it.Quantity < 1 {
			return nil, invalid("items", "Ensure quantity is greater than or equal to 1.")
		}
		lines = append(lines, models.OrderItem{ProductID: it.ProductID, Quantity: uint(it.Quantity)})
	}
	if err := validateOrderLines(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func mapOrderWriteError(err error) error {
	switch {
	case errors.Is(err, repo.ErrUserNotFound):
		return invalid("user_id", "User does not exist.")
	case errors.Is(err, repo.ErrProductNotFound):
		return invalid("items", "Every product_id must reference an existing product.")
	}
	return err
}
