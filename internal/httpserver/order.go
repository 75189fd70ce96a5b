package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

// orderID reports a malformed id as a missing order.
func orderID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, service.ErrNotFound
	}
	return id, nil
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	who, err := principal(c)
	if err != nil {
		return serviceError(l, "get_orders", err)
	}

	f, err := parseOrderFilter(c.QueryParams())
	if err != nil {
		var qe *queryError
		if errors.As(err, &qe) {
			return badRequest(l, "get_orders", qe.field, qe.msg, err)
		}
		return invalidBody(l, "get_orders", err)
	}

	orders, err := h.Svc.ListOrders(ctx, who, f)
	if err != nil {
		return serviceError(l, "get_orders", err)
	}

	l.Info("get_orders_success", "count", len(orders))
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	who, err := principal(c)
	if err != nil {
		return serviceError(l, "get_order", err)
	}
	id, err := orderID(c)
	if err != nil {
		return serviceError(l, "get_order", err)
	}

	order, err := h.Svc.GetOrder(ctx, who, id)
	if err != nil {
		return serviceError(l, "get_order", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	who, err := principal(c)
	if err != nil {
		return serviceError(l, "create_order", err)
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "create_order", err)
	}

	order, err := h.Svc.CreateOrder(ctx, who, req)
	if err != nil {
		return serviceError(l, "create_order", err)
	}

	l.Info("create_order_success", "order_id", order.OrderID)
	return c.JSON(http.StatusCreated, order)
}

// PutOrder replaces the order: both status and items must be given.
func (h *OrderHTTP) PutOrder(c echo.Context) error {
	return h.updateOrder(c, "put_order", true)
}

func (h *OrderHTTP) PatchOrder(c echo.Context) error {
	return h.updateOrder(c, "patch_order", false)
}

func (h *OrderHTTP) updateOrder(c echo.Context, op string, full bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order."+op)

	who, err := principal(c)
	if err != nil {
		return serviceError(l, op, err)
	}
	id, err := orderID(c)
	if err != nil {
		return serviceError(l, op, err)
	}

	var req transport.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, op, err)
	}
	if full {
		if req.Status == nil {
			return badRequest(l, op, "status", "This field is required.", nil)
		}
		if req.Items == nil {
			return badRequest(l, op, "items", "This field is required.", nil)
		}
	}

	order, err := h.Svc.UpdateOrder(ctx, who, id, req)
	if err != nil {
		return serviceError(l, op, err)
	}

	l.Info(op+"_success", "order_id", order.OrderID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	who, err := principal(c)
	if err != nil {
		return serviceError(l, "delete_order", err)
	}
	id, err := orderID(c)
	if err != nil {
		return serviceError(l, "delete_order", err)
	}

	if err := h.Svc.DeleteOrder(ctx, who, id); err != nil {
		return serviceError(l, "delete_order", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}
