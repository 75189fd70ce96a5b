package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func productID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, errors.New("id is not a positive integer")
	}
	return uint(id), nil
}

func page(c echo.Context) (pageNum, offset, limit int) {
	pageNum = util.ClampPage(util.ParseIntDefault(c.QueryParam("pagenum"), 1))
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit = util.Calculate(pageNum, size)
	return pageNum, offset, limit
}

func productPage(items []transport.ProductResponse, total int64, pageNum, offset, limit int) transport.ProductPage {
	return transport.ProductPage{
		Data: items,
		Meta: transport.PageMeta{
			Page:       pageNum,
			Size:       limit,
			Total:      total,
			TotalPages: util.TotalPages(total, limit),
			HasPrev:    pageNum > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	f, err := parseProductFilter(c.QueryParams())
	if err != nil {
		var qe *queryError
		if errors.As(err, &qe) {
			return badRequest(l, "get_products", qe.field, qe.msg, err)
		}
		return invalidBody(l, "get_products", err)
	}

	pageNum, offset, limit := page(c)

	total, items, err := h.Svc.ListProducts(ctx, f, offset, limit)
	if err != nil {
		return serviceError(l, "get_products", err)
	}

	l.Info("get_products_success", "total", total)
	return c.JSON(http.StatusOK, productPage(transport.NewProductResponses(items), total, pageNum, offset, limit))
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	q := c.QueryParam("q")
	if q == "" {
		return badRequest(l, "search_products", "q", "This field is required.", nil)
	}

	pageNum, offset, limit := page(c)

	total, items, err := h.Svc.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return serviceError(l, "search_products", err)
	}

	l.Info("search_products_success", "total", total)
	return c.JSON(http.StatusOK, productPage(transport.NewProductResponses(items), total, pageNum, offset, limit))
}

func (h *CatalogHTTP) GetProductInfo(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_info")

	info, err := h.Svc.ProductInfo(ctx)
	if err != nil {
		return serviceError(l, "get_product_info", err)
	}
	return c.JSON(http.StatusOK, info)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := productID(c)
	if err != nil {
		l.Warn("get_product_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return serviceError(l, "get_product", err)
	}
	return c.JSON(http.StatusOK, transport.NewProductResponse(*p))
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	who, err := principal(c)
	if err != nil {
		return serviceError(l, "create_product", err)
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "create_product", err)
	}

	p, err := h.Svc.CreateProduct(ctx, who, req)
	if err != nil {
		return serviceError(l, "create_product", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, transport.NewProductResponse(*p))
}

func (h *CatalogHTTP) PutProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.put_product")

	who, err := principal(c)
	if err != nil {
		return serviceError(l, "put_product", err)
	}
	id, err := productID(c)
	if err != nil {
		l.Warn("put_product_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "put_product", err)
	}

	p, err := h.Svc.ReplaceProduct(ctx, who, id, req)
	if err != nil {
		return serviceError(l, "put_product", err)
	}

	l.Info("put_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, transport.NewProductResponse(*p))
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	who, err := principal(c)
	if err != nil {
		return serviceError(l, "patch_product", err)
	}
	id, err := productID(c)
	if err != nil {
		l.Warn("patch_product_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "patch_product", err)
	}

	p, err := h.Svc.PatchProduct(ctx, who, id, req)
	if err != nil {
		return serviceError(l, "patch_product", err)
	}

	l.Info("patch_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, transport.NewProductResponse(*p))
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	who, err := principal(c)
	if err != nil {
		return serviceError(l, "delete_product", err)
	}
	id, err := productID(c)
	if err != nil {
		l.Warn("delete_product_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.DeleteProduct(ctx, who, id); err != nil {
		return serviceError(l, "delete_product", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
