package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/models"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	OrderHandler   *OrderHTTP
	AuthHandler    *AuthHTTP
	JWTSecret      []byte
	// Ready reports whether backing services answer; nil means always ready.
	Ready func(ctx context.Context) error
}

// NewRouter builds the echo instance with the standard middleware chain and
// every route registered.
func NewRouter(logger *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewTokenAuth(d.JWTSecret)

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/me", d.AuthHandler.Me, authMW.RequireAuth)

	products := e.Group("/product")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/info", d.CatalogHandler.GetProductInfo)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	// Per-route middleware keeps /product free of a group catch-all route.
	adminOnly := authMW.RequireRole(models.RoleAdmin)
	products.POST("", d.CatalogHandler.CreateProduct, adminOnly)
	products.PUT("/:id", d.CatalogHandler.PutProduct, adminOnly)
	products.PATCH("/:id", d.CatalogHandler.PatchProduct, adminOnly)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct, adminOnly)

	orders := e.Group("/orders", authMW.RequireAuth)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id", d.OrderHandler.PutOrder)
	orders.PATCH("/:id", d.OrderHandler.PatchOrder)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder)
}
