package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/policy"
	"github.com/Skotchmaster/storefront/internal/service"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

// principal returns the caller resolved by the auth middleware, or nil for
// an anonymous request.
func principal(c echo.Context) (*policy.Principal, error) {
	sub, _ := c.Get(middleware.ContextUserID).(string)
	if sub == "" {
		return nil, nil
	}
	role, _ := c.Get(middleware.ContextRole).(string)
	return service.Principal(sub, role)
}
