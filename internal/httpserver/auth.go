package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "register", err)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return serviceError(l, "register", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.NewUserResponse(*user))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "login", err)
	}

	issued, err := h.Svc.Login(ctx, req)
	if err != nil {
		return serviceError(l, "login", err)
	}

	c.SetCookie(middleware.CreateCookie(middleware.AccessCookie, issued.Token, "/", issued.ExpiresAt))
	l.Info("login_success", "user_id", issued.User.ID)

	return c.JSON(http.StatusOK, transport.TokenResponse{
		AccessToken: issued.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(issued.ExpiresAt).Seconds()),
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_logout")

	c.SetCookie(middleware.DeleteCookie(middleware.AccessCookie, "/"))
	l.Info("logout_success")
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_me")

	who, err := principal(c)
	if err != nil {
		return serviceError(l, "me", err)
	}

	user, err := h.Svc.Me(ctx, who)
	if err != nil {
		return serviceError(l, "me", err)
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(*user))
}
