package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	authmw "github.com/kommerce/shop/internal/middleware/auth"
	"github.com/kommerce/shop/internal/models"
	"github.com/kommerce/shop/internal/service"
	"github.com/kommerce/shop/internal/transport"
)

type AuthHandler struct {
	Svc *service.AuthService
}

func userView(u *models.User) transport.UserView {
	addresses := u.Addresses
	if addresses == nil {
		addresses = []models.Address{}
	}
	return transport.UserView{
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Addresses: addresses,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response{Message: "invalid body"})
	}

	user, err := h.Svc.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    userView(user),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response{Message: "invalid body"})
	}

	result, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	c.SetCookie(authmw.CreateCookie(authmw.AccessCookie, result.AccessToken, "/", result.AccessExp))
	c.SetCookie(authmw.CreateCookie(authmw.RefreshCookie, result.RefreshToken, "/", result.RefreshExp))

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Login successful",
		"user":     userView(result.User),
		"is_admin": result.IsAdmin,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(authmw.RefreshCookie); err == nil {
		if err := h.Svc.Logout(c.Request().Context(), cookie.Value); err != nil {
			return fail(c, err)
		}
	}

	expired := time.Now().Add(-time.Hour)
	c.SetCookie(authmw.CreateCookie(authmw.AccessCookie, "", "/", expired))
	c.SetCookie(authmw.CreateCookie(authmw.RefreshCookie, "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response{Message: "unauthorized"})
	}

	user, err := h.Svc.Profile(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    userView(user),
	})
}

func (h *AuthHandler) AddAddress(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response{Message: "unauthorized"})
	}

	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response{Message: "invalid body"})
	}

	user, err := h.Svc.AddAddress(c.Request().Context(), userID, req.Street, req.IsDefault)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Address added",
		"user":    userView(user),
	})
}
