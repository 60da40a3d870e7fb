package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/kommerce/shop/internal/middleware/auth"
	"github.com/kommerce/shop/internal/service"
	"github.com/kommerce/shop/internal/transport"
)

type CartHandler struct {
	Svc *service.CartService
}

func cartProductID(c echo.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("productId"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *CartHandler) Get(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response{Message: "unauthorized"})
	}

	cart, err := h.Svc.Get(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"cart":    cart,
	})
}

func (h *CartHandler) Add(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response{Message: "unauthorized"})
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response{Message: "Product ID and a valid quantity are required"})
	}

	cart, err := h.Svc.Add(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Successfully added to cart",
		"cart":    cart,
	})
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response{Message: "unauthorized"})
	}

	productID, ok := cartProductID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, response{Message: "valid productId is required"})
	}

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response{Message: "valid quantity is required"})
	}

	cart, err := h.Svc.UpdateQuantity(c.Request().Context(), userID, productID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Cart updated",
		"cart":    cart,
	})
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response{Message: "unauthorized"})
	}

	productID, ok := cartProductID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, response{Message: "valid productId is required"})
	}

	cart, err := h.Svc.RemoveItem(c.Request().Context(), userID, productID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product removed from cart",
		"cart":    cart,
	})
}
