package httpserver

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kommerce/shop/internal/logging"
	authmw "github.com/kommerce/shop/internal/middleware/auth"
	"github.com/kommerce/shop/internal/payment"
	"github.com/kommerce/shop/internal/service"
	"github.com/kommerce/shop/internal/transport"
	"github.com/kommerce/shop/internal/util"
)

type OrderHandler struct {
	Svc *service.OrderService
	// WebhookSecret is the provider shared secret the signature is
	// computed with.
	WebhookSecret string
}

func (h *OrderHandler) Place(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response{Message: "unauthorized"})
	}

	result, err := h.Svc.PlaceOrder(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Order created. Proceed to payment.",
		"order":       result.Order,
		"payment_url": result.PaymentURL,
	})
}

func (h *OrderHandler) List(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response{Message: "unauthorized"})
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Svc.ListOrders(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"orders":  orders,
	})
}

// Webhook verifies the provider signature over the exact raw body before
// anything is parsed. A verified delivery is always acknowledged with 200,
// even when the referenced order is unknown; the provider only needs to
// hear "delivery accepted".
func (h *OrderHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.webhook")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response{Message: "failed to read request body"})
	}

	signature := c.Request().Header.Get(payment.SignatureHeader)
	if !payment.VerifySignature(h.WebhookSecret, body, signature) {
		l.Warn("webhook signature mismatch")
		return c.JSON(http.StatusUnauthorized, response{Message: "invalid signature"})
	}

	var evt transport.WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return c.JSON(http.StatusBadRequest, response{Message: "invalid payload"})
	}

	if err := h.Svc.HandlePaymentEvent(ctx, evt); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, response{Success: true, Message: "ok"})
}
