package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kommerce/shop/internal/logging"
	"github.com/kommerce/shop/internal/service"
)

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// fail maps service sentinels onto status codes. Anything unrecognized is a
// store-level failure and must not leak its text to the client.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, response{Message: err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, response{Message: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, response{Message: err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, response{Message: err.Error()})
	case errors.Is(err, service.ErrProvider):
		return c.JSON(http.StatusBadGateway, response{Message: err.Error()})
	default:
		logging.FromContext(c.Request().Context()).Error("internal error", "error", err)
		return c.JSON(http.StatusInternalServerError, response{Message: "internal server error"})
	}
}
