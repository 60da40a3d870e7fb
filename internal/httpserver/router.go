package httpserver

import (
	"github.com/labstack/echo/v4"

	authmw "github.com/kommerce/shop/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	TokenService   *authmw.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/auth/register", d.AuthHandler.Register)
	v1.POST("/auth/login", d.AuthHandler.Login)
	v1.POST("/auth/logout", d.AuthHandler.Logout)
	v1.GET("/auth/profile", d.AuthHandler.Profile, d.TokenService.RequireLogin)
	v1.POST("/auth/address", d.AuthHandler.AddAddress, d.TokenService.RequireLogin)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.List)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.Get)

	admin := v1.Group("/admin", d.TokenService.RequireAdmin)
	admin.POST("/products", d.ProductHandler.Create)
	admin.PATCH("/products/:id", d.ProductHandler.Update)
	admin.DELETE("/products/:id", d.ProductHandler.Delete)

	cart := v1.Group("/cart", d.TokenService.RequireLogin)
	cart.GET("", d.CartHandler.Get)
	cart.POST("/add", d.CartHandler.Add)
	cart.PATCH("/:productId", d.CartHandler.UpdateQuantity)
	cart.DELETE("/:productId", d.CartHandler.RemoveItem)

	order := v1.Group("/order")
	order.POST("/pay", d.OrderHandler.Place, d.TokenService.RequireLogin)
	order.GET("", d.OrderHandler.List, d.TokenService.RequireLogin)
	// The provider authenticates with its signature, not a session.
	order.POST("/webhook", d.OrderHandler.Webhook)
}
