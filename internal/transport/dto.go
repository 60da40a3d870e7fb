package transport

import (
	"github.com/kommerce/shop/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddressRequest struct {
	Street    string `json:"street"`
	IsDefault bool   `json:"is_default"`
}

type UserView struct {
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	Role      string           `json:"role"`
	Addresses []models.Address `json:"addresses"`
}

type ImageRef struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type CreateProductRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       *float64   `json:"price"`
	Quantity    *uint      `json:"quantity"`
	Category    string     `json:"category"`
	Images      []ImageRef `json:"images"`
}

// UpdateProductRequest carries only the fields present in the payload;
// nil means "leave as is".
type UpdateProductRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Price       *float64   `json:"price"`
	Quantity    *uint      `json:"quantity"`
	Category    *string    `json:"category"`
	Images      []ImageRef `json:"images"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemView is a cart line expanded with the product it points at.
type CartItemView struct {
	Product   models.Product `json:"product"`
	Quantity  uint           `json:"quantity"`
	LineTotal float64        `json:"line_total"`
}

// CartView is the client-facing cart snapshot. Totals are always the result
// of recomputation over Items at current prices.
type CartView struct {
	UserID         uint           `json:"user_id"`
	Items          []CartItemView `json:"items"`
	TotalAmount    float64        `json:"total_amount"`
	TotalCartItems uint           `json:"total_cart_items"`
}

type PlaceOrderResponse struct {
	Order      *models.Order `json:"order"`
	PaymentURL string        `json:"payment_url"`
}

// WebhookEvent is the minimum shape of a provider confirmation delivery.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}
