package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Categories the catalog accepts.
var Categories = []string{"headset", "laptop", "watch", "console"}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"not null"                 json:"username"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	Addresses    []Address `gorm:"constraint:OnDelete:CASCADE" json:"addresses"`
	CreatedAt    time.Time `json:"created_at"`
}

type Address struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	UserID    uint   `gorm:"index;not null" json:"user_id"`
	Street    string `gorm:"not null"       json:"street"`
	IsDefault bool   `gorm:"default:false"  json:"is_default"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"not null"                 json:"name"`
	Description string         `gorm:"not null"                 json:"description"`
	Price       float64        `gorm:"not null;check:price>=0"  json:"price"`
	Quantity    uint           `json:"quantity"`
	Category    string         `gorm:"not null"                 json:"category"`
	Images      []ProductImage `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"not null"       json:"url"`
	PublicID  string `gorm:"not null"       json:"public_id"`
}

// Cart holds one row per user. TotalAmount and TotalItems are derived from
// the items and recomputed on every mutation, never trusted as stored.
type Cart struct {
	ID          uint       `gorm:"primaryKey"           json:"id"`
	UserID      uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items       []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount float64    `json:"total_amount"`
	TotalItems  uint       `json:"total_cart_items"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                                  json:"id"`
	CartID    uint `gorm:"index;not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_product"       json:"product_id"`
	Quantity  uint `gorm:"not null;check:quantity>0"                   json:"quantity"`
}

const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
)

// Order snapshots the cart at placement time. PaymentReference is assigned
// once from the provider response and never reassigned; pending is the only
// non-terminal payment status.
type Order struct {
	ID               uint        `gorm:"primaryKey"           json:"id"`
	UserID           uint        `gorm:"index;not null"       json:"user_id"`
	Items            []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"order_items"`
	TotalAmount      float64     `gorm:"not null"             json:"total_amount"`
	TotalItems       uint        `gorm:"not null"             json:"total_items"`
	PaymentStatus    string      `gorm:"not null;default:pending" json:"payment_status"`
	PaymentReference string      `gorm:"uniqueIndex;not null" json:"payment_reference"`
	CreatedAt        time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"not null"       json:"product_id"`
	Name      string  `gorm:"not null"       json:"name"`
	Price     float64 `gorm:"not null"       json:"price"`
	Quantity  uint    `gorm:"not null"       json:"quantity"`
}
