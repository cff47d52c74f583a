package commerce

import (
	"time"

	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/checkout"
	"storefront/domain/order"
	"storefront/domain/user"
)

// RegisterRequest is the sign-up payload. Field rules live in user.Credentials
// so that failures name the offending field.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest accepts a username or an email.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      *UserResponse `json:"user"`
}

// SearchRequest binds the product search query string.
type SearchRequest struct {
	Query    string  `form:"q"`
	Category string  `form:"category"`
	MinPrice float64 `form:"minPrice" binding:"omitempty,min=0"`
	MaxPrice float64 `form:"maxPrice" binding:"omitempty,min=0"`
	Sort     string  `form:"sort"`
}

// ProductListResponse wraps a product list.
type ProductListResponse struct {
	Products []catalog.Product `json:"products"`
	Count    int               `json:"count"`
}

// CartItemRequest adds a product to the cart.
type CartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest sets a line's quantity; zero removes it.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the authoritative cart.
type CartResponse struct {
	Items     []cart.Line `json:"items"`
	ItemCount int         `json:"itemCount"`
	Subtotal  float64     `json:"subtotal"`
}

type WishlistToggleRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type WishlistResponse struct {
	Items []user.WishlistEntry `json:"items"`
}

// WishlistToggleResponse reports what the toggle did.
type WishlistToggleResponse struct {
	Action user.WishlistAction  `json:"action"`
	Items  []user.WishlistEntry `json:"items"`
}

type DiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

// DiscountResponse is a valid code. Unknown codes are errors, never valid=false.
type DiscountResponse struct {
	Valid       bool    `json:"valid"`
	Code        string  `json:"code"`
	Percent     float64 `json:"percent,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Description string  `json:"description"`
}

type ShippingMethodsResponse struct {
	Methods []checkout.ShippingMethod `json:"methods"`
}

type PaymentMethodsResponse struct {
	Methods []checkout.PaymentMethod `json:"methods"`
}

// PlaceOrderRequest is what the storefront submits. Prices and totals sent by
// the client are ignored; the order is priced from the catalogue.
type PlaceOrderRequest struct {
	UserID          string             `json:"userId"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountCode    string             `json:"discountCode"`
	ShippingMethod  string             `json:"shippingMethod" binding:"required"`
	PaymentMethod   string             `json:"paymentMethod" binding:"required"`
	ShippingAddress *order.Address     `json:"shippingAddress"`
	Total           float64            `json:"total"`
}

// OrderItemRequest Order item request DTO
type OrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// OrderResponse is one placed order.
type OrderResponse struct {
	OrderID         string           `json:"orderId"`
	UserID          string           `json:"userId"`
	Status          order.Status     `json:"status"`
	Date            time.Time        `json:"date"`
	Items           []cart.Line      `json:"items"`
	Total           float64          `json:"total"`
	Summary         checkout.Summary `json:"summary"`
	DiscountCode    string           `json:"discountCode,omitempty"`
	ShippingMethod  string           `json:"shippingMethod,omitempty"`
	PaymentMethod   string           `json:"paymentMethod,omitempty"`
	ShippingAddress *order.Address   `json:"shippingAddress,omitempty"`
}

// OrderHistoryResponse carries flat history rows, one per ordered product.
type OrderHistoryResponse struct {
	Orders []order.Row `json:"orders"`
}
