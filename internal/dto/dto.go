package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// -------- users --------

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Phone           string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

type UserProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Verified bool   `json:"verified"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// -------- products --------

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
}

// -------- cart --------

type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type CartItemView struct {
	ProductID string          `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CartView struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	Items      []*CartItemView `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// -------- payments --------

type InitiatePaymentRequest struct {
	CartID string          `json:"cart_id"`
	Amount decimal.Decimal `json:"amount"`
}

type InitiatePaymentResponse struct {
	PaymentID  string    `json:"payment_id"`
	Pidx       string    `json:"pidx"`
	PaymentURL string    `json:"payment_url"`
	CreatedAt  time.Time `json:"created_at"`
}

type VerifyPaymentRequest struct {
	Pidx string `json:"pidx"`
}

// VerifyPaymentResponse reports the settled state of one verification
// attempt. Order is set only when Status is completed.
type VerifyPaymentResponse struct {
	PaymentID     string     `json:"payment_id"`
	Pidx          string     `json:"pidx"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	Order         *OrderView `json:"order,omitempty"`
}

// -------- contact --------

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// -------- orders --------

type OrderItemView struct {
	ProductID string          `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderView struct {
	ID         string           `json:"id"`
	CartID     string           `json:"cart_id"`
	Status     string           `json:"status"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Items      []*OrderItemView `json:"items"`
	CreatedAt  time.Time        `json:"created_at"`
}
