package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	CartStatusActive    = "active"
	CartStatusPending   = "pending"
	CartStatusPurchased = "purchased"
	CartStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

const OrderStatusPurchased = "purchased"

type User struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:128;not null"`
	Email       string `gorm:"size:255;uniqueIndex;not null"`
	Password    string `gorm:"size:255;not null"` // bcrypt hash
	Phone       string `gorm:"size:32"`
	Role        string `gorm:"size:16;not null;default:user"`
	Verified    bool   `gorm:"not null;default:false"`
	VerifyToken string `gorm:"size:64;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID          string          `gorm:"primaryKey;size:36"`
	Name        string          `gorm:"size:255;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int32           `gorm:"not null"`
	Available   bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Cart holds a user's line items. At most one cart per user is in
// active or pending status at a time.
type Cart struct {
	ID         string          `gorm:"primaryKey;size:36"`
	UserID     string          `gorm:"size:36;index;not null"`
	Status     string          `gorm:"size:16;index;not null"` // active, pending, purchased, cancelled
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Items      []CartItem      `gorm:"foreignKey:CartID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CartItem struct {
	ID        uint            `gorm:"primaryKey"`
	CartID    string          `gorm:"size:36;uniqueIndex:uniq_cart_product;not null"`
	ProductID string          `gorm:"size:36;uniqueIndex:uniq_cart_product;not null"`
	Quantity  int32           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"` // price at the time the item was added
	CreatedAt time.Time
}

// Payment tracks one gateway payment intent. Pidx is the reference
// assigned by the gateway. At most one pending payment exists per cart.
type Payment struct {
	ID            string          `gorm:"primaryKey;size:36"`
	UserID        string          `gorm:"size:36;index;not null"`
	CartID        string          `gorm:"size:36;index;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Pidx          string          `gorm:"size:64;uniqueIndex;not null"`
	PaymentURL    string          `gorm:"size:512"`
	TransactionID string          `gorm:"size:64"` // set by the gateway on completion
	Status        string          `gorm:"size:16;index;not null"` // pending, completed, failed, refunded
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Order is the immutable record of a purchased cart. The unique index on
// CartID is what makes order creation exactly-once under concurrent
// verification attempts.
type Order struct {
	ID         string          `gorm:"primaryKey;size:36"`
	UserID     string          `gorm:"size:36;index;not null"`
	CartID     string          `gorm:"size:36;uniqueIndex;not null"`
	Status     string          `gorm:"size:16;not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time
}

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:100;not null"`
	Email     string `gorm:"size:255;not null"`
	Subject   string `gorm:"size:32;not null"`
	Message   string `gorm:"size:1000;not null"`
	CreatedAt time.Time
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   string          `gorm:"size:36;index;not null"`
	ProductID string          `gorm:"size:36;index;not null"`
	Quantity  int32           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}
