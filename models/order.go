package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting handling
	OrderStatusProcessing OrderStatus = "processing" // being prepared/shipped
	OrderStatusCompleted  OrderStatus = "completed"  // delivered to the customer
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ParseOrderStatus maps a request string to an OrderStatus, rejecting
// anything outside the fixed set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch strings.ToLower(s) {
	case string(OrderStatusPending):
		return OrderStatusPending, nil
	case string(OrderStatusProcessing):
		return OrderStatusProcessing, nil
	case string(OrderStatusCompleted):
		return OrderStatusCompleted, nil
	case string(OrderStatusCancelled):
		return OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(s) {
	case string(PaymentStatusUnpaid):
		return PaymentStatusUnpaid, nil
	case string(PaymentStatusPaid):
		return PaymentStatusPaid, nil
	case string(PaymentStatusRefunded):
		return PaymentStatusRefunded, nil
	default:
		return "", errors.New("invalid payment status")
	}
}

type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderRef      string        `gorm:"uniqueIndex;not null" json:"order_ref"`
	UserID        uint          `gorm:"index;not null" json:"user_id"`
	User          User          `gorm:"foreignKey:UserID" json:"user"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	ShippingCost  float64       `json:"shipping_cost"`
	GrandTotal    float64       `json:"grand_total"`
	Status        OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'unpaid'" json:"payment_status"`
	PaymentMethod string        `json:"payment_method"` // e.g. "bank_transfer", "cod"
	Address       Address       `gorm:"embedded;embeddedPrefix:ship_" json:"address"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// OrderItem is an immutable snapshot of a product at checkout time.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	LineTotal    float64 `json:"line_total"`
}
