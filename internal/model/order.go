package model

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

const (
	PaymentCreditCard   = "credit_card"
	PaymentPaypal       = "paypal"
	PaymentBankTransfer = "bank_transfer"
)

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCreditCard, PaymentPaypal, PaymentBankTransfer:
		return true
	}
	return false
}

type Order struct {
	ID                 int64       `json:"id"`
	Number             string      `json:"number"`
	UserID             int64       `json:"user_id"`
	TotalPrice         float64     `json:"total_price"`
	DiscountPointsUsed int         `json:"discount_points_used"`
	DiscountAmount     float64     `json:"discount_amount"`
	Status             OrderStatus `json:"status"`
	ShippingAddress    string      `json:"shipping_address"`
	PaymentMethod      string      `json:"payment_method"`
	IsPaid             bool        `json:"is_paid"`
	Items              []OrderItem `json:"items,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
