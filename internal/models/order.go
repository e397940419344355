package models

import "time"

// OrderItem is a priced line captured at order placement time.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Order represents a placed order.
type Order struct {
	ID            string      `json:"id"`
	Items         []OrderItem `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Discount      float64     `json:"discount"`
	Total         float64     `json:"total"`
	AddressID     string      `json:"addressId"`
	PaymentMethod string      `json:"paymentMethod"`
	Status        string      `json:"status"`
	PlacedAt      time.Time   `json:"placedAt"`
}

// Order status constants.
const (
	OrderStatusPending   = "Pending"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
)

// Payment methods accepted at checkout.
const (
	PaymentCreditCard = "Credit Card"
	PaymentPayPal     = "PayPal"
	PaymentOnDelivery = "Pay on Delivery"
	PaymentCash       = "Cash"
)

// PlaceOrderRequest is the body of POST /user/order. CouponCode is optional.
type PlaceOrderRequest struct {
	AddressID     string `json:"addressId" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	CouponCode    string `json:"couponCode,omitempty"`
}

// OrderStatusUpdateRequest is the body of PUT /admin/orders/{id}/status.
type OrderStatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderConfirmation is returned after a successful order placement.
type OrderConfirmation struct {
	Order Order `json:"order"`
}

// OrderList is the response of GET /user/orders.
type OrderList struct {
	Orders []Order `json:"orders"`
}
