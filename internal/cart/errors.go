package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrLineNotFound is returned when the product has no line in the cart.
	ErrLineNotFound = errors.New("product is not in the cart")
	// ErrOutOfStock is returned when the line's product has zero stock.
	ErrOutOfStock = errors.New("product is out of stock")
	// ErrEmptyCouponCode is returned when ApplyCoupon is called with no code.
	ErrEmptyCouponCode = errors.New("enter a coupon code first")
	// ErrNoAddressSelected is returned when PlaceOrder has no address.
	ErrNoAddressSelected = errors.New("please select a delivery address")
	// ErrEmptyCart is returned when PlaceOrder is called on an empty cart.
	ErrEmptyCart = errors.New("your cart is empty")
)

// InsufficientStockError is returned when the requested quantity exceeds
// the stock ceiling reported by the catalog service at last fetch.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d %s available in stock", e.Available, e.Name)
}

// UpdateFailedError is a quantity update the service or transport rejected.
// The local cart is left unchanged.
type UpdateFailedError struct {
	Message string
	Err     error
}

func (e *UpdateFailedError) Error() string { return e.Message }
func (e *UpdateFailedError) Unwrap() error { return e.Err }

// InvalidCouponError is a coupon application the service rejected. Any
// previously applied discount is left unchanged.
type InvalidCouponError struct {
	Message string
	Err     error
}

func (e *InvalidCouponError) Error() string { return e.Message }
func (e *InvalidCouponError) Unwrap() error { return e.Err }

// OrderFailedError is an order placement the service rejected (invalid
// address, stock changed since the last fetch, payment declined). The local
// cart is left untouched.
type OrderFailedError struct {
	Message string
	Err     error
}

func (e *OrderFailedError) Error() string { return e.Message }
func (e *OrderFailedError) Unwrap() error { return e.Err }

// Generic fallbacks used when the service supplies no message.
const (
	fallbackUpdateFailed  = "Update cart failed"
	fallbackInvalidCoupon = "Invalid coupon"
	fallbackOrderFailed   = "Order failed"
	fallbackFetchFailed   = "Cart fetch failed"
)
