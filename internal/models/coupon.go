package models

// ApplyCouponRequest is the body of POST /user/coupon.
type ApplyCouponRequest struct {
	CouponCode string `json:"couponCode" binding:"required"`
}

// ApplyCouponResponse carries the validated discount percentage (0-100).
type ApplyCouponResponse struct {
	DiscountPercent float64 `json:"discountPercent"`
}

// Coupon is the admin-facing coupon record.
type Coupon struct {
	ID              string  `json:"id"`
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discountPercent"`
	MinOrderAmount  float64 `json:"minOrderAmount,omitempty"`
	ExpiryDate      string  `json:"expiryDate,omitempty"`
}

// CreateCouponRequest is the body of POST /admin/coupons.
type CreateCouponRequest struct {
	Code            string  `json:"code" binding:"required"`
	DiscountPercent float64 `json:"discountPercent" binding:"required,gte=0,lte=100"`
	MinOrderAmount  float64 `json:"minOrderAmount"`
	ExpiryDate      string  `json:"expiryDate"`
}
