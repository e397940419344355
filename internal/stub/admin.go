package stub

import (
	"net/http"
	"strings"

	"github.com/dstore/storefront/internal/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) adminListCoupons(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Coupon{}
	for _, coupon := range s.coupons {
		out = append(out, *coupon)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) adminCreateCoupon(c *gin.Context) {
	var req models.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	code := strings.ToUpper(req.Code)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.coupons[code]; exists {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Coupon code already exists"})
		return
	}

	coupon := &models.Coupon{
		ID:              newID("coupon"),
		Code:            code,
		DiscountPercent: req.DiscountPercent,
		MinOrderAmount:  req.MinOrderAmount,
		ExpiryDate:      req.ExpiryDate,
	}
	s.coupons[code] = coupon

	c.JSON(http.StatusCreated, *coupon)
}

func (s *Server) adminDeleteCoupon(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for code, coupon := range s.coupons {
		if coupon.ID == id {
			delete(s.coupons, code)
			c.Status(http.StatusOK)
			return
		}
	}

	c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Coupon not found"})
}

func (s *Server) adminListOrders(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Order{}
	for _, userOrders := range s.orders {
		out = append(out, userOrders...)
	}
	c.JSON(http.StatusOK, models.OrderList{Orders: out})
}

func (s *Server) adminUpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")

	var req models.OrderStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	valid := false
	for _, status := range []string{models.OrderStatusPending, models.OrderStatusShipped, models.OrderStatusDelivered} {
		if req.Status == status {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid order status"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, userOrders := range s.orders {
		for i := range userOrders {
			if userOrders[i].ID == id {
				userOrders[i].Status = req.Status
				c.JSON(http.StatusOK, s.orders[userID][i])
				return
			}
		}
	}

	c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
}
