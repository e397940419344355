package stub

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dstore/storefront/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (s *Server) getCart(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	s.mu.RLock()
	snapshot := s.cartSnapshot(userID)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) updateCart(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	var req models.UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Quantity cannot be negative"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[req.ProductID]
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Product not found"})
		return
	}
	if req.Quantity > 0 && product.AvailableStock <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: fmt.Sprintf("%s is out of stock", product.Name)})
		return
	}
	if req.Quantity > product.AvailableStock {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: fmt.Sprintf("Only %d %s available in stock", product.AvailableStock, product.Name),
		})
		return
	}

	lines := s.carts[userID]
	found := false
	for i, line := range lines {
		if line.ProductID != req.ProductID {
			continue
		}
		found = true
		if req.Quantity == 0 {
			lines = append(lines[:i], lines[i+1:]...)
		} else {
			lines[i].Quantity = req.Quantity
		}
		break
	}
	if !found && req.Quantity > 0 {
		lines = append(lines, cartLine{ProductID: req.ProductID, Quantity: req.Quantity})
	}
	s.carts[userID] = lines

	c.JSON(http.StatusOK, s.cartSnapshot(userID))
}

func (s *Server) applyCoupon(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	var req models.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	s.mu.RLock()
	coupon, ok := s.lookupCoupon(req.CouponCode, s.cartSubtotal(userID))
	s.mu.RUnlock()

	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid coupon"})
		return
	}

	c.JSON(http.StatusOK, models.ApplyCouponResponse{DiscountPercent: coupon.DiscountPercent})
}

func (s *Server) placeOrder(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	validMethod := false
	for _, method := range []string{models.PaymentCreditCard, models.PaymentPayPal, models.PaymentOnDelivery, models.PaymentCash} {
		if req.PaymentMethod == method {
			validMethod = true
			break
		}
	}
	if !validMethod {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid payment method"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.userByID(userID)
	if u == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Unknown user"})
		return
	}

	hasAddress := false
	for _, addr := range u.Addresses {
		if addr.ID == req.AddressID {
			hasAddress = true
			break
		}
	}
	if !hasAddress {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid delivery address"})
		return
	}

	lines := s.carts[userID]
	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Your cart is empty"})
		return
	}

	// Stock may have moved since the client last fetched; re-check here.
	for _, line := range lines {
		product, ok := s.products[line.ProductID]
		if !ok || product.AvailableStock < line.Quantity {
			name := line.ProductID
			available := 0
			if ok {
				name = product.Name
				available = product.AvailableStock
			}
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Message: fmt.Sprintf("Only %d %s available in stock", available, name),
			})
			return
		}
	}

	subtotal := s.cartSubtotal(userID)
	discountPercent := 0.0
	if req.CouponCode != "" {
		coupon, ok := s.lookupCoupon(req.CouponCode, subtotal)
		if !ok {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid coupon"})
			return
		}
		discountPercent = coupon.DiscountPercent
	}

	discount := subtotal * discountPercent / 100
	order := models.Order{
		ID:            newID("order"),
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         subtotal - discount,
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		Status:        models.OrderStatusPending,
		PlacedAt:      time.Now(),
	}
	for _, line := range lines {
		product := s.products[line.ProductID]
		product.AvailableStock -= line.Quantity
		order.Items = append(order.Items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.UnitPrice,
		})
	}

	s.orders[userID] = append(s.orders[userID], order)
	s.carts[userID] = nil

	log.WithFields(log.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.Total,
	}).Info("Stub order placed")

	c.JSON(http.StatusCreated, models.OrderConfirmation{Order: order})
}

func (s *Server) listOrders(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	s.mu.RLock()
	orders := make([]models.Order, len(s.orders[userID]))
	copy(orders, s.orders[userID])
	s.mu.RUnlock()

	c.JSON(http.StatusOK, models.OrderList{Orders: orders})
}
