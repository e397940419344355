package stub

import (
	"net/http"

	"github.com/dstore/storefront/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (s *Server) register(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	s.mu.Lock()
	if _, exists := s.users[req.Email]; exists {
		s.mu.Unlock()
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Email already registered"})
		return
	}
	u := &user{
		ID:       newID("user"),
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	s.users[req.Email] = u
	s.mu.Unlock()

	token, err := s.issuer.GenerateToken(u.ID, u.Email, "customer")
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Token generation failed"})
		return
	}

	log.WithField("email", req.Email).Info("Stub user registered")
	c.JSON(http.StatusCreated, models.AuthResponse{Token: token})
}

func (s *Server) login(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	s.mu.RLock()
	u, exists := s.users[req.Email]
	s.mu.RUnlock()

	if !exists || u.Password != req.Password {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid email or password"})
		return
	}

	role := "customer"
	if u.IsAdmin {
		role = "admin"
	}
	token, err := s.issuer.GenerateToken(u.ID, u.Email, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Token generation failed"})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{Token: token})
}

func (s *Server) getProfile(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.userByID(userID)
	if u == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "User not found"})
		return
	}

	addresses := make([]models.Address, len(u.Addresses))
	copy(addresses, u.Addresses)
	c.JSON(http.StatusOK, models.Profile{
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		Addresses: addresses,
	})
}

func (s *Server) addAddress(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.userByID(userID)
	if u == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "User not found"})
		return
	}

	addr := models.Address{
		ID:      newID("addr"),
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		Zip:     req.Zip,
		Country: req.Country,
	}
	u.Addresses = append(u.Addresses, addr)
	c.JSON(http.StatusCreated, addr)
}

func (s *Server) updateAddress(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	addrID := c.Param("id")

	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.userByID(userID)
	if u == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "User not found"})
		return
	}

	for i := range u.Addresses {
		if u.Addresses[i].ID != addrID {
			continue
		}
		u.Addresses[i] = models.Address{
			ID:      addrID,
			Street:  req.Street,
			City:    req.City,
			State:   req.State,
			Zip:     req.Zip,
			Country: req.Country,
		}
		c.JSON(http.StatusOK, u.Addresses[i])
		return
	}

	c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Address not found"})
}

func (s *Server) deleteAddress(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	addrID := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.userByID(userID)
	if u == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "User not found"})
		return
	}

	for i := range u.Addresses {
		if u.Addresses[i].ID == addrID {
			u.Addresses = append(u.Addresses[:i], u.Addresses[i+1:]...)
			c.Status(http.StatusOK)
			return
		}
	}

	c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Address not found"})
}

func (s *Server) changePassword(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.userByID(userID)
	if u == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "User not found"})
		return
	}
	if u.Password != req.OldPassword {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Old password is incorrect"})
		return
	}

	u.Password = req.NewPassword
	c.Status(http.StatusOK)
}

// wishlistSnapshot resolves wishlisted product IDs against the catalog.
// Caller must hold at least a read lock.
func (s *Server) wishlistSnapshot(userID string) models.Wishlist {
	snapshot := models.Wishlist{Products: []models.Product{}}
	for _, id := range s.wishlists[userID] {
		if product, ok := s.products[id]; ok {
			snapshot.Products = append(snapshot.Products, *product)
		}
	}
	return snapshot
}

func (s *Server) getWishlist(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	s.mu.RLock()
	snapshot := s.wishlistSnapshot(userID)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) addToWishlist(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	var req models.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[req.ProductID]; !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Product not found"})
		return
	}

	already := false
	for _, id := range s.wishlists[userID] {
		if id == req.ProductID {
			already = true
			break
		}
	}
	if !already {
		s.wishlists[userID] = append(s.wishlists[userID], req.ProductID)
	}

	c.JSON(http.StatusOK, s.wishlistSnapshot(userID))
}

func (s *Server) removeFromWishlist(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	var req models.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.wishlists[userID]
	for i, id := range ids {
		if id == req.ProductID {
			s.wishlists[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	c.JSON(http.StatusOK, s.wishlistSnapshot(userID))
}
