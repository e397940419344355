package stub

import (
	"net/http"
	"strings"
	"time"

	"github.com/dstore/storefront/internal/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) getProduct(c *gin.Context) {
	id := c.Param("id")

	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Product not found"})
		return
	}

	reviews := make([]models.Review, len(s.reviews[id]))
	copy(reviews, s.reviews[id])
	c.JSON(http.StatusOK, models.ProductDetail{Product: *product, Reviews: reviews})
}

func (s *Server) productsByCategory(c *gin.Context) {
	name := c.Param("name")

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Product{}
	for _, id := range s.order {
		product := s.products[id]
		if strings.EqualFold(product.Category, name) {
			out = append(out, *product)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listCategories(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	out := []models.Category{}
	for _, id := range s.order {
		product := s.products[id]
		if product.Category == "" || seen[product.Category] {
			continue
		}
		seen[product.Category] = true
		out = append(out, models.Category{ID: "cat-" + strings.ToLower(product.Category), Name: product.Category})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) search(c *gin.Context) {
	query := strings.ToLower(c.Query("q"))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Product{}
	for _, id := range s.order {
		product := s.products[id]
		if query == "" || strings.Contains(strings.ToLower(product.Name), query) {
			out = append(out, *product)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) addReview(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request: " + err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[req.ProductID]
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Product not found"})
		return
	}

	userName := ""
	if u := s.userByID(userID); u != nil {
		userName = u.Name
	}

	review := models.Review{
		ID:        newID("review"),
		ProductID: req.ProductID,
		UserName:  userName,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	s.reviews[req.ProductID] = append(s.reviews[req.ProductID], review)

	// Recompute rating aggregates on the product record.
	sum := 0
	for _, r := range s.reviews[req.ProductID] {
		sum += r.Rating
	}
	product.NumReviews = len(s.reviews[req.ProductID])
	product.AvgRating = float64(sum) / float64(product.NumReviews)

	c.JSON(http.StatusCreated, review)
}
