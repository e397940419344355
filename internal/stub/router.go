package stub

import (
	"net/http"
	"strings"

	"github.com/dstore/storefront/internal/metrics"
	"github.com/dstore/storefront/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserID  = "userID"
	ctxIsAdmin = "isAdmin"
)

// Router builds the gin engine serving the storefront API contracts.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.PrometheusMiddleware("stub-api"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.POST("/user/register", s.register)
	router.POST("/user/login", s.login)

	userRoutes := router.Group("/user", s.requireAuth())
	{
		userRoutes.GET("/cart", s.getCart)
		userRoutes.POST("/cart", s.updateCart)
		userRoutes.POST("/coupon", s.applyCoupon)
		userRoutes.POST("/order", s.placeOrder)
		userRoutes.GET("/orders", s.listOrders)

		userRoutes.GET("/profile", s.getProfile)
		userRoutes.POST("/address", s.addAddress)
		userRoutes.PUT("/address/:id", s.updateAddress)
		userRoutes.DELETE("/address/:id", s.deleteAddress)
		userRoutes.PUT("/password", s.changePassword)

		userRoutes.GET("/wishlist", s.getWishlist)
		userRoutes.POST("/wishlist", s.addToWishlist)
		userRoutes.DELETE("/wishlist", s.removeFromWishlist)

		userRoutes.GET("/products/:id", s.getProduct)
		userRoutes.GET("/products/category/:name", s.productsByCategory)
		userRoutes.GET("/categories", s.listCategories)
		userRoutes.GET("/search", s.search)
		userRoutes.POST("/review", s.addReview)
	}

	adminRoutes := router.Group("/admin", s.requireAuth(), s.requireAdmin())
	{
		adminRoutes.GET("/coupons", s.adminListCoupons)
		adminRoutes.POST("/coupons", s.adminCreateCoupon)
		adminRoutes.DELETE("/coupons/:id", s.adminDeleteCoupon)
		adminRoutes.GET("/orders", s.adminListOrders)
		adminRoutes.PUT("/orders/:id/status", s.adminUpdateOrderStatus)
	}

	return router
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Authorization required"})
			return
		}

		claims, err := s.issuer.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxIsAdmin, claims.Role == "admin")
		c.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Message: "Admin access required"})
			return
		}
		c.Next()
	}
}
