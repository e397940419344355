// Package stub is an in-memory stand-in for the remote Catalog & Order
// Service, implementing the request/response contracts the storefront
// client consumes. It exists for local development and integration tests;
// the production service is not part of this repository.
package stub

import (
	"strings"
	"sync"
	"time"

	"github.com/dstore/storefront/internal/auth"
	"github.com/dstore/storefront/internal/models"
	"github.com/google/uuid"
)

type user struct {
	ID        string
	Name      string
	Email     string
	Password  string
	IsAdmin   bool
	Addresses []models.Address
}

type cartLine struct {
	ProductID string
	Quantity  int
}

// Server holds all service state in memory behind one lock.
type Server struct {
	issuer *auth.Issuer

	mu        sync.RWMutex
	products  map[string]*models.Product
	order     []string // product listing order
	users     map[string]*user
	carts     map[string][]cartLine // userID -> ordered lines
	wishlists map[string][]string
	reviews   map[string][]models.Review
	coupons   map[string]*models.Coupon // code -> coupon
	orders    map[string][]models.Order
}

// NewServer creates a stub seeded with sample grocery data, a customer
// account (shopper@dstore.test / shopper123), an admin account
// (admin@dstore.test / admin123) and the coupon FRESH15 (15% off).
func NewServer(issuer *auth.Issuer) *Server {
	s := &Server{
		issuer:    issuer,
		products:  make(map[string]*models.Product),
		users:     make(map[string]*user),
		carts:     make(map[string][]cartLine),
		wishlists: make(map[string][]string),
		reviews:   make(map[string][]models.Review),
		coupons:   make(map[string]*models.Coupon),
		orders:    make(map[string][]models.Order),
	}

	seed := []*models.Product{
		{ID: "prod-1", Name: "Bananas", Category: "Fruits", UnitPrice: 1.29, AvailableStock: 150},
		{ID: "prod-2", Name: "Whole Milk 1L", Category: "Dairy", UnitPrice: 2.49, AvailableStock: 80},
		{ID: "prod-3", Name: "Sourdough Bread", Category: "Bakery", UnitPrice: 4.99, AvailableStock: 25},
		{ID: "prod-4", Name: "Free-Range Eggs (12)", Category: "Dairy", UnitPrice: 5.79, AvailableStock: 40},
		{ID: "prod-5", Name: "Cherry Tomatoes 250g", Category: "Vegetables", UnitPrice: 3.49, AvailableStock: 60},
		{ID: "prod-6", Name: "Saffron 1g", Category: "Spices", UnitPrice: 12.99, AvailableStock: 0},
	}
	for _, p := range seed {
		s.products[p.ID] = p
		s.order = append(s.order, p.ID)
	}

	s.users["shopper@dstore.test"] = &user{
		ID:       "user-shopper",
		Name:     "Sample Shopper",
		Email:    "shopper@dstore.test",
		Password: "shopper123",
		Addresses: []models.Address{
			{ID: "addr-1", Street: "12 Market Street", City: "Springfield", State: "IL", Zip: "62701", Country: "USA"},
		},
	}
	s.users["admin@dstore.test"] = &user{
		ID:       "user-admin",
		Name:     "Store Admin",
		Email:    "admin@dstore.test",
		Password: "admin123",
		IsAdmin:  true,
	}

	s.coupons["FRESH15"] = &models.Coupon{
		ID:              "coupon-1",
		Code:            "FRESH15",
		DiscountPercent: 15,
		ExpiryDate:      time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
	}

	return s
}

func (s *Server) userByID(id string) *user {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// cartSnapshot joins the user's lines with current product price and stock.
// Caller must hold at least a read lock.
func (s *Server) cartSnapshot(userID string) models.Cart {
	snapshot := models.Cart{Items: []models.CartItem{}}
	for _, line := range s.carts[userID] {
		product, ok := s.products[line.ProductID]
		if !ok {
			continue
		}
		snapshot.Items = append(snapshot.Items, models.CartItem{
			Product:  *product,
			Quantity: line.Quantity,
		})
	}
	return snapshot
}

// cartSubtotal computes the subtotal of the user's cart at current prices.
// Caller must hold at least a read lock.
func (s *Server) cartSubtotal(userID string) float64 {
	subtotal := 0.0
	for _, line := range s.carts[userID] {
		if product, ok := s.products[line.ProductID]; ok {
			subtotal += product.UnitPrice * float64(line.Quantity)
		}
	}
	return subtotal
}

// lookupCoupon validates a code against expiry and minimum order amount.
// Caller must hold at least a read lock.
func (s *Server) lookupCoupon(code string, subtotal float64) (*models.Coupon, bool) {
	coupon, ok := s.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, false
	}
	if coupon.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", coupon.ExpiryDate)
		if err != nil || time.Now().After(expiry.AddDate(0, 0, 1)) {
			return nil, false
		}
	}
	if subtotal < coupon.MinOrderAmount {
		return nil, false
	}
	return coupon, true
}

func newID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}
