package wishlist

import (
	"context"
	"sync"

	"github.com/dstore/storefront/internal/models"
	log "github.com/sirupsen/logrus"
)

// Service is the slice of the storefront API the wishlist view consumes.
type Service interface {
	Wishlist(ctx context.Context) (*models.Wishlist, error)
	AddToWishlist(ctx context.Context, productID string) (*models.Wishlist, error)
	RemoveFromWishlist(ctx context.Context, productID string) (*models.Wishlist, error)
	UpdateCart(ctx context.Context, productID string, quantity int) (*models.Cart, error)
}

// Controller owns the in-memory wishlist. Like the cart, every mutation
// replaces the local list with the service's returned snapshot.
type Controller struct {
	svc Service

	mu       sync.Mutex
	products []models.Product
}

// NewController creates a wishlist controller around the service client.
func NewController(svc Service) *Controller {
	return &Controller{svc: svc}
}

// Products returns a copy of the current wishlist.
func (c *Controller) Products() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Controller) replace(snapshot *models.Wishlist) {
	c.mu.Lock()
	c.products = snapshot.Products
	c.mu.Unlock()
}

// Refresh fetches the wishlist snapshot from the service.
func (c *Controller) Refresh(ctx context.Context) ([]models.Product, error) {
	snapshot, err := c.svc.Wishlist(ctx)
	if err != nil {
		return c.Products(), err
	}
	c.replace(snapshot)
	return c.Products(), nil
}

// Add puts a product on the wishlist.
func (c *Controller) Add(ctx context.Context, productID string) ([]models.Product, error) {
	snapshot, err := c.svc.AddToWishlist(ctx, productID)
	if err != nil {
		return c.Products(), err
	}
	c.replace(snapshot)
	return c.Products(), nil
}

// Remove takes a product off the wishlist.
func (c *Controller) Remove(ctx context.Context, productID string) ([]models.Product, error) {
	snapshot, err := c.svc.RemoveFromWishlist(ctx, productID)
	if err != nil {
		return c.Products(), err
	}
	c.replace(snapshot)
	return c.Products(), nil
}

// AddToCart puts one unit of a wishlisted product in the cart. The product
// stays on the wishlist; the user removes it explicitly if they want to.
func (c *Controller) AddToCart(ctx context.Context, productID string) error {
	if _, err := c.svc.UpdateCart(ctx, productID, 1); err != nil {
		log.WithField("product_id", productID).Warn("Add to cart from wishlist failed: ", err)
		return err
	}
	return nil
}

// Contains reports whether the product is currently wishlisted.
func (c *Controller) Contains(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.products {
		if p.ID == productID {
			return true
		}
	}
	return false
}
