package wishlist

import (
	"context"
	"errors"
	"testing"

	"github.com/dstore/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	products []models.Product

	addCalls    []string
	removeCalls []string
	cartCalls   []struct {
		ProductID string
		Quantity  int
	}

	err error
}

func (f *fakeService) snapshot() *models.Wishlist {
	out := make([]models.Product, len(f.products))
	copy(out, f.products)
	return &models.Wishlist{Products: out}
}

func (f *fakeService) Wishlist(ctx context.Context) (*models.Wishlist, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot(), nil
}

func (f *fakeService) AddToWishlist(ctx context.Context, productID string) (*models.Wishlist, error) {
	f.addCalls = append(f.addCalls, productID)
	if f.err != nil {
		return nil, f.err
	}
	f.products = append(f.products, models.Product{ID: productID})
	return f.snapshot(), nil
}

func (f *fakeService) RemoveFromWishlist(ctx context.Context, productID string) (*models.Wishlist, error) {
	f.removeCalls = append(f.removeCalls, productID)
	if f.err != nil {
		return nil, f.err
	}
	for i, p := range f.products {
		if p.ID == productID {
			f.products = append(f.products[:i], f.products[i+1:]...)
			break
		}
	}
	return f.snapshot(), nil
}

func (f *fakeService) UpdateCart(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	f.cartCalls = append(f.cartCalls, struct {
		ProductID string
		Quantity  int
	}{productID, quantity})
	if f.err != nil {
		return nil, f.err
	}
	return &models.Cart{}, nil
}

func TestRefresh(t *testing.T) {
	svc := &fakeService{products: []models.Product{{ID: "prod-3", Name: "Sourdough"}}}
	ctrl := NewController(svc)

	products, err := ctrl.Refresh(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "prod-3", products[0].ID)
	assert.True(t, ctrl.Contains("prod-3"))
	assert.False(t, ctrl.Contains("prod-1"))
}

func TestAddAndRemove(t *testing.T) {
	svc := &fakeService{}
	ctrl := NewController(svc)

	products, err := ctrl.Add(context.Background(), "prod-3")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, []string{"prod-3"}, svc.addCalls)

	products, err = ctrl.Remove(context.Background(), "prod-3")
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Equal(t, []string{"prod-3"}, svc.removeCalls)
}

func TestAddFailureKeepsLocalList(t *testing.T) {
	svc := &fakeService{products: []models.Product{{ID: "prod-3"}}}
	ctrl := NewController(svc)
	_, err := ctrl.Refresh(context.Background())
	require.NoError(t, err)

	svc.err = errors.New("service unavailable")
	products, err := ctrl.Add(context.Background(), "prod-4")

	require.Error(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "prod-3", products[0].ID)
}

// Adding to the cart from the wishlist sends one unit and leaves the
// wishlist entry in place.
func TestAddToCart(t *testing.T) {
	svc := &fakeService{products: []models.Product{{ID: "prod-3"}}}
	ctrl := NewController(svc)
	_, err := ctrl.Refresh(context.Background())
	require.NoError(t, err)

	err = ctrl.AddToCart(context.Background(), "prod-3")

	require.NoError(t, err)
	require.Len(t, svc.cartCalls, 1)
	assert.Equal(t, "prod-3", svc.cartCalls[0].ProductID)
	assert.Equal(t, 1, svc.cartCalls[0].Quantity)
	assert.True(t, ctrl.Contains("prod-3"))
	assert.Empty(t, svc.removeCalls)
}

func TestAddToCartFailure(t *testing.T) {
	svc := &fakeService{err: errors.New("out of stock")}
	ctrl := NewController(svc)

	err := ctrl.AddToCart(context.Background(), "prod-6")

	assert.Error(t, err)
}
