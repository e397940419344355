package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dstore/storefront/internal/auth"
	"github.com/dstore/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *auth.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	session := auth.NewSession("")
	return NewClient(srv.URL, session), session
}

func TestClient_AttachesAuthAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(models.Cart{})
	})
	require.NoError(t, session.SetToken("tok-123"))

	_, err := client.FetchCart(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_NoAuthHeaderWhenLoggedOut(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.Cart{})
	})

	_, err := client.FetchCart(context.Background())

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_FetchCart(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/user/cart", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.Cart{Items: []models.CartItem{
			{Product: models.Product{ID: "prod-1", Name: "Bananas", UnitPrice: 1.29, AvailableStock: 150}, Quantity: 3},
		}})
	})

	cart, err := client.FetchCart(context.Background())

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "prod-1", cart.Items[0].Product.ID)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestClient_UpdateCart_SendsAbsoluteQuantity(t *testing.T) {
	var gotBody models.UpdateCartRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/cart", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(models.Cart{})
	})

	_, err := client.UpdateCart(context.Background(), "prod-1", 0)

	require.NoError(t, err)
	assert.Equal(t, "prod-1", gotBody.ProductID)
	// Quantity zero must survive serialization; it is the removal signal.
	assert.Equal(t, 0, gotBody.Quantity)
}

func TestClient_ServiceErrorMessageSurfaced(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse{Message: "Only 2 Bananas available in stock"})
	})

	_, err := client.UpdateCart(context.Background(), "prod-1", 5)

	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "Only 2 Bananas available in stock", statusErr.Message)
	assert.Equal(t, "Only 2 Bananas available in stock", ErrorMessage(err))
}

func TestClient_ErrorWithoutBodyMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchCart(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Empty(t, ErrorMessage(err))
}

func TestClient_LoginStoresToken(t *testing.T) {
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/login", r.URL.Path)
		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "shopper@dstore.test", creds.Email)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.AuthResponse{Token: "issued-token"})
	})

	err := client.Login(context.Background(), "shopper@dstore.test", "shopper123")

	require.NoError(t, err)
	assert.Equal(t, "issued-token", session.Token())
}

func TestClient_LoginFailureLeavesSessionEmpty(t *testing.T) {
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.ErrorResponse{Message: "Invalid email or password"})
	})

	err := client.Login(context.Background(), "shopper@dstore.test", "wrong")

	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", ErrorMessage(err))
	assert.Empty(t, session.Token())
}

func TestClient_PlaceOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/order", r.URL.Path)
		var req models.PlaceOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "addr-1", req.AddressID)
		assert.Equal(t, models.PaymentCash, req.PaymentMethod)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.OrderConfirmation{Order: models.Order{ID: "order-1", Total: 17.00}})
	})

	confirmation, err := client.PlaceOrder(context.Background(), models.PlaceOrderRequest{
		AddressID:     "addr-1",
		PaymentMethod: models.PaymentCash,
	})

	require.NoError(t, err)
	assert.Equal(t, "order-1", confirmation.Order.ID)
	assert.InDelta(t, 17.00, confirmation.Order.Total, 1e-9)
}

func TestClient_Search_EscapesQuery(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/search", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode([]models.Product{})
	})

	_, err := client.Search(context.Background(), "whole milk & eggs")

	require.NoError(t, err)
	assert.Equal(t, "whole milk & eggs", gotQuery)
}

// Business-rule rejections are answered by a healthy service and must not
// open the circuit breaker: after several 400s a valid request still goes
// out and succeeds.
func TestClient_RejectionsDoNotOpenBreaker(t *testing.T) {
	var requests int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path == "/user/coupon" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.ErrorResponse{Message: "Invalid coupon"})
			return
		}
		json.NewEncoder(w).Encode(models.Cart{})
	})

	for i := 0; i < 4; i++ {
		_, err := client.ApplyCoupon(context.Background(), "TYPO")
		require.Error(t, err)
		assert.Equal(t, "Invalid coupon", ErrorMessage(err))
	}

	_, err := client.FetchCart(context.Background())

	require.NoError(t, err)
	// Every operation reached the service, exactly one request each.
	assert.Equal(t, 5, requests)
}

// Service-side failures still trip the breaker: after enough 5xx responses
// the next call fails fast without reaching the service.
func TestClient_ServerErrorsOpenBreaker(t *testing.T) {
	var requests int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 3; i++ {
		_, err := client.FetchCart(context.Background())
		require.Error(t, err)
	}
	sent := requests

	_, err := client.FetchCart(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker Storefront is open")
	assert.Equal(t, sent, requests, "an open breaker must not send requests")
}

func TestClient_RemoveFromWishlist_SendsBody(t *testing.T) {
	var gotBody models.WishlistRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/user/wishlist", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(models.Wishlist{})
	})

	_, err := client.RemoveFromWishlist(context.Background(), "prod-3")

	require.NoError(t, err)
	assert.Equal(t, "prod-3", gotBody.ProductID)
}
