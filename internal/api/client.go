package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dstore/storefront/internal/auth"
	"github.com/dstore/storefront/internal/metrics"
	"github.com/dstore/storefront/internal/models"
	"github.com/dstore/storefront/internal/patterns"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// StatusError is a request the service answered with a non-2xx status.
// Message carries the service-provided text when present.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("storefront API returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("storefront API returned status %d", e.StatusCode)
}

// ErrorMessage extracts the service-provided message from an error chain,
// or returns the empty string when there is none. Transport failures and
// business-rule rejections are not otherwise distinguished.
func ErrorMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message
	}
	return ""
}

// Client is a typed client for the storefront REST API. Every endpoint the
// views consume has one method; request and response shapes are validated
// at this boundary instead of being trusted at every call site.
type Client struct {
	http     *resty.Client
	checkout *resty.Client
	session  *auth.Session
	breaker  *patterns.CircuitBreakerWrapper
	bulkhead *patterns.Bulkhead
}

// NewClient creates a storefront API client. The session is injected and
// owns the auth token; the client attaches it to every request.
func NewClient(baseURL string, session *auth.Session) *Client {
	c := &Client{
		session:  session,
		breaker:  patterns.NewCircuitBreaker("Storefront"),
		bulkhead: patterns.NewBulkhead(10, "storefront"),
	}
	c.http = newRestyClient(baseURL, session, patterns.DefaultTimeout)
	// Order placement touches payment on the service side and gets a
	// longer deadline.
	c.checkout = newRestyClient(baseURL, session, patterns.CheckoutTimeout)
	return c
}

func newRestyClient(baseURL string, session *auth.Session, timeout time.Duration) *resty.Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0) // No automatic retries, failures surface to the caller

	rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.New().String())
		if token := session.Token(); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
		return nil
	})

	return rc
}

// do issues exactly one request through the bulkhead and circuit breaker.
// A 2xx response is decoded into out; anything else becomes a StatusError
// carrying the service message when the body has one. A 4xx is the caller's
// mistake answered by a healthy service, so it is reported to the caller
// without counting against the breaker; only transport failures and 5xx do.
func (c *Client) do(ctx context.Context, rc *resty.Client, method, path string, body, out interface{}) error {
	var rejection *StatusError

	err := c.bulkhead.Execute(func() error {
		_, cbErr := c.breaker.Execute(func() (interface{}, error) {
			req := rc.R().
				SetContext(ctx).
				SetHeader("Content-Type", "application/json").
				SetError(&models.ErrorResponse{})
			if body != nil {
				req.SetBody(body)
			}
			if out != nil {
				req.SetResult(out)
			}

			resp, httpErr := req.Execute(method, path)

			status := 0
			if resp != nil {
				status = resp.StatusCode()
			}
			metrics.APIRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			if resp != nil {
				metrics.APIRequestDuration.WithLabelValues(method, path).Observe(resp.Time().Seconds())
			}

			if httpErr != nil {
				return nil, fmt.Errorf("HTTP error: %w", httpErr)
			}

			if resp.IsError() {
				msg := ""
				if er, ok := resp.Error().(*models.ErrorResponse); ok && er != nil {
					msg = er.Message
				}
				log.WithFields(log.Fields{
					"method": method,
					"path":   path,
					"status": resp.StatusCode(),
				}).Warn("Storefront API rejected request")
				statusErr := &StatusError{StatusCode: resp.StatusCode(), Message: msg}
				if resp.StatusCode() < http.StatusInternalServerError {
					rejection = statusErr
					return nil, nil
				}
				return nil, statusErr
			}

			return nil, nil
		})

		return patterns.FormatError("Storefront", cbErr)
	})
	if err != nil {
		return err
	}
	if rejection != nil {
		return rejection
	}
	return nil
}

// Cart

// FetchCart returns the authoritative cart snapshot.
func (c *Client) FetchCart(ctx context.Context) (*models.Cart, error) {
	cart := &models.Cart{}
	if err := c.do(ctx, c.http, http.MethodGet, "/user/cart", nil, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateCart sets a line's quantity (zero removes the line) and returns the
// full replacement snapshot.
func (c *Client) UpdateCart(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	cart := &models.Cart{}
	req := models.UpdateCartRequest{ProductID: productID, Quantity: quantity}
	if err := c.do(ctx, c.http, http.MethodPost, "/user/cart", req, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ApplyCoupon validates a coupon code against the service.
func (c *Client) ApplyCoupon(ctx context.Context, code string) (*models.ApplyCouponResponse, error) {
	out := &models.ApplyCouponResponse{}
	req := models.ApplyCouponRequest{CouponCode: code}
	if err := c.do(ctx, c.http, http.MethodPost, "/user/coupon", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// PlaceOrder submits the order for the current server-side cart.
func (c *Client) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.OrderConfirmation, error) {
	out := &models.OrderConfirmation{}
	if err := c.do(ctx, c.checkout, http.MethodPost, "/user/order", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Auth

// Login exchanges credentials for a session token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	out := &models.AuthResponse{}
	req := models.Credentials{Email: email, Password: password}
	if err := c.do(ctx, c.http, http.MethodPost, "/user/login", req, out); err != nil {
		return err
	}
	return c.session.SetToken(out.Token)
}

// Register creates an account and stores the issued session token.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	out := &models.AuthResponse{}
	req := models.Credentials{Name: name, Email: email, Password: password}
	if err := c.do(ctx, c.http, http.MethodPost, "/user/register", req, out); err != nil {
		return err
	}
	return c.session.SetToken(out.Token)
}

// Profile and addresses

func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	out := &models.Profile{}
	if err := c.do(ctx, c.http, http.MethodGet, "/user/profile", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddAddress(ctx context.Context, req models.AddressRequest) (*models.Address, error) {
	out := &models.Address{}
	if err := c.do(ctx, c.http, http.MethodPost, "/user/address", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateAddress(ctx context.Context, id string, req models.AddressRequest) (*models.Address, error) {
	out := &models.Address{}
	if err := c.do(ctx, c.http, http.MethodPut, "/user/address/"+id, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id string) error {
	return c.do(ctx, c.http, http.MethodDelete, "/user/address/"+id, nil, nil)
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	req := models.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	return c.do(ctx, c.http, http.MethodPut, "/user/password", req, nil)
}

// Orders

func (c *Client) Orders(ctx context.Context) (*models.OrderList, error) {
	out := &models.OrderList{}
	if err := c.do(ctx, c.http, http.MethodGet, "/user/orders", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Wishlist

func (c *Client) Wishlist(ctx context.Context) (*models.Wishlist, error) {
	out := &models.Wishlist{}
	if err := c.do(ctx, c.http, http.MethodGet, "/user/wishlist", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToWishlist(ctx context.Context, productID string) (*models.Wishlist, error) {
	out := &models.Wishlist{}
	req := models.WishlistRequest{ProductID: productID}
	if err := c.do(ctx, c.http, http.MethodPost, "/user/wishlist", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) (*models.Wishlist, error) {
	out := &models.Wishlist{}
	req := models.WishlistRequest{ProductID: productID}
	if err := c.do(ctx, c.http, http.MethodDelete, "/user/wishlist", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Catalog

func (c *Client) Product(ctx context.Context, id string) (*models.ProductDetail, error) {
	out := &models.ProductDetail{}
	if err := c.do(ctx, c.http, http.MethodGet, "/user/products/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, c.http, http.MethodGet, "/user/products/category/"+category, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, c.http, http.MethodGet, "/user/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]models.Product, error) {
	var out []models.Product
	path := "/user/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, c.http, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reviews

func (c *Client) SubmitReview(ctx context.Context, req models.CreateReviewRequest) (*models.Review, error) {
	out := &models.Review{}
	if err := c.do(ctx, c.http, http.MethodPost, "/user/review", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Admin

func (c *Client) AdminCoupons(ctx context.Context) ([]models.Coupon, error) {
	var out []models.Coupon
	if err := c.do(ctx, c.http, http.MethodGet, "/admin/coupons", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminCreateCoupon(ctx context.Context, req models.CreateCouponRequest) (*models.Coupon, error) {
	out := &models.Coupon{}
	if err := c.do(ctx, c.http, http.MethodPost, "/admin/coupons", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminDeleteCoupon(ctx context.Context, id string) error {
	return c.do(ctx, c.http, http.MethodDelete, "/admin/coupons/"+id, nil, nil)
}

func (c *Client) AdminOrders(ctx context.Context) (*models.OrderList, error) {
	out := &models.OrderList{}
	if err := c.do(ctx, c.http, http.MethodGet, "/admin/orders", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminUpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	out := &models.Order{}
	req := models.OrderStatusUpdateRequest{Status: status}
	if err := c.do(ctx, c.http, http.MethodPut, "/admin/orders/"+id+"/status", req, out); err != nil {
		return nil, err
	}
	return out, nil
}
