package cart

import (
	"context"
	"sync"

	"github.com/dstore/storefront/internal/api"
	"github.com/dstore/storefront/internal/metrics"
	"github.com/dstore/storefront/internal/models"
	log "github.com/sirupsen/logrus"
)

// Service is the slice of the storefront API the controller drives.
type Service interface {
	FetchCart(ctx context.Context) (*models.Cart, error)
	UpdateCart(ctx context.Context, productID string, quantity int) (*models.Cart, error)
	ApplyCoupon(ctx context.Context, code string) (*models.ApplyCouponResponse, error)
	PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.OrderConfirmation, error)
}

// Line is one product's presence in the cart. AvailableStock is the stock
// ceiling reported by the catalog service at last fetch; a line with
// quantity zero is absent from the snapshot.
type Line struct {
	ProductID      string
	Name           string
	Image          string
	UnitPrice      float64
	AvailableStock int
	Quantity       int
}

// State is the controller-owned cart value. Lines keep the server-supplied
// order; DiscountPercent is set only by a successful coupon application.
type State struct {
	Lines           []Line
	DiscountPercent float64
	CouponCode      string
}

// Subtotal is the sum of unitPrice x quantity over all lines.
func (s State) Subtotal() float64 {
	return Subtotal(s.Lines)
}

// Total is the subtotal after the coupon discount.
func (s State) Total() float64 {
	return Total(Subtotal(s.Lines), s.DiscountPercent)
}

// Controller owns the in-memory cart, applies quantity/stock validation,
// computes totals and drives order placement. The service is the source of
// truth for price and stock: every successful mutation replaces the local
// cart wholesale with the returned snapshot.
//
// Operations issue at most one outbound request each and do not block one
// another. Mutations carry a monotonic sequence; a completion older than
// the newest applied snapshot is dropped, so racing quantity edits cannot
// regress the local cart to a stale snapshot.
type Controller struct {
	svc Service

	mu      sync.Mutex
	state   State
	seq     uint64 // last sequence handed to an outbound mutation
	applied uint64 // sequence of the newest applied snapshot
}

// NewController creates a controller around the given service client.
func NewController(svc Service) *Controller {
	return &Controller{svc: svc}
}

// State returns a copy of the current cart value.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	lines := make([]Line, len(c.state.Lines))
	copy(lines, c.state.Lines)
	return State{
		Lines:           lines,
		DiscountPercent: c.state.DiscountPercent,
		CouponCode:      c.state.CouponCode,
	}
}

func (c *Controller) findLineLocked(productID string) (Line, bool) {
	for _, line := range c.state.Lines {
		if line.ProductID == productID {
			return line, true
		}
	}
	return Line{}, false
}

// nextSeqLocked reserves a sequence number for an outbound mutation.
func (c *Controller) nextSeqLocked() uint64 {
	c.seq++
	return c.seq
}

// applyIfNewer replaces the local lines with the service snapshot unless a
// newer completion already did.
func (c *Controller) applyIfNewer(seq uint64, snapshot *models.Cart) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.applied {
		log.WithFields(log.Fields{
			"seq":     seq,
			"applied": c.applied,
		}).Debug("Dropping stale cart snapshot")
		return
	}
	c.applied = seq
	c.state.Lines = linesFromSnapshot(snapshot)
}

func linesFromSnapshot(snapshot *models.Cart) []Line {
	lines := make([]Line, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		if item.Quantity == 0 {
			continue
		}
		lines = append(lines, Line{
			ProductID:      item.Product.ID,
			Name:           item.Product.Name,
			Image:          item.Product.Image,
			UnitPrice:      item.Product.UnitPrice,
			AvailableStock: item.Product.AvailableStock,
			Quantity:       item.Quantity,
		})
	}
	return lines
}

// Refresh fetches a fresh cart snapshot from the service, replacing the
// local cart. Called on view entry.
func (c *Controller) Refresh(ctx context.Context) (State, error) {
	c.mu.Lock()
	seq := c.nextSeqLocked()
	c.mu.Unlock()

	snapshot, err := c.svc.FetchCart(ctx)
	if err != nil {
		metrics.CartOperationsTotal.WithLabelValues("refresh", "failed").Inc()
		return c.State(), &UpdateFailedError{Message: messageOr(err, fallbackFetchFailed), Err: err}
	}

	c.applyIfNewer(seq, snapshot)
	metrics.CartOperationsTotal.WithLabelValues("refresh", "ok").Inc()
	return c.State(), nil
}

// SetQuantity validates the requested quantity against the line's stock
// ceiling and, when allowed, sends the new quantity to the service (zero
// meaning remove). On success the returned snapshot replaces the whole
// local cart; on any guard failure no request is issued and the cart is
// unchanged.
func (c *Controller) SetQuantity(ctx context.Context, productID string, requested int) (State, error) {
	if requested < 0 {
		requested = 0
	}

	c.mu.Lock()
	line, ok := c.findLineLocked(productID)
	if !ok {
		c.mu.Unlock()
		metrics.CartOperationsTotal.WithLabelValues("set_quantity", "rejected").Inc()
		return c.State(), ErrLineNotFound
	}
	if line.AvailableStock <= 0 {
		c.mu.Unlock()
		metrics.CartOperationsTotal.WithLabelValues("set_quantity", "rejected").Inc()
		return c.State(), ErrOutOfStock
	}
	if requested > line.AvailableStock {
		c.mu.Unlock()
		metrics.CartOperationsTotal.WithLabelValues("set_quantity", "rejected").Inc()
		return c.State(), &InsufficientStockError{
			ProductID: productID,
			Name:      line.Name,
			Available: line.AvailableStock,
		}
	}
	seq := c.nextSeqLocked()
	c.mu.Unlock()

	snapshot, err := c.svc.UpdateCart(ctx, productID, requested)
	if err != nil {
		metrics.CartOperationsTotal.WithLabelValues("set_quantity", "failed").Inc()
		log.WithFields(log.Fields{
			"product_id": productID,
			"quantity":   requested,
		}).Warn("Cart update failed: ", err)
		return c.State(), &UpdateFailedError{Message: messageOr(err, fallbackUpdateFailed), Err: err}
	}

	c.applyIfNewer(seq, snapshot)
	metrics.CartOperationsTotal.WithLabelValues("set_quantity", "ok").Inc()
	return c.State(), nil
}

// Increment raises the line's quantity by one.
func (c *Controller) Increment(ctx context.Context, productID string) (State, error) {
	c.mu.Lock()
	line, ok := c.findLineLocked(productID)
	c.mu.Unlock()
	if !ok {
		return c.State(), ErrLineNotFound
	}
	return c.SetQuantity(ctx, productID, line.Quantity+1)
}

// Decrement lowers the line's quantity by one. At quantity one it is a
// no-op with no request: removal must go through Remove, so rapid clicks
// cannot delete a line by accident.
func (c *Controller) Decrement(ctx context.Context, productID string) (State, error) {
	c.mu.Lock()
	line, ok := c.findLineLocked(productID)
	c.mu.Unlock()
	if !ok {
		return c.State(), ErrLineNotFound
	}
	if line.Quantity <= 1 {
		return c.State(), nil
	}
	return c.SetQuantity(ctx, productID, line.Quantity-1)
}

// Remove deletes the line by sending quantity zero.
func (c *Controller) Remove(ctx context.Context, productID string) (State, error) {
	return c.SetQuantity(ctx, productID, 0)
}

// ApplyCoupon validates the code with the service and stores the returned
// discount percentage. A rejected code leaves the previous discount
// unchanged. The discount is not re-validated on later cart mutations; it
// persists until re-applied or an order is placed.
func (c *Controller) ApplyCoupon(ctx context.Context, code string) (float64, error) {
	if code == "" {
		metrics.CouponApplicationsTotal.WithLabelValues("rejected").Inc()
		return c.State().DiscountPercent, ErrEmptyCouponCode
	}

	resp, err := c.svc.ApplyCoupon(ctx, code)
	if err != nil {
		metrics.CouponApplicationsTotal.WithLabelValues("failed").Inc()
		return c.State().DiscountPercent, &InvalidCouponError{Message: messageOr(err, fallbackInvalidCoupon), Err: err}
	}
	if resp.DiscountPercent < 0 || resp.DiscountPercent > 100 {
		metrics.CouponApplicationsTotal.WithLabelValues("failed").Inc()
		return c.State().DiscountPercent, &InvalidCouponError{Message: fallbackInvalidCoupon}
	}

	c.mu.Lock()
	c.state.DiscountPercent = resp.DiscountPercent
	c.state.CouponCode = code
	c.mu.Unlock()

	metrics.CouponApplicationsTotal.WithLabelValues("ok").Inc()
	log.WithFields(log.Fields{
		"coupon":   code,
		"discount": resp.DiscountPercent,
	}).Info("Coupon applied")
	return resp.DiscountPercent, nil
}

// PlaceOrder submits the order for the current cart. Preconditions are
// checked client-side before any request: a selected address and a
// non-empty cart. Success resets the local cart to empty with zero
// discount; failure leaves it untouched.
func (c *Controller) PlaceOrder(ctx context.Context, addressID, paymentMethod string) (*models.OrderConfirmation, error) {
	if addressID == "" {
		metrics.OrdersTotal.WithLabelValues("rejected").Inc()
		return nil, ErrNoAddressSelected
	}

	c.mu.Lock()
	if len(c.state.Lines) == 0 {
		c.mu.Unlock()
		metrics.OrdersTotal.WithLabelValues("rejected").Inc()
		return nil, ErrEmptyCart
	}
	req := models.PlaceOrderRequest{
		AddressID:     addressID,
		PaymentMethod: paymentMethod,
		CouponCode:    c.state.CouponCode,
	}
	seq := c.nextSeqLocked()
	c.mu.Unlock()

	confirmation, err := c.svc.PlaceOrder(ctx, req)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("failed").Inc()
		log.WithField("address_id", addressID).Warn("Order placement failed: ", err)
		return nil, &OrderFailedError{Message: messageOr(err, fallbackOrderFailed), Err: err}
	}

	c.mu.Lock()
	if seq > c.applied {
		c.applied = seq
	}
	c.state = State{}
	c.mu.Unlock()

	metrics.OrdersTotal.WithLabelValues("placed").Inc()
	log.WithFields(log.Fields{
		"order_id": confirmation.Order.ID,
		"total":    confirmation.Order.Total,
	}).Info("Order placed")
	return confirmation, nil
}

// messageOr surfaces the service-provided message verbatim when present,
// else the per-operation fallback.
func messageOr(err error, fallback string) string {
	if msg := api.ErrorMessage(err); msg != "" {
		return msg
	}
	return fallback
}
