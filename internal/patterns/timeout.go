package patterns

import (
	"context"
	"time"
)

// WithTimeout creates a context with timeout for fail-fast behavior
func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

// DefaultTimeout is the default timeout for storefront API requests. The
// service never retries on its own; a hung request is cut here.
const DefaultTimeout = 3 * time.Second

// CheckoutTimeout is a longer timeout for order placement, which touches
// payment on the service side.
const CheckoutTimeout = 10 * time.Second
