package patterns

import (
	"fmt"
	"time"

	"github.com/dstore/storefront/internal/metrics"
)

// bulkheadAcquireTimeout bounds the wait for a free slot. A saturated
// bulkhead fails the operation rather than queueing it indefinitely.
const bulkheadAcquireTimeout = 1 * time.Second

// Bulkhead caps how many storefront API requests may be in flight at once,
// so a slow service cannot pile up goroutines behind it.
type Bulkhead struct {
	semaphore chan struct{}
	name      string
}

// NewBulkhead creates a bulkhead admitting at most size concurrent calls.
func NewBulkhead(size int, name string) *Bulkhead {
	return &Bulkhead{
		semaphore: make(chan struct{}, size),
		name:      name,
	}
}

// Execute runs fn once a slot is free, or fails after the acquire timeout.
func (b *Bulkhead) Execute(fn func() error) error {
	select {
	case b.semaphore <- struct{}{}:
		metrics.BulkheadActiveRequests.WithLabelValues(b.name).Inc()
		defer func() {
			<-b.semaphore
			metrics.BulkheadActiveRequests.WithLabelValues(b.name).Dec()
		}()
		return fn()

	case <-time.After(bulkheadAcquireTimeout):
		metrics.BulkheadRejectedRequests.WithLabelValues(b.name).Inc()
		return fmt.Errorf("bulkhead %s: timeout acquiring resource", b.name)
	}
}
