package backend

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// LimitedDoer wraps an HTTPDoer with a maximum request rate. If the
// limit is exceeded the call blocks until it is within limit again.
type LimitedDoer struct {
	doer    HTTPDoer
	limiter *rate.Limiter
}

// NewLimitedDoer creates a LimitedDoer. maxRate is the maximum number
// of requests per second.
func NewLimitedDoer(doer HTTPDoer, maxRate float64) *LimitedDoer {
	return &LimitedDoer{
		doer:    doer,
		limiter: rate.NewLimiter(rate.Limit(maxRate), 1),
	}
}

// Do executes the http request once the limiter allows it.
func (d *LimitedDoer) Do(r *http.Request) (*http.Response, error) {
	if err := d.limiter.Wait(r.Context()); err != nil {
		return nil, fmt.Errorf("waiting for request limiter: %w", err)
	}

	return d.doer.Do(r)
}
