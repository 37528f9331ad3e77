package ratelimit

import (
	"fmt"
	"net/http"

	limiter "github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewMiddleware builds a per-IP rate limit middleware from a formatted rate
// such as "120-M" (120 requests per minute). The store is in-memory: this
// service is stateless and single-process, so no shared store is needed.
func NewMiddleware(formatted string) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", formatted, err)
	}
	instance := limiter.New(memory.NewStore(), rate, limiter.WithTrustForwardHeader(true))
	return stdlibmw.NewMiddleware(instance).Handler, nil
}
