package paypal

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates the provider credentials are absent. The server
// still boots without them; checkout traffic fails with this error until
// PAYPAL_CLIENT_ID and PAYPAL_SECRET are set.
var ErrNotConfigured = errors.New("paypal credentials not configured on server")

// Stage identifies which step of the checkout flow the provider rejected.
type Stage string

const (
	StageAuth    Stage = "auth"
	StageCreate  Stage = "create"
	StageCapture Stage = "capture"
)

// UpstreamError carries a non-2xx provider response. Body holds a truncated
// excerpt of the raw response for diagnostics; it is surfaced to the caller
// verbatim, never parsed.
type UpstreamError struct {
	Stage      Stage
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	switch e.Stage {
	case StageAuth:
		return fmt.Sprintf("PayPal auth failed: %s", e.Body)
	case StageCreate:
		return fmt.Sprintf("PayPal order creation failed: %s", e.Body)
	case StageCapture:
		return fmt.Sprintf("PayPal capture failed: %s", e.Body)
	default:
		return fmt.Sprintf("PayPal request failed: %s", e.Body)
	}
}

// AsUpstreamError extracts an UpstreamError from the error chain if present.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var target *UpstreamError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit])
}
