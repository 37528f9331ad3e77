package checkout

import (
	"errors"
	"net/http"

	"github.com/sarigama-yerra/checkout-api/internal/common"
	"github.com/sarigama-yerra/checkout-api/internal/paypal"
	"github.com/sarigama-yerra/checkout-api/internal/pricing"
)

// Handler exposes the server-side checkout endpoints.
type Handler struct {
	Svc *Service
}

// CreateOrder validates the request, prices it, and opens an order with the
// payment provider.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "CHECKOUT_NOT_CONFIGURED", "checkout handler unavailable", nil)
		return
	}
	var req pricing.Request
	if appErr := common.DecodeValid(r, &req); appErr != nil {
		common.JSONAppError(w, appErr)
		return
	}
	resp, err := h.Svc.CreateOrder(r.Context(), req)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, resp)
}

// CaptureOrder captures a previously created provider order and relays the
// provider's response body as-is.
func (h *Handler) CaptureOrder(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "CHECKOUT_NOT_CONFIGURED", "checkout handler unavailable", nil)
		return
	}
	var req CaptureOrderRequest
	if appErr := common.DecodeValid(r, &req); appErr != nil {
		common.JSONAppError(w, appErr)
		return
	}
	result, err := h.Svc.CaptureOrder(r.Context(), req.OrderID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	common.JSONRaw(w, http.StatusOK, result)
}

// writeUpstreamError maps checkout failures onto the error taxonomy:
// configuration problems and provider rejections are all 500s, with the
// truncated provider excerpt carried in the message. Quantity errors can
// only occur here if validation was bypassed, and still map to 422.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var qerr *pricing.QuantityError
	if errors.As(err, &qerr) {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if errors.Is(err, paypal.ErrNotConfigured) {
		common.JSONError(w, http.StatusInternalServerError, "PAYPAL_NOT_CONFIGURED", err.Error(), nil)
		return
	}
	if upstream, ok := paypal.AsUpstreamError(err); ok {
		code := "PAYPAL_ORDER_FAILED"
		switch upstream.Stage {
		case paypal.StageAuth:
			code = "PAYPAL_AUTH_FAILED"
		case paypal.StageCapture:
			code = "PAYPAL_CAPTURE_FAILED"
		}
		common.JSONError(w, http.StatusInternalServerError, code, upstream.Error(), nil)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
}
