package pricing

import (
	"net/http"

	"github.com/sarigama-yerra/checkout-api/internal/common"
)

// Handler exposes the pricing calculation endpoint.
type Handler struct {
	Engine *Engine
}

// Calculate computes the full price breakdown for a quantity and destination.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Engine == nil {
		common.JSONError(w, http.StatusInternalServerError, "PRICING_NOT_CONFIGURED", "pricing handler unavailable", nil)
		return
	}
	var req Request
	if appErr := common.DecodeValid(r, &req); appErr != nil {
		common.JSONAppError(w, appErr)
		return
	}
	quote, err := h.Engine.Quote(req.Quantity, req.Address)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, quote)
}
