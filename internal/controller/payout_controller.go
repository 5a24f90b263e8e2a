package controller

import (
	"net/http"

	"github.com/brandsync/brandsync/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PayoutController exposes the admin retry path for payouts. The normal
// release path is the worker consuming the payout stream; this endpoint
// exists for events that landed in the dead letter queue.
type PayoutController struct {
	payoutService *service.PayoutService
}

// NewPayoutController creates a new PayoutController.
func NewPayoutController(payoutService *service.PayoutService) *PayoutController {
	return &PayoutController{payoutService: payoutService}
}

// Retry handles POST /api/v1/admin/payouts/{id}/retry. Idempotent: a payout
// already released reports success without crediting twice.
func (h *PayoutController) Retry(w http.ResponseWriter, r *http.Request) {
	applicationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid application id", Code: "invalid_id"})
		return
	}

	if err := h.payoutService.ProcessPayout(r.Context(), applicationID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "released"})
}
