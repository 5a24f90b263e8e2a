package controller

import (
	"net/http"
	"strconv"

	"github.com/brandsync/brandsync/internal/gateway"
	"github.com/brandsync/brandsync/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PaymentController handles checkout, gateway callbacks and the bank
// transfer flow.
type PaymentController struct {
	paymentService *service.PaymentService
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// Checkout handles POST /api/v1/tasks/{id}/checkout. The response carries
// the complete signed form-field set the client submits to the gateway.
func (h *PaymentController) Checkout(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid task id", Code: "invalid_id"})
		return
	}

	actor, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	checkout, err := h.paymentService.InitializePayment(r.Context(), actor, taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkout)
}

// Notify handles POST /api/v1/payments/notify, the gateway's signed
// server-to-server callback. Form-encoded, unauthenticated; the MD5
// signature is the only trust anchor. The gateway expects a 200 on
// acceptance and retries otherwise.
func (h *PaymentController) Notify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed form body", Code: "invalid_body"})
		return
	}

	n := gateway.Notification{
		MerchantID:    r.PostFormValue("merchant_id"),
		OrderID:       r.PostFormValue("order_id"),
		PaymentID:     r.PostFormValue("payment_id"),
		Amount:        r.PostFormValue("payhere_amount"),
		Currency:      r.PostFormValue("payhere_currency"),
		StatusCode:    r.PostFormValue("status_code"),
		MD5Sig:        r.PostFormValue("md5sig"),
		StatusMessage: r.PostFormValue("status_message"),
		Method:        r.PostFormValue("method"),
	}

	if err := h.paymentService.HandleNotification(r.Context(), n); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Reconcile handles POST /api/v1/tasks/{id}/reconcile, for payments whose
// notify callback never arrived.
func (h *PaymentController) Reconcile(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid task id", Code: "invalid_id"})
		return
	}

	if err := h.paymentService.ReconcilePayment(r.Context(), taskID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reconciled"})
}

// RegisterSlip handles POST /api/v1/tasks/{id}/bank-slips
func (h *PaymentController) RegisterSlip(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid task id", Code: "invalid_id"})
		return
	}

	var req RegisterSlipRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	actor, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	slip, err := h.paymentService.RegisterBankTransfer(r.Context(), actor, taskID, req.SlipURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, FromSlip(slip))
}

// PendingSlips handles GET /api/v1/admin/bank-slips
func (h *PaymentController) PendingSlips(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}

	slips, err := h.paymentService.PendingSlips(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*SlipResponse, 0, len(slips))
	for _, s := range slips {
		resp = append(resp, FromSlip(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ReviewSlip handles POST /api/v1/admin/bank-slips/{id}/review
func (h *PaymentController) ReviewSlip(w http.ResponseWriter, r *http.Request) {
	slipID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid slip id", Code: "invalid_id"})
		return
	}

	var req ReviewSlipRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	reviewer, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	slip, err := h.paymentService.ReviewBankSlip(r.Context(), reviewer, slipID, req.Decision == "approve", req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromSlip(slip))
}
