package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/brandsync/brandsync/internal/domain/application"
	"github.com/brandsync/brandsync/internal/domain/views"
	"github.com/brandsync/brandsync/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ApplicationController handles influencer application HTTP requests.
type ApplicationController struct {
	applicationService *service.ApplicationService
}

// NewApplicationController creates a new ApplicationController.
func NewApplicationController(applicationService *service.ApplicationService) *ApplicationController {
	return &ApplicationController{applicationService: applicationService}
}

// Apply handles POST /api/v1/applications
func (h *ApplicationController) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	influencerID, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid task_id", Code: "invalid_id"})
		return
	}

	promises := make([]service.PromiseInput, 0, len(req.Promises))
	for _, p := range req.Promises {
		n, err := views.Parse(p.PromisedViews)
		if err != nil {
			log.Warn().Str("promised_views", p.PromisedViews).Msg("malformed view count, coercing to zero")
			n = 0
		}
		promises = append(promises, service.PromiseInput{
			Platform:       p.Platform,
			PromisedViews:  n,
			DeadlineOption: p.DeadlineOption,
		})
	}

	a, err := h.applicationService.Apply(r.Context(), service.ApplyRequest{
		TaskID:       taskID,
		InfluencerID: influencerID,
		Promises:     promises,
		Message:      req.Message,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, FromApplication(a))
}

// Get handles GET /api/v1/applications/{id}
func (h *ApplicationController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid application id", Code: "invalid_id"})
		return
	}

	a, err := h.applicationService.GetApplication(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromApplication(a))
}

// List handles GET /api/v1/applications
func (h *ApplicationController) List(w http.ResponseWriter, r *http.Request) {
	filter := application.ListFilter{}

	if s := r.URL.Query().Get("task_id"); s != "" {
		id, err := uuid.Parse(s)
		if err == nil {
			filter.TaskID = &id
		}
	}
	if s := r.URL.Query().Get("influencer_id"); s != "" {
		id, err := uuid.Parse(s)
		if err == nil {
			filter.InfluencerID = &id
		}
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := application.Status(s)
		filter.Status = &status
	}
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	apps, err := h.applicationService.ListApplications(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		resp = append(resp, FromApplication(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Accept handles POST /api/v1/applications/{id}/accept
func (h *ApplicationController) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.applicationService.Accept)
}

// Reject handles POST /api/v1/applications/{id}/reject
func (h *ApplicationController) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.applicationService.Reject)
}

// Withdraw handles POST /api/v1/applications/{id}/withdraw
func (h *ApplicationController) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.applicationService.Withdraw)
}

// Approve handles POST /api/v1/applications/{id}/approve
func (h *ApplicationController) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.applicationService.Approve)
}

// SubmitProof handles POST /api/v1/applications/{id}/proofs
func (h *ApplicationController) SubmitProof(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid application id", Code: "invalid_id"})
		return
	}

	var req SubmitProofRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	actor, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	proofs := make([]service.ProofInput, 0, len(req.Proofs))
	for _, p := range req.Proofs {
		proofs = append(proofs, service.ProofInput{
			Platform: p.Platform,
			Kind:     p.Kind,
			Value:    p.Value,
		})
	}

	a, err := h.applicationService.SubmitProof(r.Context(), actor, id, proofs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromApplication(a))
}

// GetProofs handles GET /api/v1/applications/{id}/proofs
func (h *ApplicationController) GetProofs(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid application id", Code: "invalid_id"})
		return
	}

	proofs, err := h.applicationService.GetProofs(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*ProofResponse, 0, len(proofs))
	for _, p := range proofs {
		resp = append(resp, FromProof(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ApplicationController) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, actorID, applicationID uuid.UUID) (*application.Application, error),
) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid application id", Code: "invalid_id"})
		return
	}

	actor, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := fn(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromApplication(a))
}
