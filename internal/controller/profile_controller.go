package controller

import (
	"net/http"
	"strconv"

	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/brandsync/brandsync/internal/domain/profile"
	"github.com/brandsync/brandsync/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfileController handles profile, onboarding and withdrawal HTTP
// requests.
type ProfileController struct {
	profileService *service.ProfileService
}

// NewProfileController creates a new ProfileController.
func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// Create handles POST /api/v1/profiles. Public: this is registration.
func (h *ProfileController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.profileService.CreateProfile(r.Context(), req.Role, profile.Contact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, FromProfile(p))
}

// Get handles GET /api/v1/profiles/{id}
func (h *ProfileController) Get(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.subjectAndActor(w, r)
	if !ok {
		return
	}

	if err := h.profileService.VerifyProfileAccess(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.profileService.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromProfile(p))
}

// UpdateContact handles PUT /api/v1/profiles/{id}/contact
func (h *ProfileController) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.subjectAndActor(w, r)
	if !ok {
		return
	}

	if err := h.profileService.VerifyProfileAccess(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	var req UpdateContactRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.profileService.UpdateContact(r.Context(), id, profile.Contact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromProfile(p))
}

// AdvanceOnboarding handles POST /api/v1/profiles/{id}/onboarding/advance
func (h *ProfileController) AdvanceOnboarding(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.subjectAndActor(w, r)
	if !ok {
		return
	}

	if err := h.profileService.VerifyProfileAccess(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.profileService.AdvanceOnboarding(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromProfile(p))
}

// RequestWithdrawal handles POST /api/v1/profiles/{id}/withdrawals
func (h *ProfileController) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.subjectAndActor(w, r)
	if !ok {
		return
	}

	if err := h.profileService.VerifyProfileAccess(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	var req WithdrawalRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	amountCents := pricing.ToCents(decimal.NewFromFloat(req.Amount))
	wd, err := h.profileService.RequestWithdrawal(r.Context(), id, amountCents, req.BankDetails)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, FromWithdrawal(wd))
}

// ListWithdrawals handles GET /api/v1/profiles/{id}/withdrawals
func (h *ProfileController) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.subjectAndActor(w, r)
	if !ok {
		return
	}

	if err := h.profileService.VerifyProfileAccess(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	limit, offset := listParams(r)
	withdrawals, err := h.profileService.ListWithdrawals(r.Context(), &id, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, withdrawalResponses(withdrawals))
}

// ListAllWithdrawals handles GET /api/v1/admin/withdrawals
func (h *ProfileController) ListAllWithdrawals(w http.ResponseWriter, r *http.Request) {
	limit, offset := listParams(r)
	withdrawals, err := h.profileService.ListWithdrawals(r.Context(), nil, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, withdrawalResponses(withdrawals))
}

// ResolveWithdrawal handles POST /api/v1/admin/withdrawals/{id}/resolve
func (h *ProfileController) ResolveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid withdrawal id", Code: "invalid_id"})
		return
	}

	var req ResolveWithdrawalRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	wd, err := h.profileService.ResolveWithdrawal(r.Context(), id, req.Decision == "paid", req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromWithdrawal(wd))
}

func (h *ProfileController) subjectAndActor(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid profile id", Code: "invalid_id"})
		return uuid.Nil, uuid.Nil, false
	}
	actor, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return uuid.Nil, uuid.Nil, false
	}
	return id, actor, true
}

func listParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 20
	}
	return limit, offset
}

func withdrawalResponses(ws []*profile.Withdrawal) []*WithdrawalResponse {
	resp := make([]*WithdrawalResponse, 0, len(ws))
	for _, w := range ws {
		resp = append(resp, FromWithdrawal(w))
	}
	return resp
}
