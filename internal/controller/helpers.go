package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domainErrors.ErrTaskNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrApplicationNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrProfileNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrWithdrawalNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrSlipNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrProofNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrTaskAlreadyPaid, http.StatusConflict, "already_paid"},
	{domainErrors.ErrTaskNotPayable, http.StatusUnprocessableEntity, "not_payable"},
	{domainErrors.ErrDuplicateApplication, http.StatusConflict, "duplicate_application"},
	{domainErrors.ErrInvalidStateTransition, http.StatusConflict, "invalid_state_transition"},
	{domainErrors.ErrOptimisticLockFailed, http.StatusConflict, "conflict"},
	{domainErrors.ErrInsufficientFunds, http.StatusUnprocessableEntity, "insufficient_funds"},
	{domainErrors.ErrProfileSuspended, http.StatusUnprocessableEntity, "profile_suspended"},
	{domainErrors.ErrMissingContactInfo, http.StatusUnprocessableEntity, "missing_contact_info"},
	{domainErrors.ErrInvalidPlatform, http.StatusBadRequest, "invalid_platform"},
	{domainErrors.ErrInvalidDeadlineOption, http.StatusBadRequest, "invalid_deadline"},
	{domainErrors.ErrInvalidViewCount, http.StatusBadRequest, "invalid_view_count"},
	{domainErrors.ErrNoPlatformTargets, http.StatusBadRequest, "no_targets"},
	{domainErrors.ErrSignatureMismatch, http.StatusBadRequest, "bad_signature"},
	{domainErrors.ErrGatewayUnavailable, http.StatusServiceUnavailable, "gateway_unavailable"},
	{domainErrors.ErrMissingCredentials, http.StatusInternalServerError, "gateway_misconfigured"},
	{domainErrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domainErrors.ErrTaskNotOwner, http.StatusForbidden, "forbidden"},
	{domainErrors.ErrForbidden, http.StatusForbidden, "forbidden"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Code = "validation_error"
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			resp.Code = m.code
			if m.err == domainErrors.ErrOptimisticLockFailed {
				resp.Error = "concurrent modification, please retry"
			}
			writeJSON(w, m.status, resp)
			return
		}
	}

	var domainErr *domainErrors.DomainError
	if errors.As(err, &domainErr) {
		resp.Code = domainErr.Code
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	resp.Code = "internal_error"
	resp.Error = "internal server error"
	writeJSON(w, http.StatusInternalServerError, resp)
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domainErrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}

// actorID extracts the authenticated profile ID set by the auth middleware.
func actorID(r *http.Request) (uuid.UUID, error) {
	raw, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, domainErrors.ErrUnauthorized
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domainErrors.ErrUnauthorized
	}
	return id, nil
}
