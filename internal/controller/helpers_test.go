package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authedRequest injects the auth context the middleware would have set.
func authedRequest(req *http.Request, id uuid.UUID, role string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, id.String())
	ctx = context.WithValue(ctx, middleware.RoleKey, role)
	return req.WithContext(ctx)
}

// withURLParam injects a chi route parameter for direct handler calls.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestWriteError_Mappings(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"task not found", domainErrors.ErrTaskNotFound, http.StatusNotFound, "not_found"},
		{"already paid", domainErrors.ErrTaskAlreadyPaid, http.StatusConflict, "already_paid"},
		{"not payable", domainErrors.ErrTaskNotPayable, http.StatusUnprocessableEntity, "not_payable"},
		{"duplicate application", domainErrors.ErrDuplicateApplication, http.StatusConflict, "duplicate_application"},
		{"insufficient funds", domainErrors.ErrInsufficientFunds, http.StatusUnprocessableEntity, "insufficient_funds"},
		{"bad signature", domainErrors.ErrSignatureMismatch, http.StatusBadRequest, "bad_signature"},
		{"missing credentials", domainErrors.ErrMissingCredentials, http.StatusInternalServerError, "gateway_misconfigured"},
		{"not owner", domainErrors.ErrTaskNotOwner, http.StatusForbidden, "forbidden"},
		{"forbidden", domainErrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"validation", domainErrors.NewValidationError("title", "cannot be empty"), http.StatusBadRequest, "validation_error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestWriteError_WrappedDomainError(t *testing.T) {
	err := domainErrors.NewDomainError(
		"task_not_active",
		"applications are only accepted on active tasks",
		domainErrors.ErrInvalidStateTransition,
	)

	rec := httptest.NewRecorder()
	writeError(rec, err)

	// The wrapped sentinel wins over the generic DomainError fallback.
	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "invalid_state_transition", resp.Code)
}

func TestWriteError_OptimisticLockMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, domainErrors.ErrOptimisticLockFailed)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "concurrent modification, please retry", resp.Error)
}
