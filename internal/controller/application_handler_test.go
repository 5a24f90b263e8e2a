package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brandsync/brandsync/internal/domain/application"
	"github.com/brandsync/brandsync/internal/domain/pricing"
	"github.com/brandsync/brandsync/internal/domain/task"
	"github.com/brandsync/brandsync/internal/service"
	"github.com/brandsync/brandsync/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApplicationController() (*ApplicationController, *testutil.MockApplicationRepository, *testutil.MockTaskRepository) {
	appRepo := testutil.NewMockApplicationRepository()
	taskRepo := testutil.NewMockTaskRepository()
	svc := service.NewApplicationService(
		appRepo, taskRepo, &testutil.MockOutboxRepository{},
		testutil.NewMockTransactionManager(), pricing.DefaultRateCard(),
	)
	return NewApplicationController(svc), appRepo, taskRepo
}

func TestApplicationController_Apply(t *testing.T) {
	handler, _, taskRepo := setupApplicationController()
	active := testutil.NewTestTask(uuid.New(), task.StatusActive)
	taskRepo.AddTask(active)
	influencerID := uuid.New()

	req := postJSON(t, "/api/v1/applications", ApplyRequest{
		TaskID:  active.ID.String(),
		Message: "I run a tech review channel",
		Promises: []PromisePayload{
			{Platform: "youtube", PromisedViews: "5k", DeadlineOption: "1w"},
		},
	})
	req = authedRequest(req, influencerID, "influencer")
	rec := httptest.NewRecorder()

	handler.Apply(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody[ApplicationResponse](t, rec)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, influencerID.String(), resp.InfluencerID)
	require.Len(t, resp.Promises, 1)
	assert.Equal(t, int64(5000), resp.Promises[0].PromisedViews)
	assert.Equal(t, "5K", resp.Promises[0].ViewsLabel)
	// Influencer side: no service fee on earnings.
	assert.Equal(t, "1350.00", resp.Promises[0].EstimatedEarnings)
	assert.Equal(t, "1350.00", resp.TotalEarnings)
}

func TestApplicationController_Apply_InactiveTask(t *testing.T) {
	handler, _, taskRepo := setupApplicationController()
	draft := testutil.NewTestTask(uuid.New(), task.StatusDraft)
	taskRepo.AddTask(draft)

	req := postJSON(t, "/api/v1/applications", ApplyRequest{
		TaskID: draft.ID.String(),
		Promises: []PromisePayload{
			{Platform: "youtube", PromisedViews: "5k", DeadlineOption: "1w"},
		},
	})
	req = authedRequest(req, uuid.New(), "influencer")
	rec := httptest.NewRecorder()

	handler.Apply(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApplicationController_Apply_OwnTask(t *testing.T) {
	handler, _, taskRepo := setupApplicationController()
	ownerID := uuid.New()
	active := testutil.NewTestTask(ownerID, task.StatusActive)
	taskRepo.AddTask(active)

	req := postJSON(t, "/api/v1/applications", ApplyRequest{
		TaskID: active.ID.String(),
		Promises: []PromisePayload{
			{Platform: "youtube", PromisedViews: "5k", DeadlineOption: "1w"},
		},
	})
	req = authedRequest(req, ownerID, "brand")
	rec := httptest.NewRecorder()

	handler.Apply(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", resp.Code)
}

func TestApplicationController_Accept(t *testing.T) {
	handler, appRepo, taskRepo := setupApplicationController()
	ownerID := uuid.New()
	active := testutil.NewTestTask(ownerID, task.StatusActive)
	taskRepo.AddTask(active)
	app := testutil.NewTestApplication(active.ID, uuid.New(), application.StatusPending)
	appRepo.AddApplication(app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/"+app.ID.String()+"/accept", nil)
	req = withURLParam(req, "id", app.ID.String())
	req = authedRequest(req, ownerID, "brand")
	rec := httptest.NewRecorder()

	handler.Accept(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[ApplicationResponse](t, rec)
	assert.Equal(t, "accepted", resp.Status)
}

func TestApplicationController_Accept_NotOwner(t *testing.T) {
	handler, appRepo, taskRepo := setupApplicationController()
	active := testutil.NewTestTask(uuid.New(), task.StatusActive)
	taskRepo.AddTask(active)
	app := testutil.NewTestApplication(active.ID, uuid.New(), application.StatusPending)
	appRepo.AddApplication(app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/"+app.ID.String()+"/accept", nil)
	req = withURLParam(req, "id", app.ID.String())
	req = authedRequest(req, uuid.New(), "brand")
	rec := httptest.NewRecorder()

	handler.Accept(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApplicationController_SubmitProof(t *testing.T) {
	handler, appRepo, taskRepo := setupApplicationController()
	influencerID := uuid.New()
	active := testutil.NewTestTask(uuid.New(), task.StatusActive)
	taskRepo.AddTask(active)
	app := testutil.NewTestApplication(active.ID, influencerID, application.StatusAccepted)
	appRepo.AddApplication(app)

	req := postJSON(t, "/api/v1/applications/"+app.ID.String()+"/proofs", SubmitProofRequest{
		Proofs: []ProofPayload{
			{Platform: "youtube", Kind: "url", Value: "https://youtu.be/dQw4w9WgXcQ"},
		},
	})
	req = withURLParam(req, "id", app.ID.String())
	req = authedRequest(req, influencerID, "influencer")
	rec := httptest.NewRecorder()

	handler.SubmitProof(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[ApplicationResponse](t, rec)
	assert.Equal(t, "submitted", resp.Status)
}

func TestApplicationController_SubmitProof_InvalidKind(t *testing.T) {
	handler, _, _ := setupApplicationController()

	req := postJSON(t, "/api/v1/applications/"+uuid.New().String()+"/proofs", SubmitProofRequest{
		Proofs: []ProofPayload{
			{Platform: "youtube", Kind: "video", Value: "https://youtu.be/dQw4w9WgXcQ"},
		},
	})
	req = withURLParam(req, "id", uuid.New().String())
	req = authedRequest(req, uuid.New(), "influencer")
	rec := httptest.NewRecorder()

	handler.SubmitProof(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
