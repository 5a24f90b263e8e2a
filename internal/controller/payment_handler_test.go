package controller

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/brandsync/brandsync/internal/domain/profile"
	"github.com/brandsync/brandsync/internal/domain/task"
	"github.com/brandsync/brandsync/internal/gateway"
	"github.com/brandsync/brandsync/internal/service"
	"github.com/brandsync/brandsync/internal/testutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGatewayConfig() *gateway.Config {
	return &gateway.Config{
		MerchantID:     "M001",
		MerchantSecret: "test-merchant-secret",
		CheckoutURL:    "https://sandbox.payhere.lk/pay/checkout",
		ReturnURL:      "https://brandsync.lk/payment/return",
		CancelURL:      "https://brandsync.lk/payment/cancel",
		NotifyURL:      "https://api.brandsync.lk/api/v1/payments/notify",
		Currency:       "LKR",
	}
}

func setupPaymentController() (*PaymentController, *testutil.MockTaskRepository, *testutil.MockProfileRepository) {
	taskRepo := testutil.NewMockTaskRepository()
	profileRepo := testutil.NewMockProfileRepository()
	outboxRepo := &testutil.MockOutboxRepository{}
	svc := service.NewPaymentService(
		taskRepo, profileRepo, outboxRepo,
		testutil.NewMockTransactionManager(),
		testGatewayConfig(), nil, nil, zerolog.Nop(),
	)
	return NewPaymentController(svc), taskRepo, profileRepo
}

func md5Upper(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func notifyForm(cfg *gateway.Config, orderID, amount, statusCode string) url.Values {
	sig := md5Upper(cfg.MerchantID + orderID + amount + cfg.Currency + statusCode + md5Upper(cfg.MerchantSecret))
	return url.Values{
		"merchant_id":      {cfg.MerchantID},
		"order_id":         {orderID},
		"payment_id":       {"320025"},
		"payhere_amount":   {amount},
		"payhere_currency": {cfg.Currency},
		"status_code":      {statusCode},
		"md5sig":           {sig},
		"method":           {"VISA"},
	}
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPaymentController_Checkout(t *testing.T) {
	handler, taskRepo, profileRepo := setupPaymentController()
	owner := testutil.NewTestProfile(profile.RoleBrand, 0)
	profileRepo.AddProfile(owner)
	existing := testutil.NewTestTask(owner.ID, task.StatusPendingPayment)
	taskRepo.AddTask(existing)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/"+existing.ID.String()+"/checkout", nil)
	req = withURLParam(req, "id", existing.ID.String())
	req = authedRequest(req, owner.ID, "brand")
	rec := httptest.NewRecorder()

	handler.Checkout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[gateway.CheckoutRequest](t, rec)
	assert.Equal(t, "M001", resp.MerchantID)
	assert.Equal(t, existing.ID.String(), resp.OrderID)
	assert.Equal(t, "2970.00", resp.Amount)
	assert.Len(t, resp.Hash, 32)
}

func TestPaymentController_Checkout_NotOwner(t *testing.T) {
	handler, taskRepo, profileRepo := setupPaymentController()
	owner := testutil.NewTestProfile(profile.RoleBrand, 0)
	profileRepo.AddProfile(owner)
	existing := testutil.NewTestTask(owner.ID, task.StatusPendingPayment)
	taskRepo.AddTask(existing)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/"+existing.ID.String()+"/checkout", nil)
	req = withURLParam(req, "id", existing.ID.String())
	req = authedRequest(req, uuid.New(), "brand")
	rec := httptest.NewRecorder()

	handler.Checkout(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPaymentController_Notify_Success(t *testing.T) {
	handler, taskRepo, _ := setupPaymentController()
	existing := testutil.NewTestTask(uuid.New(), task.StatusPendingPayment)
	taskRepo.AddTask(existing)

	form := notifyForm(testGatewayConfig(), existing.ID.String(), "2970.00", gateway.StatusSuccess)
	rec := httptest.NewRecorder()

	handler.Notify(rec, postForm("/api/v1/payments/notify", form))

	require.Equal(t, http.StatusOK, rec.Code)
	updated, err := taskRepo.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusActive, updated.Status)
	assert.True(t, updated.Cost.IsPaid)
	assert.Equal(t, task.MethodGateway, updated.Cost.Method)
}

func TestPaymentController_Notify_BadSignature(t *testing.T) {
	handler, taskRepo, _ := setupPaymentController()
	existing := testutil.NewTestTask(uuid.New(), task.StatusPendingPayment)
	taskRepo.AddTask(existing)

	form := notifyForm(testGatewayConfig(), existing.ID.String(), "2970.00", gateway.StatusSuccess)
	form.Set("md5sig", "0000000000000000000000000000DEAD")
	rec := httptest.NewRecorder()

	handler.Notify(rec, postForm("/api/v1/payments/notify", form))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "bad_signature", resp.Code)

	updated, err := taskRepo.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.False(t, updated.Cost.IsPaid)
}

func TestPaymentController_Notify_NonSuccess(t *testing.T) {
	handler, taskRepo, _ := setupPaymentController()
	existing := testutil.NewTestTask(uuid.New(), task.StatusPendingPayment)
	taskRepo.AddTask(existing)

	// Cancelled at the gateway. Acknowledged, nothing settles.
	form := notifyForm(testGatewayConfig(), existing.ID.String(), "2970.00", "-1")
	rec := httptest.NewRecorder()

	handler.Notify(rec, postForm("/api/v1/payments/notify", form))

	assert.Equal(t, http.StatusOK, rec.Code)
	updated, err := taskRepo.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusPendingPayment, updated.Status)
}

func TestPaymentController_RegisterSlip(t *testing.T) {
	handler, taskRepo, _ := setupPaymentController()
	ownerID := uuid.New()
	existing := testutil.NewTestTask(ownerID, task.StatusPendingPayment)
	taskRepo.AddTask(existing)

	req := postJSON(t, "/api/v1/tasks/"+existing.ID.String()+"/bank-slips", RegisterSlipRequest{
		SlipURL: "https://cdn.brandsync.lk/slips/receipt-991.jpg",
	})
	req = withURLParam(req, "id", existing.ID.String())
	req = authedRequest(req, ownerID, "brand")
	rec := httptest.NewRecorder()

	handler.RegisterSlip(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody[SlipResponse](t, rec)
	assert.Equal(t, "pending_review", resp.Status)
	assert.Equal(t, existing.ID.String(), resp.TaskID)
}

func TestPaymentController_RegisterSlip_MissingURL(t *testing.T) {
	handler, _, _ := setupPaymentController()

	req := postJSON(t, "/api/v1/tasks/"+uuid.New().String()+"/bank-slips", RegisterSlipRequest{})
	req = withURLParam(req, "id", uuid.New().String())
	req = authedRequest(req, uuid.New(), "brand")
	rec := httptest.NewRecorder()

	handler.RegisterSlip(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentController_ReviewSlip_Approve(t *testing.T) {
	handler, taskRepo, _ := setupPaymentController()
	ownerID := uuid.New()
	existing := testutil.NewTestTask(ownerID, task.StatusPendingPayment)
	taskRepo.AddTask(existing)

	slip, err := task.NewBankSlip(existing.ID, ownerID, "https://cdn.brandsync.lk/slips/receipt-991.jpg")
	require.NoError(t, err)
	require.NoError(t, taskRepo.CreateSlip(context.Background(), slip))

	admin := uuid.New()
	req := postJSON(t, "/api/v1/admin/bank-slips/"+slip.ID.String()+"/review", ReviewSlipRequest{
		Decision: "approve",
		Note:     "matched transfer ref 7781",
	})
	req = withURLParam(req, "id", slip.ID.String())
	req = authedRequest(req, admin, "admin")
	rec := httptest.NewRecorder()

	handler.ReviewSlip(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[SlipResponse](t, rec)
	assert.Equal(t, "approved", resp.Status)

	updated, err := taskRepo.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.True(t, updated.Cost.IsPaid)
	assert.Equal(t, task.MethodBankTransfer, updated.Cost.Method)
}
