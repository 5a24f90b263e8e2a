package gateway

import (
	"testing"

	domainErrors "github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference values recorded against the gateway's documented scheme.
// These are regression pins: if any of them change, checkout breaks.
const (
	refHash         = "9B51A329F1EF0FC52A52E4D0DA90B98D" // M001 / 42 / 4500.00 / LKR / secret
	refHashAltAmt   = "AB14C56C81941A5CDC060CF22546D843" // same with amount 4500.01
	refNotifySig    = "7EDFFA4A02741B1AAC25E22C7640426A" // status_code 2
	refHashMerchant = "6BB367DF18C394B887BEC98F85313FC7" // 1221149 / ORDER-7 / 100.00 / LKR / test-secret
)

func TestGenerateHash_ReferenceVector(t *testing.T) {
	got, err := GenerateHash("M001", "42", "4500.00", "LKR", "secret")
	require.NoError(t, err)
	assert.Equal(t, refHash, got)
	assert.Len(t, got, 32)

	got2, err := GenerateHash("1221149", "ORDER-7", "100.00", "LKR", "test-secret")
	require.NoError(t, err)
	assert.Equal(t, refHashMerchant, got2)
}

func TestGenerateHash_Deterministic(t *testing.T) {
	a, err := GenerateHash("M001", "42", "4500.00", "LKR", "secret")
	require.NoError(t, err)
	b, err := GenerateHash("M001", "42", "4500.00", "LKR", "secret")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateHash_AmountAvalanche(t *testing.T) {
	// One cent of difference must change the signature.
	a, err := GenerateHash("M001", "42", "4500.00", "LKR", "secret")
	require.NoError(t, err)
	b, err := GenerateHash("M001", "42", "4500.01", "LKR", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, refHashAltAmt, b)
}

func TestGenerateHash_MissingInputs(t *testing.T) {
	cases := [][5]string{
		{"", "42", "4500.00", "LKR", "secret"},
		{"M001", "", "4500.00", "LKR", "secret"},
		{"M001", "42", "", "LKR", "secret"},
		{"M001", "42", "4500.00", "", "secret"},
		{"M001", "42", "4500.00", "LKR", ""},
	}
	for _, c := range cases {
		_, err := GenerateHash(c[0], c[1], c[2], c[3], c[4])
		assert.ErrorIs(t, err, domainErrors.ErrMissingCredentials)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4500", "4500.00"},
		{"4500.5", "4500.50"},
		{"0", "0.00"},
		{"1234567.891", "1234567.89"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
	}
}

func testConfig() *Config {
	return &Config{
		MerchantID:     "M001",
		MerchantSecret: "secret",
		CheckoutURL:    "https://sandbox.gateway.lk/pay/checkout",
		AuthorizeURL:   "https://sandbox.gateway.lk",
		ReturnURL:      "https://brandsync.app/payment/return",
		CancelURL:      "https://brandsync.app/payment/cancel",
		NotifyURL:      "https://api.brandsync.app/api/v1/payments/notify",
		Currency:       "LKR",
	}
}

func TestVerifyNotification(t *testing.T) {
	cfg := testConfig()
	n := Notification{
		MerchantID: "M001",
		OrderID:    "42",
		Amount:     "4500.00",
		Currency:   "LKR",
		StatusCode: StatusSuccess,
		MD5Sig:     refNotifySig,
	}
	assert.NoError(t, VerifyNotification(n, cfg))

	// lowercase signatures are accepted; the comparison is case-insensitive
	n.MD5Sig = "7edffa4a02741b1aac25e22c7640426a"
	assert.NoError(t, VerifyNotification(n, cfg))
}

func TestVerifyNotification_TamperedAmount(t *testing.T) {
	cfg := testConfig()
	n := Notification{
		MerchantID: "M001",
		OrderID:    "42",
		Amount:     "1.00",
		Currency:   "LKR",
		StatusCode: StatusSuccess,
		MD5Sig:     refNotifySig,
	}
	assert.ErrorIs(t, VerifyNotification(n, cfg), domainErrors.ErrSignatureMismatch)
}

func TestVerifyNotification_WrongMerchant(t *testing.T) {
	cfg := testConfig()
	n := Notification{
		MerchantID: "M999",
		OrderID:    "42",
		Amount:     "4500.00",
		Currency:   "LKR",
		StatusCode: StatusSuccess,
		MD5Sig:     refNotifySig,
	}
	assert.ErrorIs(t, VerifyNotification(n, cfg), domainErrors.ErrSignatureMismatch)
}

func TestBuildCheckout(t *testing.T) {
	cfg := testConfig()
	customer := Customer{
		FirstName: "Nimal",
		LastName:  "Perera",
		Email:     "nimal@example.com",
		Phone:     "+94771234567",
		Address:   "12 Galle Road",
		City:      "Colombo",
		Country:   "Sri Lanka",
	}

	req, err := BuildCheckout(cfg, "42", "Campaign #42", decimal.RequireFromString("4500"), customer)
	require.NoError(t, err)

	assert.Equal(t, "4500.00", req.Amount)
	assert.Equal(t, refHash, req.Hash)
	assert.Equal(t, "LKR", req.Currency)
	assert.Equal(t, cfg.CheckoutURL, req.CheckoutURL)
	assert.Equal(t, cfg.NotifyURL, req.NotifyURL)
	assert.Equal(t, "Nimal", req.FirstName)
}

func TestBuildCheckout_MissingCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.MerchantSecret = ""

	_, err := BuildCheckout(cfg, "42", "Campaign #42", decimal.RequireFromString("4500"), Customer{
		FirstName: "Nimal", LastName: "Perera", Email: "n@e.com", Phone: "071",
	})
	assert.ErrorIs(t, err, domainErrors.ErrMissingCredentials)
}

func TestBuildCheckout_MissingContact(t *testing.T) {
	cfg := testConfig()
	_, err := BuildCheckout(cfg, "42", "Campaign #42", decimal.RequireFromString("4500"), Customer{
		FirstName: "Nimal",
	})
	assert.ErrorIs(t, err, domainErrors.ErrMissingContactInfo)
}
