// Package gateway shapes requests for the external card-payment gateway.
//
// The gateway is browser-driven: the API hands the client a complete set of
// form fields (including an MD5 signature) which the client POSTs to the
// gateway's checkout URL as a hidden auto-submitted form. Payment results
// come back asynchronously on the notify URL as a signed form-encoded
// callback. Nothing here talks to the gateway directly except the status
// retrieval client.
package gateway

import (
	"github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/shopspring/decimal"
)

// StatusSuccess is the status_code the gateway sends for a captured payment.
// 0 = pending, -1 = cancelled, -2 = failed, -3 = chargedback.
const StatusSuccess = "2"

// Config holds the merchant credentials and redirect endpoints, all
// environment-driven. Validate is called on every checkout build: missing
// credentials are a hard configuration error, never defaulted.
type Config struct {
	MerchantID     string
	MerchantSecret string
	CheckoutURL    string
	AuthorizeURL   string
	ReturnURL      string
	CancelURL      string
	NotifyURL      string
	Currency       string
}

// Validate reports whether the config is complete enough to build a
// checkout request.
func (c *Config) Validate() error {
	if c.MerchantID == "" || c.MerchantSecret == "" || c.CheckoutURL == "" ||
		c.ReturnURL == "" || c.CancelURL == "" || c.NotifyURL == "" || c.Currency == "" {
		return errors.ErrMissingCredentials
	}
	return nil
}

// Customer is the payer contact block the gateway requires on checkout.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	Country   string
}

// Complete reports whether every field the gateway requires is present.
func (c Customer) Complete() bool {
	return c.FirstName != "" && c.LastName != "" && c.Email != "" && c.Phone != ""
}

// CheckoutRequest is the full form-field set the browser submits to the
// gateway. Constructed once per payment attempt, never persisted.
type CheckoutRequest struct {
	CheckoutURL  string `json:"checkout_url"`
	AuthorizeURL string `json:"authorize_url,omitempty"`
	MerchantID   string `json:"merchant_id"`
	ReturnURL    string `json:"return_url"`
	CancelURL    string `json:"cancel_url"`
	NotifyURL    string `json:"notify_url"`
	OrderID      string `json:"order_id"`
	Items        string `json:"items"`
	Currency     string `json:"currency"`
	Amount       string `json:"amount"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Hash         string `json:"hash"`
	Custom1      string `json:"custom_1,omitempty"`
	Custom2      string `json:"custom_2,omitempty"`
}

// BuildCheckout assembles and signs a checkout request.
func BuildCheckout(cfg *Config, orderID, items string, amount decimal.Decimal, customer Customer) (*CheckoutRequest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !customer.Complete() {
		return nil, errors.ErrMissingContactInfo
	}

	amountStr := FormatAmount(amount)
	hash, err := GenerateHash(cfg.MerchantID, orderID, amountStr, cfg.Currency, cfg.MerchantSecret)
	if err != nil {
		return nil, err
	}

	return &CheckoutRequest{
		CheckoutURL:  cfg.CheckoutURL,
		AuthorizeURL: cfg.AuthorizeURL,
		MerchantID:   cfg.MerchantID,
		ReturnURL:    cfg.ReturnURL,
		CancelURL:    cfg.CancelURL,
		NotifyURL:    cfg.NotifyURL,
		OrderID:      orderID,
		Items:        items,
		Currency:     cfg.Currency,
		Amount:       amountStr,
		FirstName:    customer.FirstName,
		LastName:     customer.LastName,
		Email:        customer.Email,
		Phone:        customer.Phone,
		Address:      customer.Address,
		City:         customer.City,
		Country:      customer.Country,
		Hash:         hash,
	}, nil
}

// Notification is the signed server-to-server callback the gateway POSTs to
// the notify URL after a payment attempt.
type Notification struct {
	MerchantID    string
	OrderID       string
	PaymentID     string
	Amount        string
	Currency      string
	StatusCode    string
	MD5Sig        string
	StatusMessage string
	Method        string
}

// VerifyNotification recomputes the callback signature and compares it
// against the one the gateway sent. Verification happens before any status
// handling; a bad signature rejects the callback outright.
func VerifyNotification(n Notification, cfg *Config) error {
	if cfg.MerchantSecret == "" {
		return errors.ErrMissingCredentials
	}
	if n.MerchantID != cfg.MerchantID {
		return errors.ErrSignatureMismatch
	}
	expected := notificationSignature(n.MerchantID, n.OrderID, n.Amount, n.Currency, n.StatusCode, cfg.MerchantSecret)
	return verifySignature(expected, n.MD5Sig)
}
