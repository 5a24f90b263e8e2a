package gateway

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount the way the gateway hashes it: exactly two
// decimal places, no thousands separators. The byte sequence fed to MD5 is a
// contract; any other formatting silently breaks checkout.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// GenerateHash computes the checkout signature required by the gateway:
//
//	upper(hex(md5(merchantID + orderID + amount + currency + upper(hex(md5(secret))))))
//
// amount must already be in FormatAmount form. Empty inputs fail before any
// hashing; we never sign against a missing secret.
func GenerateHash(merchantID, orderID, amount, currency, merchantSecret string) (string, error) {
	if merchantID == "" || orderID == "" || amount == "" || currency == "" || merchantSecret == "" {
		return "", errors.ErrMissingCredentials
	}
	return md5Upper(merchantID + orderID + amount + currency + md5Upper(merchantSecret)), nil
}

// notificationSignature computes the md5sig the gateway attaches to its
// server-to-server payment notification.
func notificationSignature(merchantID, orderID, payhereAmount, payhereCurrency, statusCode, merchantSecret string) string {
	return md5Upper(merchantID + orderID + payhereAmount + payhereCurrency + statusCode + md5Upper(merchantSecret))
}

// verifySignature compares two signatures in constant time.
func verifySignature(expected, got string) error {
	if subtle.ConstantTimeCompare([]byte(strings.ToUpper(got)), []byte(expected)) != 1 {
		return errors.ErrSignatureMismatch
	}
	return nil
}

func md5Upper(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
