package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/Vznu7/one-piece-web-application/apperrors"
)

// Sign returns hex(HMAC-SHA256(secret, providerOrderID + "|" + paymentID)).
func Sign(secret, providerOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(providerOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a checkout callback signature in constant time.
func VerifySignature(secret, providerOrderID, paymentID, signature string) error {
	expected := Sign(secret, providerOrderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return apperrors.ErrSignatureInvalid
	}
	return nil
}
