package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Payload builds the message the gateway signs for a completed checkout.
func Payload(orderID, paymentID string) string {
	return orderID + "|" + paymentID
}

// Sign returns the hex encoded HMAC-SHA256 of payload.
func Sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Valid reports whether sig is the signature of payload under secret, in
// constant time. An empty secret or signature never validates.
func Valid(payload, secret, sig string) bool {
	if secret == "" || sig == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(payload, secret)), []byte(sig))
}

// Verifier checks checkout callback signatures against the gateway key secret.
type Verifier struct {
	secret string
}

// NewVerifier creates Verifier bound to secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// VerifyPayment reports whether signature matches orderID and paymentID.
func (v *Verifier) VerifyPayment(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" {
		return false
	}
	return Valid(Payload(orderID, paymentID), v.secret, signature)
}
