package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// signHex computes the hex-encoded HMAC-SHA256 of payload with secret.
func signHex(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature checks the two-field confirmation scheme: the
// signature is the HMAC of "<order_id>|<payment_id>" under the key secret.
// Not interchangeable with the webhook scheme.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	expected := signHex([]byte(orderID+"|"+paymentID), secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the full-payload scheme: the signature is the
// HMAC of the exact body bytes under the webhook secret.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	expected := signHex(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
