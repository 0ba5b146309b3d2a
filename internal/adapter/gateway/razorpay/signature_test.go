package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature_Valid(t *testing.T) {
	secret := "test_secret"
	signature := sign("order_abc|pay_xyz", secret)

	if !VerifyPaymentSignature("order_abc", "pay_xyz", signature, secret) {
		t.Error("expected valid signature to verify")
	}
}

func TestVerifyPaymentSignature_Tampered(t *testing.T) {
	secret := "test_secret"
	signature := sign("order_abc|pay_xyz", secret)

	if VerifyPaymentSignature("order_abc", "pay_other", signature, secret) {
		t.Error("expected signature over a different payment id to fail")
	}
	if VerifyPaymentSignature("order_abc", "pay_xyz", signature, "wrong_secret") {
		t.Error("expected signature with wrong secret to fail")
	}
	if VerifyPaymentSignature("order_abc", "pay_xyz", "", secret) {
		t.Error("expected empty signature to fail")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "webhook_secret"
	body := []byte(`{"event":"payment.captured","payload":{}}`)
	signature := sign(string(body), secret)

	if !VerifyWebhookSignature(body, signature, secret) {
		t.Error("expected valid webhook signature to verify")
	}

	// A single flipped byte in the body must invalidate the signature.
	tampered := append([]byte(nil), body...)
	tampered[0] = '['
	if VerifyWebhookSignature(tampered, signature, secret) {
		t.Error("expected tampered body to fail verification")
	}
}
