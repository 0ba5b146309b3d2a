package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/groupcart/payments-service/internal/domain"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		KeyID:      "key_test",
		KeySecret:  "secret_test",
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	}, newTestLogger())
}

func TestCreateOrder_Success(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":         "order_test123",
			"amount":     50000,
			"currency":   "INR",
			"receipt":    "rcpt_1",
			"status":     "created",
			"created_at": 1700000000,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	order, err := client.CreateOrder(context.Background(), 50000, "INR", "rcpt_1", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotPath != "/orders" {
		t.Errorf("expected path '/orders', got '%s'", gotPath)
	}
	if gotUser != "key_test" || gotPass != "secret_test" {
		t.Error("expected basic auth with key id and secret")
	}
	if gotBody["amount"].(float64) != 50000 {
		t.Errorf("expected amount 50000, got %v", gotBody["amount"])
	}
	if order.ID != "order_test123" {
		t.Errorf("expected order id 'order_test123', got '%s'", order.ID)
	}
	if order.Status != "created" {
		t.Errorf("expected status 'created', got '%s'", order.Status)
	}
}

func TestFetchPayment_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/pay_abc" {
			t.Errorf("unexpected path '%s'", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "pay_abc",
			"order_id": "order_xyz",
			"amount":   2000,
			"currency": "INR",
			"status":   "authorized",
			"method":   "upi",
			"email":    "payer@example.com",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	payment, err := client.FetchPayment(context.Background(), "pay_abc")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if payment.OrderID != "order_xyz" {
		t.Errorf("expected order id 'order_xyz', got '%s'", payment.OrderID)
	}
	if payment.Status != "authorized" {
		t.Errorf("expected status 'authorized', got '%s'", payment.Status)
	}
}

func TestGatewayError_NotRetried(t *testing.T) {
	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"code":        "BAD_REQUEST_ERROR",
				"description": "The amount is invalid",
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.CreateOrder(context.Background(), -1, "INR", "rcpt", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if requests != 1 {
		t.Errorf("expected a definitive 4xx to not be retried, got %d requests", requests)
	}
	if domain.KindOf(err) != domain.KindUpstream {
		t.Errorf("expected upstream error kind, got %v", domain.KindOf(err))
	}
}

func TestTransportError_Retried(t *testing.T) {
	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 2 {
			// Drop the connection mid-request to force a transport error.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("response writer does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack failed: %v", err)
			}
			conn.Close()
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "pay_recovered",
			"amount": 100,
			"status": "authorized",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	payment, err := client.FetchPayment(context.Background(), "pay_recovered")
	if err != nil {
		t.Fatalf("expected recovery after retry, got %v", err)
	}
	if payment.ID != "pay_recovered" {
		t.Errorf("expected payment id 'pay_recovered', got '%s'", payment.ID)
	}
	if requests != 2 {
		t.Errorf("expected 2 requests, got %d", requests)
	}
}

func TestRefundPayment_OmitsAmountForFullRefund(t *testing.T) {
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":         "rfnd_1",
			"payment_id": "pay_abc",
			"amount":     2000,
			"status":     "created",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	refund, err := client.RefundPayment(context.Background(), "pay_abc", 0, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := gotBody["amount"]; ok {
		t.Error("expected full refund request to omit amount")
	}
	if refund.ID != "rfnd_1" {
		t.Errorf("expected refund id 'rfnd_1', got '%s'", refund.ID)
	}
}

func TestWebhookVerificationEnabled(t *testing.T) {
	withSecret := NewClient(Config{KeyID: "k", KeySecret: "s", WebhookSecret: "w"}, newTestLogger())
	if !withSecret.WebhookVerificationEnabled() {
		t.Error("expected verification enabled with a webhook secret")
	}

	withoutSecret := NewClient(Config{KeyID: "k", KeySecret: "s"}, newTestLogger())
	if withoutSecret.WebhookVerificationEnabled() {
		t.Error("expected verification disabled without a webhook secret")
	}
}
