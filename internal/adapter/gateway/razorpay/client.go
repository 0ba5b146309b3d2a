package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/groupcart/payments-service/internal/domain"
	"github.com/groupcart/payments-service/internal/observability/telemetry"
	"github.com/groupcart/payments-service/internal/ports"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Config holds Razorpay client settings. Timeout applies per attempt and is
// always explicit; the zero value falls back to 30s.
type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string // empty disables webhook verification
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int // transport-failure retries per call
}

// Client talks to the Razorpay REST API with basic auth. Calls go through a
// circuit breaker; transport failures are retried with exponential backoff,
// gateway 4xx responses are not.
type Client struct {
	cfg     Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

var (
	_ ports.PaymentGateway    = (*Client)(nil)
	_ ports.SignatureVerifier = (*Client)(nil)
)

// NewClient creates a Razorpay client.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "razorpay",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// 4xx means the gateway answered; only transport failures and
			// 5xx count against the circuit.
			ge, ok := err.(*gatewayError)
			return ok && ge.status < 500
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Gateway circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		log:     log,
	}
}

// apiError is the error envelope Razorpay returns on non-2xx responses.
type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// gatewayError marks a definitive non-2xx gateway response, never retried.
type gatewayError struct {
	status      int
	code        string
	description string
}

func (e *gatewayError) Error() string {
	if e.description != "" {
		return e.description
	}
	return fmt.Sprintf("razorpay returned status %d", e.status)
}

type orderEntity struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type paymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	Method           string `json:"method"`
	Email            string `json:"email"`
	Contact          string `json:"contact"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
	CreatedAt        int64  `json:"created_at"`
}

type refundEntity struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*ports.GatewayOrder, error) {
	body := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if notes != nil {
		body["notes"] = notes
	}

	var entity orderEntity
	if err := c.do(ctx, "create_order", http.MethodPost, "/orders", body, &entity); err != nil {
		return nil, c.wrap("create order", err)
	}

	return &ports.GatewayOrder{
		ID:        entity.ID,
		Amount:    entity.Amount,
		Currency:  entity.Currency,
		Receipt:   entity.Receipt,
		Status:    entity.Status,
		CreatedAt: time.Unix(entity.CreatedAt, 0),
	}, nil
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*ports.GatewayPayment, error) {
	var entity paymentEntity
	if err := c.do(ctx, "fetch_payment", http.MethodGet, "/payments/"+paymentID, nil, &entity); err != nil {
		return nil, c.wrap("fetch payment", err)
	}
	return toGatewayPayment(&entity), nil
}

func (c *Client) RefundPayment(ctx context.Context, paymentID string, amount int64, notes map[string]interface{}) (*ports.GatewayRefund, error) {
	body := map[string]interface{}{}
	if amount > 0 {
		body["amount"] = amount
	}
	if notes != nil {
		body["notes"] = notes
	}

	var entity refundEntity
	if err := c.do(ctx, "refund_payment", http.MethodPost, "/payments/"+paymentID+"/refund", body, &entity); err != nil {
		return nil, c.wrap("refund payment", err)
	}
	return toGatewayRefund(&entity), nil
}

func (c *Client) FetchRefund(ctx context.Context, refundID string) (*ports.GatewayRefund, error) {
	var entity refundEntity
	if err := c.do(ctx, "fetch_refund", http.MethodGet, "/refunds/"+refundID, nil, &entity); err != nil {
		return nil, c.wrap("fetch refund", err)
	}
	return toGatewayRefund(&entity), nil
}

func (c *Client) CancelPayment(ctx context.Context, paymentID string) (*ports.GatewayPayment, error) {
	var entity paymentEntity
	if err := c.do(ctx, "cancel_payment", http.MethodPost, "/payments/"+paymentID+"/cancel", map[string]interface{}{}, &entity); err != nil {
		return nil, c.wrap("cancel payment", err)
	}
	return toGatewayPayment(&entity), nil
}

func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(orderID, paymentID, signature, c.cfg.KeySecret)
}

func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	return VerifyWebhookSignature(body, signature, c.cfg.WebhookSecret)
}

func (c *Client) WebhookVerificationEnabled() bool {
	return c.cfg.WebhookSecret != ""
}

// do executes one API call through the circuit breaker, retrying transport
// failures with exponential backoff. Definitive gateway responses (any
// status, including 4xx/5xx bodies) are returned on the first attempt.
func (c *Client) do(ctx context.Context, op, method, path string, body interface{}, out interface{}) error {
	timer := prometheus.NewTimer(telemetry.GatewayLatency.WithLabelValues(op))
	defer timer.ObserveDuration()

	var lastErr error
	delay := 200 * time.Millisecond

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
			c.log.Debug("Retrying gateway call",
				zap.String("path", path),
				zap.Int("attempt", attempt),
			)
		}

		err := c.doOnce(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var ge *gatewayError
		if ok := asGatewayError(err, &ge); ok {
			return err // definitive answer from the gateway
		}
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return err
		}
	}

	return lastErr
}

func asGatewayError(err error, target **gatewayError) bool {
	ge, ok := err.(*gatewayError)
	if ok {
		*target = ge
	}
	return ok
}

func (c *Client) doOnce(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("marshal request: %w", err)
			}
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var apiErr apiError
			_ = json.Unmarshal(data, &apiErr)
			return nil, &gatewayError{
				status:      resp.StatusCode,
				code:        apiErr.Error.Code,
				description: apiErr.Error.Description,
			}
		}

		if out != nil {
			if err := json.Unmarshal(data, out); err != nil {
				return nil, fmt.Errorf("decode response: %w", err)
			}
		}
		return nil, nil
	})
	return err
}

func (c *Client) wrap(op string, err error) error {
	c.log.Error("Gateway call failed", zap.String("op", op), zap.Error(err))
	return domain.Upstream(op+" failed", err)
}

func toGatewayPayment(e *paymentEntity) *ports.GatewayPayment {
	return &ports.GatewayPayment{
		ID:               e.ID,
		OrderID:          e.OrderID,
		Amount:           e.Amount,
		Currency:         e.Currency,
		Status:           e.Status,
		Method:           e.Method,
		Email:            e.Email,
		Contact:          e.Contact,
		ErrorCode:        e.ErrorCode,
		ErrorDescription: e.ErrorDescription,
		CreatedAt:        time.Unix(e.CreatedAt, 0),
	}
}

func toGatewayRefund(e *refundEntity) *ports.GatewayRefund {
	return &ports.GatewayRefund{
		ID:        e.ID,
		PaymentID: e.PaymentID,
		Amount:    e.Amount,
		Currency:  e.Currency,
		Status:    e.Status,
		CreatedAt: time.Unix(e.CreatedAt, 0),
	}
}
