package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/groupcart/payments-service/internal/domain"
	"github.com/groupcart/payments-service/internal/ports"
)

type PaymentHandler struct {
	orders   ports.OrderService
	payments ports.PaymentService
	log      *zap.Logger
}

func NewPaymentHandler(orders ports.OrderService, payments ports.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		orders:   orders,
		payments: payments,
		log:      log,
	}
}

type CreateOrderRequest struct {
	Amount   float64                `json:"amount"`
	Currency string                 `json:"currency"`
	Receipt  string                 `json:"receipt"`
	Notes    map[string]interface{} `json:"notes"`
}

type VerifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	CycleID           string `json:"cycleId"`
	UserID            string `json:"userId"`
}

type RefundRequest struct {
	PaymentID string                 `json:"paymentId"`
	Amount    float64                `json:"amount"`
	Notes     map[string]interface{} `json:"notes"`
}

type CancelRequest struct {
	PaymentID string `json:"paymentId"`
}

func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.Validation("Invalid request body")
	}

	order, err := h.orders.Create(c.Context(), ports.CreateOrderInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order": fiber.Map{
			"id":             order.ID,
			"amount":         order.Amount,
			"amountInRupees": order.AmountMajor,
			"currency":       order.Currency,
			"receipt":        order.Receipt,
		},
	})
}

func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.Validation("Invalid request body")
	}

	payment, err := h.payments.VerifyAndRecord(c.Context(), ports.VerifyInput{
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
		CycleID:   req.CycleID,
		UserID:    req.UserID,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"verified": true,
		"payment":  payment,
	})
}

func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	payment, err := h.payments.Fetch(c.Context(), c.Params("paymentId"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"payment": payment,
	})
}

func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	var req RefundRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.Validation("Invalid request body")
	}
	if req.PaymentID == "" {
		return domain.Validation("Payment ID is required")
	}

	refund, err := h.payments.Refund(c.Context(), req.PaymentID, req.Amount, req.Notes)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"refund":  refund,
	})
}

func (h *PaymentHandler) GetRefund(c *fiber.Ctx) error {
	refund, err := h.payments.FetchRefund(c.Context(), c.Params("refundId"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"refund":  refund,
	})
}

func (h *PaymentHandler) Cancel(c *fiber.Ctx) error {
	var req CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.Validation("Invalid request body")
	}
	if req.PaymentID == "" {
		return domain.Validation("Payment ID is required")
	}

	payment, err := h.payments.Cancel(c.Context(), req.PaymentID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"payment": fiber.Map{
			"id":     payment.ID,
			"status": payment.Status,
		},
	})
}
