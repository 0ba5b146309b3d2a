package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_orders_created_total",
		Help: "Total gateway orders created",
	})

	VerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_verifications_total",
		Help: "Payment confirmation signature checks by outcome",
	}, []string{"outcome"})

	RefundsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_refunds_total",
		Help: "Total refunds requested",
	})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_webhook_events_total",
		Help: "Webhook deliveries by event type and outcome",
	}, []string{"event", "outcome"})

	// Infrastructure metrics
	GatewayLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payments_gateway_latency_seconds",
		Help:    "Latency of Razorpay API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)
