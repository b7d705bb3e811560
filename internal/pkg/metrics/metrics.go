package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	PaymentsCreated     *prometheus.CounterVec
	WebhooksReceived    *prometheus.CounterVec
	BookingTransitions  *prometheus.CounterVec
	GatewayCallDuration *prometheus.HistogramVec
	LoginThrottled      prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travel_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		PaymentsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_payments_created_total",
			Help: "Payment transactions requested from the gateway",
		}, []string{"result"}),

		WebhooksReceived: f.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_payment_webhooks_total",
			Help: "Gateway notifications received by outcome",
		}, []string{"outcome"}),

		BookingTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_booking_status_transitions_total",
			Help: "Booking status changes by target status",
		}, []string{"status"}),

		GatewayCallDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travel_gateway_call_duration_seconds",
			Help:    "Latency of outbound payment gateway calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),

		LoginThrottled: f.NewCounter(prometheus.CounterOpts{
			Name: "travel_login_throttled_total",
			Help: "Login attempts rejected by the rate limiter",
		}),
	}
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) PaymentCreated(result string) {
	if m == nil {
		return
	}
	m.PaymentsCreated.WithLabelValues(result).Inc()
}

func (m *Metrics) Webhook(outcome string) {
	if m == nil {
		return
	}
	m.WebhooksReceived.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Transition(status string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) GatewayCall(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.GatewayCallDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) Throttled() {
	if m == nil {
		return
	}
	m.LoginThrottled.Inc()
}
