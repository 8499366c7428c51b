package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "codemap"

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	WebhookEventsTotal            *prometheus.CounterVec
	WebhookSignatureFailuresTotal prometheus.Counter
	WebhookDuration               *prometheus.HistogramVec
	SessionsTotal                 *prometheus.CounterVec
	CustomersCreatedTotal         prometheus.Counter
	DownloadsTotal                *prometheus.CounterVec
	HTTPRequestsTotal             *prometheus.CounterVec
	HTTPRequestDuration           *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg)
}

// NewWithRegistry registers the service collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		WebhookEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "webhook_events_total",
			Help:      "Webhook deliveries by event type and reconciliation outcome.",
		}, []string{"event_type", "outcome"}),

		WebhookSignatureFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "webhook_signature_failures_total",
			Help:      "Webhook deliveries rejected by signature verification.",
		}),

		WebhookDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "webhook_duration_seconds",
			Help:      "Webhook processing duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),

		SessionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "sessions_total",
			Help:      "Checkout and portal sessions by kind and result.",
		}, []string{"kind", "result"}),

		CustomersCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "customers_created_total",
			Help:      "Payment provider customers created.",
		}),

		DownloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "downloads",
			Name:      "requests_total",
			Help:      "Artifact download requests by file type and result.",
		}, []string{"file", "result"}),

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveWebhook(eventType, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.WebhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
	m.WebhookDuration.WithLabelValues(eventType).Observe(took.Seconds())
}

func (m *Metrics) SignatureFailure() {
	if m == nil {
		return
	}
	m.WebhookSignatureFailuresTotal.Inc()
}

func (m *Metrics) Session(kind string, err error) {
	if m == nil {
		return
	}
	m.SessionsTotal.WithLabelValues(kind, result(err)).Inc()
}

func (m *Metrics) CustomerCreated() {
	if m == nil {
		return
	}
	m.CustomersCreatedTotal.Inc()
}

func (m *Metrics) Download(file string, err error) {
	if m == nil {
		return
	}
	m.DownloadsTotal.WithLabelValues(file, result(err)).Inc()
}

func (m *Metrics) ObserveHTTP(route, method, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(took.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
