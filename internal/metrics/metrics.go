// Package metrics provides Prometheus metrics collection for the console and the mock API.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "staff_console"

var (
	// Global metrics - used by the application.
	// atomic.Pointer keeps the Record* helpers safe to call before Init.
	requestsTotal       atomic.Pointer[prometheus.CounterVec]
	requestDuration     atomic.Pointer[prometheus.HistogramVec]
	gatewayCallsTotal   atomic.Pointer[prometheus.CounterVec]
	gatewayCallDuration atomic.Pointer[prometheus.HistogramVec]
	authFailuresTotal   atomic.Pointer[prometheus.CounterVec]
	notificationsTotal  atomic.Pointer[prometheus.CounterVec]
)

// Init initializes all Prometheus metrics and registers them with the provided registry.
// This should be called once at application startup.
func Init(reg prometheus.Registerer, version string) error {
	// Server side: requests handled by the mock API
	requestsTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestsTotalVec); err != nil {
		return fmt.Errorf("failed to register requestsTotal: %w", err)
	}

	requestDurationVec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestDurationVec); err != nil {
		return fmt.Errorf("failed to register requestDuration: %w", err)
	}

	// Client side: calls issued by the API gateway
	gatewayCallsVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Total number of remote API calls issued by the gateway",
		},
		[]string{"resource", "method", "status"},
	)
	if err := reg.Register(gatewayCallsVec); err != nil {
		return fmt.Errorf("failed to register gatewayCalls: %w", err)
	}

	gatewayDurationVec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Remote API call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"resource", "method"},
	)
	if err := reg.Register(gatewayDurationVec); err != nil {
		return fmt.Errorf("failed to register gatewayDuration: %w", err)
	}

	authFailuresVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "auth_failures_total",
			Help:      "Total number of failed logins and rejected stored credentials",
		},
		[]string{"reason"},
	)
	if err := reg.Register(authFailuresVec); err != nil {
		return fmt.Errorf("failed to register authFailures: %w", err)
	}

	notificationsVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "console",
			Name:      "notifications_total",
			Help:      "Total number of banners raised by resource screens",
		},
		[]string{"resource", "kind"},
	)
	if err := reg.Register(notificationsVec); err != nil {
		return fmt.Errorf("failed to register notifications: %w", err)
	}

	// Info gauge: static metric with constant label values for build info
	infoGaugeVec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "info",
			Help:      "Version and build information",
		},
		[]string{"version"},
	)
	if err := reg.Register(infoGaugeVec); err != nil {
		return fmt.Errorf("failed to register infoGauge: %w", err)
	}
	infoGaugeVec.WithLabelValues(version).Set(1)

	requestsTotal.Store(requestsTotalVec)
	requestDuration.Store(requestDurationVec)
	gatewayCallsTotal.Store(gatewayCallsVec)
	gatewayCallDuration.Store(gatewayDurationVec)
	authFailuresTotal.Store(authFailuresVec)
	notificationsTotal.Store(notificationsVec)

	return nil
}

// RecordRequest increments the server requests counter.
// The path should be normalized (e.g., "/blogs/:id/" instead of "/blogs/7/").
func RecordRequest(method, path, status string) {
	if counter := requestsTotal.Load(); counter != nil {
		counter.WithLabelValues(method, path, status).Inc()
	}
}

// RecordRequestDuration records the latency for a handled request, in seconds.
func RecordRequestDuration(method, path, status string, durationSeconds float64) {
	if histogram := requestDuration.Load(); histogram != nil {
		histogram.WithLabelValues(method, path, status).Observe(durationSeconds)
	}
}

// RecordGatewayCall records one outbound API call. status is the HTTP status
// code as text, or "error" when no response arrived.
func RecordGatewayCall(resource, method, status string, durationSeconds float64) {
	if counter := gatewayCallsTotal.Load(); counter != nil {
		counter.WithLabelValues(resource, method, status).Inc()
	}
	if histogram := gatewayCallDuration.Load(); histogram != nil {
		histogram.WithLabelValues(resource, method).Observe(durationSeconds)
	}
}

// RecordAuthFailure increments the auth failures counter for the given reason.
// Reasons: "login_rejected", "login_error", "credential_rejected",
// "credential_unreadable", "restore_error".
func RecordAuthFailure(reason string) {
	if counter := authFailuresTotal.Load(); counter != nil {
		counter.WithLabelValues(reason).Inc()
	}
}

// RecordNotification counts a banner raised on a resource screen.
func RecordNotification(resource, kind string) {
	if counter := notificationsTotal.Load(); counter != nil {
		counter.WithLabelValues(resource, kind).Inc()
	}
}

// Handler returns an HTTP handler serving the given registry in text format.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// GetMetricsText returns the Prometheus text-format output from a registry.
// This is useful for testing and debugging.
func GetMetricsText(reg prometheus.Gatherer) (string, error) {
	handler := Handler(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	body, err := io.ReadAll(w.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read metrics output: %w", err)
	}

	return string(body), nil
}
