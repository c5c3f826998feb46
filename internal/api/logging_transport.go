package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sipico/staff-console/internal/logging"
	"github.com/sipico/staff-console/internal/metrics"
)

// LoggingTransport wraps an http.RoundTripper and logs every gateway call at
// debug level. Credentials in headers and bodies are masked.
type LoggingTransport struct {
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// RoundTrip implements http.RoundTripper interface
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.Logger.Enabled(req.Context(), slog.LevelDebug) {
		return t.transport().RoundTrip(req)
	}

	start := time.Now()

	var reqBodyBytes []byte
	if req.Body != nil {
		var err error
		reqBodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		// Restore body for transport
		req.Body = io.NopCloser(bytes.NewReader(reqBodyBytes))
	}

	t.Logger.Debug("gateway request",
		"request_id", req.Header.Get(RequestIDHeader),
		"method", req.Method,
		"url", req.URL.String(),
		"headers", maskHeaders(req.Header),
		"body", string(logging.MaskJSONBody(reqBodyBytes, logging.SensitiveFields)),
	)

	resp, err := t.transport().RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.Logger.Debug("gateway request failed",
			"request_id", req.Header.Get(RequestIDHeader),
			"method", req.Method,
			"url", req.URL.String(),
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close() //nolint:errcheck
	if err != nil {
		return nil, err
	}
	// Restore body for caller
	resp.Body = io.NopCloser(bytes.NewReader(respBodyBytes))

	t.Logger.Debug("gateway response",
		"request_id", req.Header.Get(RequestIDHeader),
		"status_code", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
		"body", string(logging.MaskJSONBody(respBodyBytes, logging.SensitiveFields)),
	)

	return resp, nil
}

// transport returns the underlying transport or DefaultTransport if nil
func (t *LoggingTransport) transport() http.RoundTripper {
	if t.Transport != nil {
		return t.Transport
	}
	return http.DefaultTransport
}

func maskHeaders(h http.Header) map[string]string {
	masked := make(map[string]string, len(h))
	for name, values := range h {
		masked[name] = logging.MaskHeader(name, strings.Join(values, ", "))
	}
	return masked
}

// NewTransport returns the gateway's round-tripper chain: debug logging on
// the outside, Prometheus accounting beneath it, then base (or
// http.DefaultTransport when base is nil).
func NewTransport(logger *slog.Logger, base http.RoundTripper) http.RoundTripper {
	if logger == nil {
		logger = logging.Discard()
	}
	return &LoggingTransport{
		Transport: &metrics.Transport{Base: base},
		Logger:    logger,
	}
}
