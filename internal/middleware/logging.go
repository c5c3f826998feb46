// Package middleware provides HTTP middleware components for the mock API server.
package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sipico/staff-console/internal/logging"
)

// HTTPLogging creates a middleware that logs HTTP exchanges at debug level.
// Values of denylisted JSON keys are redacted in both directions, so login
// passwords and issued tokens never reach the log.
func HTTPLogging(logger *slog.Logger, denylist []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !logger.Enabled(r.Context(), slog.LevelDebug) {
				next.ServeHTTP(w, r)
				return
			}

			logRequest(logger, r, denylist)

			rec := &responseRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           new(bytes.Buffer),
			}

			start := time.Now()
			next.ServeHTTP(rec, r)

			logResponse(logger, r, rec, time.Since(start), denylist)
		})
	}
}

func logRequest(logger *slog.Logger, r *http.Request, denylist []string) {
	var reqBody []byte
	if r.Body != nil {
		var err error
		reqBody, err = io.ReadAll(r.Body)
		if err != nil {
			logger.Error("Failed to read request body", "error", err)
			return
		}
		// Restore body for handler
		r.Body = io.NopCloser(bytes.NewReader(reqBody))
	}

	logger.Debug("HTTP Request",
		"request_id", GetRequestID(r.Context()),
		"method", r.Method,
		"url", r.URL.Path,
		"query_params", r.URL.RawQuery,
		"headers", maskHeaders(r.Header),
		"body", maskBody(reqBody, denylist),
	)
}

func logResponse(logger *slog.Logger, r *http.Request, rec *responseRecorder, duration time.Duration, denylist []string) {
	logger.Debug("HTTP Response",
		"request_id", GetRequestID(r.Context()),
		"method", r.Method,
		"url", r.URL.Path,
		"status_code", rec.statusCode,
		"headers", maskHeaders(rec.Header()),
		"body", maskBody(rec.body.Bytes(), denylist),
		"duration_ms", duration.Milliseconds(),
	)
}

// maskHeaders masks sensitive header values
func maskHeaders(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for k, v := range headers {
		if len(v) > 0 {
			result[k] = logging.MaskHeader(k, strings.Join(v, ", "))
		}
	}
	return result
}

// maskBody masks sensitive data in request/response body
func maskBody(body []byte, denylist []string) string {
	if len(body) == 0 {
		return ""
	}

	if !utf8.Valid(body) {
		return logging.FormatBinaryData(body)
	}

	return string(logging.MaskJSONBody(body, denylist))
}

// responseRecorder captures response details for logging.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

// WriteHeader captures the status code and writes it to the response.
func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Write captures the response body and writes it to the response.
func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b) // Capture for logging
	return r.ResponseWriter.Write(b)
}
