package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericSegment matches numeric path segments.
var numericSegment = regexp.MustCompile(`/(\d+)`)

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader captures the status code and writes it to the underlying ResponseWriter
func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
		r.ResponseWriter.WriteHeader(code)
	}
}

// Write ensures WriteHeader is called before writing body
func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}

// Middleware returns an HTTP middleware that records Prometheus metrics for each request.
// It tracks:
// - Request count by method, path, and status code
// - Request duration (latency)
// - Panics are recorded as 500 status codes
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		startTime := time.Now()

		defer func() {
			duration := time.Since(startTime).Seconds()

			statusCode := recorder.statusCode
			if statusCode == 0 {
				statusCode = http.StatusInternalServerError
			}

			// e.g., /blogs/123/ becomes /blogs/:id/
			normalizedPath := normalizePath(r.URL.Path)

			statusStr := http.StatusText(statusCode)
			if statusStr == "" {
				statusStr = "UNKNOWN"
			}

			RecordRequest(r.Method, normalizedPath, statusStr)
			RecordRequestDuration(r.Method, normalizedPath, statusStr, duration)

			// Swallow the panic after recording; the response becomes a 500.
			if err := recover(); err != nil {
				if !recorder.written {
					recorder.statusCode = http.StatusInternalServerError
					recorder.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(recorder, r)
	})
}

// normalizePath takes a request path and returns a normalized version for use as a metric label.
// Examples:
//
//	/blogs/123/ -> /blogs/:id/
//	/users/7 -> /users/:id
func normalizePath(path string) string {
	return numericSegment.ReplaceAllString(path, "/:id")
}

// Transport is an http.RoundTripper recording every outbound gateway call.
type Transport struct {
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base().RoundTrip(req)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	RecordGatewayCall(resourceLabel(req.URL.Path), req.Method, status, duration)

	return resp, err
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// resourceLabel reduces a request path to a bounded label: the first segment,
// or "auth/<op>" for the authentication endpoints.
//
//	/blogs/12/ -> blogs
//	/auth/login -> auth/login
func resourceLabel(path string) string {
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return "root"
	}
	if segments[0] == "auth" && len(segments) > 1 {
		return "auth/" + segments[1]
	}
	return segments[0]
}
