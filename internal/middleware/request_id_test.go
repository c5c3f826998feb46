package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func serveWithRequestID(t *testing.T, header string) (ctxID, respID string) {
	t.Helper()
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = GetRequestID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return ctxID, rec.Header().Get(RequestIDHeader)
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	t.Parallel()
	ctxID, respID := serveWithRequestID(t, "")

	if _, err := uuid.Parse(ctxID); err != nil {
		t.Errorf("generated ID %q is not a UUID: %v", ctxID, err)
	}
	if respID != ctxID {
		t.Errorf("response header %q does not match context %q", respID, ctxID)
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	t.Parallel()
	a, _ := serveWithRequestID(t, "")
	b, _ := serveWithRequestID(t, "")
	if a == b {
		t.Errorf("two requests got the same ID %q", a)
	}
}

func TestRequestID_ClientSuppliedIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"uuid", "0b6f3c1e-8a9d-4e25-9f61-2a7c5d4b3e10", true},
		{"custom format", "console.req_42", true},
		{"max length", strings.Repeat("a", 128), true},
		{"oversized", strings.Repeat("a", 129), false},
		{"newline", "abc\ndef", false},
		{"space", "abc def", false},
		{"control character", "abc\x00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctxID, respID := serveWithRequestID(t, tt.header)
			if tt.keep && ctxID != tt.header {
				t.Errorf("ID = %q, want client value kept", ctxID)
			}
			if !tt.keep {
				if ctxID == tt.header {
					t.Error("invalid client ID was kept")
				}
				if _, err := uuid.Parse(ctxID); err != nil {
					t.Errorf("replacement ID %q is not a UUID", ctxID)
				}
			}
			if respID != ctxID {
				t.Errorf("response header %q does not match context %q", respID, ctxID)
			}
		})
	}
}

func TestGetRequestID(t *testing.T) {
	t.Parallel()
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() on bare context = %q, want empty", got)
	}
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q, want req-1", got)
	}
}
