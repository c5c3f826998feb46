package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskHeader(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		header   string
		value    string
		expected string
	}{
		// Password/secret headers (full redaction)
		{"password header", "Password", "secret123", "[REDACTED]"},
		{"prefixed password", "X-Password", "mypass", "[REDACTED]"},
		{"secret header", "X-Secret", "topsecret", "[REDACTED]"},
		{"private key", "Private-Key", "key123", "[REDACTED]"},

		// Authorization keeps its scheme
		{"bearer token", "Authorization", "Bearer token-value-1234", "Bearer ****1234"},
		{"bearer short token", "Authorization", "Bearer abc", "Bearer ****"},
		{"no scheme", "Authorization", "mysecret9999", "****9999"},
		{"mixed case auth", "AUTHORIZATION", "Bearer secret-abcd", "Bearer ****abcd"},
		{"empty value", "Authorization", "", "****"},

		// API key headers (last 4 chars)
		{"x-api-key header", "X-Api-Key", "mykey123", "****y123"},
		{"x-access-key header", "X-Access-Key", "mykey123456", "****3456"},

		// Non-sensitive headers (unchanged)
		{"content-type", "Content-Type", "application/json", "application/json"},
		{"request id", "X-Request-ID", "abc-123", "abc-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := MaskHeader(tt.header, tt.value)
			if result != tt.expected {
				t.Errorf("MaskHeader(%q, %q) = %q, want %q",
					tt.header, tt.value, result, tt.expected)
			}
		})
	}
}

func TestMaskJSONBody(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		body     string
		denylist []string
		wantJSON string
	}{
		{
			name:     "empty denylist returns unchanged",
			body:     `{"email":"a@b.c","password":"secret"}`,
			denylist: nil,
			wantJSON: `{"email":"a@b.c","password":"secret"}`,
		},
		{
			name:     "login request",
			body:     `{"email":"admin@email.com","password":"admin123"}`,
			denylist: SensitiveFields,
			wantJSON: `{"email":"admin@email.com","password":"[REDACTED]"}`,
		},
		{
			name:     "login response keeps identity",
			body:     `{"token":"abcdef","user":{"name":"Admin","permissions":["view_users"]}}`,
			denylist: SensitiveFields,
			wantJSON: `{"token":"[REDACTED]","user":{"name":"Admin","permissions":["view_users"]}}`,
		},
		{
			name:     "array of users",
			body:     `[{"id":1,"password":"a"},{"id":2,"password":"b"}]`,
			denylist: SensitiveFields,
			wantJSON: `[{"id":1,"password":"[REDACTED]"},{"id":2,"password":"[REDACTED]"}]`,
		},
		{
			name:     "case insensitive keys",
			body:     `{"Password":"x"}`,
			denylist: SensitiveFields,
			wantJSON: `{"Password":"[REDACTED]"}`,
		},
		{
			name:     "invalid json returns unchanged",
			body:     `not valid json`,
			denylist: SensitiveFields,
			wantJSON: `not valid json`,
		},
		{
			name:     "empty body",
			body:     ``,
			denylist: SensitiveFields,
			wantJSON: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := MaskJSONBody([]byte(tt.body), tt.denylist)

			if tt.wantJSON == "" || !json.Valid([]byte(tt.wantJSON)) {
				assert.Equal(t, tt.wantJSON, string(result))
				return
			}
			assert.JSONEq(t, tt.wantJSON, string(result))
		})
	}
}

func TestFormatBinaryData(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "[BINARY: 3 bytes]", FormatBinaryData([]byte{1, 2, 3}))
	assert.Equal(t, "[BINARY: 0 bytes]", FormatBinaryData(nil))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFollowsLevelVar(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)

	logger := New(&buf, level)
	logger.Info("hidden")
	assert.Zero(t, buf.Len(), "info should be filtered at warn level")

	level.Set(slog.LevelDebug)
	logger.Debug("shown", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
