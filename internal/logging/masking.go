// Package logging provides logger construction and secure logging with data masking.
package logging

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Redacted replaces values that must never be logged.
const Redacted = "[REDACTED]"

// SensitiveFields lists the JSON keys the console and the mock API never log
// in clear: login passwords, user passwords and issued bearer tokens.
var SensitiveFields = []string{"password", "token"}

// MaskHeader redacts sensitive header values based on header name.
// Returns the redacted value suitable for logging.
//
// Rules:
// - Password/secret headers: "[REDACTED]" (no partial reveal)
// - Authorization: scheme kept, credential reduced to "****" + last 4 chars
// - API key headers: "****" + last 4 chars
// - Other headers: returned unchanged
func MaskHeader(name, value string) string {
	lowerName := strings.ToLower(name)

	if strings.Contains(lowerName, "password") ||
		strings.Contains(lowerName, "secret") ||
		strings.Contains(lowerName, "private-key") {
		return Redacted
	}

	if lowerName == "authorization" {
		scheme, credential, found := strings.Cut(value, " ")
		if !found {
			return maskTail(value)
		}
		return scheme + " " + maskTail(credential)
	}

	if lowerName == "x-api-key" || lowerName == "x-access-key" {
		return maskTail(value)
	}

	return value
}

// maskTail keeps the last four characters of a credential.
func maskTail(value string) string {
	if len(value) < 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}

// MaskJSONBody redacts the values of denylisted keys anywhere in a JSON body.
//
// If denylist is empty, returns the body unchanged.
// Objects and arrays under a denylisted key are replaced wholesale.
//
// Returns the masked JSON as bytes, or the original if parsing fails.
func MaskJSONBody(body []byte, denylist []string) []byte {
	if len(denylist) == 0 || len(body) == 0 {
		return body
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return body
	}

	deny := make(map[string]bool, len(denylist))
	for _, field := range denylist {
		deny[strings.ToLower(field)] = true
	}

	result, err := json.Marshal(maskJSONValue(data, deny))
	if err != nil {
		return body
	}

	return result
}

// maskJSONValue recursively masks JSON values based on the denylist.
func maskJSONValue(value any, deny map[string]bool) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, val := range v {
			if deny[strings.ToLower(key)] {
				result[key] = Redacted
				continue
			}
			result[key] = maskJSONValue(val, deny)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = maskJSONValue(item, deny)
		}
		return result
	default:
		return value
	}
}

// FormatBinaryData formats binary data for logging.
// Returns a human-readable size indicator.
func FormatBinaryData(data []byte) string {
	return fmt.Sprintf("[BINARY: %d bytes]", len(data))
}
