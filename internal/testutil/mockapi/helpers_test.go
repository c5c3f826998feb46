package mockapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

// call issues one request against s and returns the status and body.
func call(t *testing.T, s *Server, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, s.URL()+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func errorMessage(t *testing.T, data []byte) string {
	t.Helper()
	return decode[ErrorResponse](t, data).Error
}

// adminToken logs in as the seeded administrator.
func adminToken(t *testing.T, s *Server) string {
	t.Helper()
	status, data := call(t, s, http.MethodPost, "/auth/login", "", map[string]string{
		"email": AdminEmail, "password": AdminPassword,
	})
	if status != http.StatusOK {
		t.Fatalf("admin login status = %d: %s", status, data)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Token
}
