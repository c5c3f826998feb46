//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sipico/staff-console/internal/api"
	"github.com/sipico/staff-console/internal/auth"
	"github.com/sipico/staff-console/internal/console"
	"github.com/sipico/staff-console/internal/testutil/mockapi"
	"github.com/sipico/staff-console/internal/testutil/mockstore"
)

// getEnv returns environment variable value or fallback if not set.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// waitForService polls the URL until it returns 200 OK or timeout expires.
func waitForService(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("service at %s not ready after %v", url, timeout)
}

// resetMockAPI restores the seeded data set.
func resetMockAPI(t *testing.T) {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, apiURL+"/admin/reset", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// failNext makes the next count API requests fail.
func failNext(t *testing.T, status int, message string, count int) {
	t.Helper()
	body, err := json.Marshal(mockapi.NextErrorRequest{Status: status, Message: message, Count: count})
	require.NoError(t, err)
	resp, err := http.Post(apiURL+"/admin/next-error", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// signIn logs in and returns the session with a resource client bound to it.
func signIn(t *testing.T, email, password string) (*auth.Session, *api.Client) {
	t.Helper()
	session := auth.NewSession(api.NewClient(apiURL), &mockstore.MockStorage{}, nil)
	_, err := session.Login(context.Background(), email, password)
	require.NoError(t, err)
	return session, api.NewClient(apiURL, api.WithTokenSource(session))
}

// seedStaff creates a staff account with the given permissions as the admin.
func seedStaff(t *testing.T, email string, perms ...string) {
	t.Helper()
	_, admin := signIn(t, mockapi.AdminEmail, mockapi.AdminPassword)
	_, err := admin.Users().Create(context.Background(), api.User{
		Name:        "Staff " + email,
		Email:       email,
		Password:    "staff-pass",
		Permissions: perms,
	})
	require.NoError(t, err)
}

// screens builds the resource screens for session, accepting every
// confirmation.
func screens(session *auth.Session, client *api.Client) (map[string]console.Screen, *console.Notifier) {
	notifier := console.NewNotifier(time.Minute)
	return console.NewScreens(client, session,
		console.WithNotifier(notifier),
		console.WithConfirmer(console.Accept),
	), notifier
}
