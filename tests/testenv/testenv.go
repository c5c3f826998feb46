// Package testenv provides a reusable test environment for the admin API.
// It supports both an in-process mock and a running server, with automatic
// cleanup and record naming based on Git commit hashes for easy
// identification in logs.
package testenv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/sipico/staff-console/internal/api"
	"github.com/sipico/staff-console/internal/testutil/mockapi"
)

// TestMode represents the testing mode.
type TestMode string

const (
	// ModeMock runs tests against an in-process mock API.
	ModeMock TestMode = "mock"
	// ModeRemote runs tests against the server at API_URL.
	ModeRemote TestMode = "remote"
)

// titleSuffix marks records created by test runs.
const titleSuffix = "-e2e"

// TestEnv provides a test environment that works with both modes.
type TestEnv struct {
	// Client is signed in as the administrator.
	Client *api.Client
	// Mode indicates whether we're running against the mock or a server.
	Mode TestMode
	// BaseURL is the API base URL.
	BaseURL string
	// CommitHash is the short Git commit hash used in record titles.
	CommitHash string
	// Token is the administrator's bearer credential.
	Token string
	// Blogs stores created blogs for cleanup.
	Blogs []*api.Blog

	mockServer *mockapi.Server
	httpClient *http.Client
	ctx        context.Context
}

// Setup creates a new test environment based on the TEST_MODE env var.
// Default mode is mock. In remote mode API_URL must be set or the test is
// skipped. Stale records from earlier runs are removed before returning and
// everything created is removed when the test completes.
func Setup(t *testing.T) *TestEnv {
	t.Helper()
	env := &TestEnv{
		Mode:       getTestMode(),
		CommitHash: getCommitHash(),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		ctx:        context.Background(),
	}

	switch env.Mode {
	case ModeMock:
		env.setupMock()
	case ModeRemote:
		env.setupRemote(t)
	default:
		t.Fatalf("Invalid test mode: %s", env.Mode)
	}

	env.signIn(t)
	env.CleanupStaleBlogs(t)

	t.Cleanup(func() {
		env.Cleanup(t)
		env.close()
	})

	return env
}

// CreateTestBlogs creates count blogs with commit-hash titles.
// Title format: {index+1}-{commit-hash}-e2e
func (e *TestEnv) CreateTestBlogs(t *testing.T, count int) []*api.Blog {
	t.Helper()
	for i := range count {
		title := e.blogTitle(i)
		blog, err := e.Client.Blogs().Create(e.ctx, api.Blog{
			Title:  title,
			Author: "testenv",
			Tags:   []string{"e2e", e.CommitHash},
		})
		if err != nil {
			t.Fatalf("Failed to create blog %s: %v", title, err)
		}
		e.Blogs = append(e.Blogs, blog)
		t.Logf("Created blog: %s (ID: %s)", blog.Title, blog.ID)
	}
	return e.Blogs
}

// Cleanup deletes all created blogs and verifies none remain.
// This is registered automatically via t.Cleanup() in Setup().
func (e *TestEnv) Cleanup(t *testing.T) {
	t.Helper()
	tracked := make(map[api.ID]bool, len(e.Blogs))

	for _, blog := range e.Blogs {
		if blog == nil {
			continue
		}
		tracked[blog.ID] = true
		err := e.Client.Blogs().Delete(e.ctx, blog.ID)
		if err != nil && !errors.Is(err, api.ErrNotFound) {
			t.Logf("Warning: Failed to delete blog %s: %v", blog.ID, err)
		}
	}
	e.Blogs = nil
	e.verifyCleanupComplete(t, tracked)
}

func (e *TestEnv) close() {
	if e.mockServer != nil {
		e.mockServer.Close()
	}
}

// verifyCleanupComplete checks that none of the tracked blogs survive.
func (e *TestEnv) verifyCleanupComplete(t *testing.T, tracked map[api.ID]bool) {
	t.Helper()
	blogs, err := e.Client.Blogs().List(e.ctx)
	if err != nil {
		t.Logf("Note: Failed to verify cleanup: %v", err)
		return
	}
	for _, blog := range blogs {
		if tracked[blog.ID] {
			t.Errorf("Cleanup failed: blog %s (%s) still exists", blog.ID, blog.Title)
		}
	}
}

// CleanupStaleBlogs deletes blogs left behind by earlier failed runs.
func (e *TestEnv) CleanupStaleBlogs(t *testing.T) {
	t.Helper()
	blogs, err := e.Client.Blogs().List(e.ctx)
	if err != nil {
		t.Fatalf("Failed to list blogs: %v", err)
	}
	for _, blog := range blogs {
		if !strings.HasSuffix(blog.Title, titleSuffix) {
			continue
		}
		if err := e.Client.Blogs().Delete(e.ctx, blog.ID); err != nil {
			t.Logf("Warning: Failed to delete stale blog %s: %v", blog.ID, err)
			continue
		}
		t.Logf("Deleted stale blog: %s (ID: %s)", blog.Title, blog.ID)
	}
}

// State returns the record counts reported by the mock's control endpoint.
func (e *TestEnv) State(t *testing.T) mockapi.StateResponse {
	t.Helper()
	resp, err := e.httpClient.Get(e.BaseURL + "/admin/state")
	if err != nil {
		t.Fatalf("Failed to fetch state: %v", err)
	}
	defer resp.Body.Close()

	var state mockapi.StateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("Failed to decode state: %v", err)
	}
	return state
}

// FailNext makes the next count API requests fail with status and message.
func (e *TestEnv) FailNext(t *testing.T, status int, message string, count int) {
	t.Helper()
	body, err := json.Marshal(mockapi.NextErrorRequest{Status: status, Message: message, Count: count})
	if err != nil {
		t.Fatalf("Failed to encode request: %v", err)
	}
	resp, err := e.httpClient.Post(e.BaseURL+"/admin/next-error", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to schedule error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Scheduling error returned status %d", resp.StatusCode)
	}
}

func (e *TestEnv) setupMock() {
	e.mockServer = mockapi.New()
	e.BaseURL = e.mockServer.URL()
}

func (e *TestEnv) setupRemote(t *testing.T) {
	t.Helper()
	e.BaseURL = strings.TrimRight(os.Getenv("API_URL"), "/")
	if e.BaseURL == "" {
		t.Skip("API_URL not set, skipping remote test")
	}
}

// signIn logs in as the administrator given by ADMIN_EMAIL and
// ADMIN_PASSWORD, or the mock's seeded account.
func (e *TestEnv) signIn(t *testing.T) {
	t.Helper()
	email := getEnv("ADMIN_EMAIL", mockapi.AdminEmail)
	password := getEnv("ADMIN_PASSWORD", mockapi.AdminPassword)

	resp, err := api.NewClient(e.BaseURL).Login(e.ctx, email, password)
	if err != nil {
		t.Fatalf("Failed to sign in as %s: %v", email, err)
	}
	e.Token = resp.Token
	e.Client = api.NewClient(e.BaseURL, api.WithTokenSource(api.StaticToken(resp.Token)))
}

func (e *TestEnv) blogTitle(index int) string {
	return fmt.Sprintf("%d-%s%s", index+1, e.CommitHash, titleSuffix)
}

func getTestMode() TestMode {
	if mode := os.Getenv("TEST_MODE"); mode != "" {
		return TestMode(mode)
	}
	return ModeMock
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getCommitHash returns the short hash of HEAD, or "local" outside a
// repository.
func getCommitHash() string {
	if hash := os.Getenv("GITHUB_SHA"); len(hash) >= 7 {
		return hash[:7]
	}
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "local"
	}
	hash := strings.TrimSpace(string(out))
	if hash == "" {
		return "local"
	}
	return hash
}
