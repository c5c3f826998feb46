// Package mockstore provides a configurable mock implementation of storage.TokenStore for testing.
//
// The MockStorage type uses function fields for each method, allowing tests to customize behavior
// as needed while providing sensible defaults for methods that aren't customized.
package mockstore

import (
	"context"
	"sync"

	"github.com/sipico/staff-console/internal/storage"
)

// MockStorage is a configurable mock implementation of storage.TokenStore.
// With no function fields set it behaves as an in-memory store.
type MockStorage struct {
	LoadTokenFunc  func(ctx context.Context) (string, error)
	SaveTokenFunc  func(ctx context.Context, token string) error
	ClearTokenFunc func(ctx context.Context) error
	CloseFunc      func() error

	mu    sync.Mutex
	token string
	set   bool
}

// LoadToken returns the stored credential.
func (m *MockStorage) LoadToken(ctx context.Context) (string, error) {
	if m.LoadTokenFunc != nil {
		return m.LoadTokenFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", storage.ErrNotFound
	}
	return m.token, nil
}

// SaveToken stores the credential.
func (m *MockStorage) SaveToken(ctx context.Context, token string) error {
	if m.SaveTokenFunc != nil {
		return m.SaveTokenFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = token, true
	return nil
}

// ClearToken removes the credential.
func (m *MockStorage) ClearToken(ctx context.Context) error {
	if m.ClearTokenFunc != nil {
		return m.ClearTokenFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.set = "", false
	return nil
}

// Close closes the storage.
func (m *MockStorage) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Stored reports the in-memory credential, for assertions.
func (m *MockStorage) Stored() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.set
}

// Ensure MockStorage implements the interface.
var _ storage.TokenStore = (*MockStorage)(nil)
