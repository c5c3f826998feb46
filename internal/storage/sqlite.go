package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// tokenKey is the settings row holding the bearer credential.
const tokenKey = "token"

// SQLiteStorage implements TokenStore using SQLite.
type SQLiteStorage struct {
	db            *sql.DB
	encryptionKey []byte
}

// New opens (creating if needed) the SQLite database at dbPath.
// dbPath may be ":memory:" for tests. encryptionKey is nil to store the
// credential as-is, or 32 bytes to encrypt it with AES-256-GCM.
func New(dbPath string, encryptionKey []byte) (*SQLiteStorage, error) {
	if encryptionKey != nil && len(encryptionKey) != 32 {
		return nil, ErrInvalidKey
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc.org/sqlite requires a single connection for in-process
	// databases; ":memory:" would otherwise give each connection its own DB.
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		_ = db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &SQLiteStorage{
		db:            db,
		encryptionKey: encryptionKey,
	}, nil
}

// SaveToken stores the credential, encrypting it when a key is configured.
func (s *SQLiteStorage) SaveToken(ctx context.Context, token string) error {
	value := []byte(token)
	encrypted := 0
	if s.encryptionKey != nil {
		var err error
		value, err = EncryptValue(token, s.encryptionKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt token: %w", err)
		}
		encrypted = 1
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO settings (key, value, encrypted, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)",
		tokenKey, value, encrypted,
	)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// LoadToken returns the stored credential.
// Returns ErrNotFound if none is stored, ErrDecryption if it cannot be read
// with the configured key.
func (s *SQLiteStorage) LoadToken(ctx context.Context) (string, error) {
	var (
		value     []byte
		encrypted int
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT value, encrypted FROM settings WHERE key = ?", tokenKey,
	).Scan(&value, &encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}

	if encrypted == 0 {
		return string(value), nil
	}
	if s.encryptionKey == nil {
		return "", ErrDecryption
	}

	token, err := DecryptValue(value, s.encryptionKey)
	if err != nil {
		return "", err
	}
	return token, nil
}

// ClearToken deletes the stored credential.
func (s *SQLiteStorage) ClearToken(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", tokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
