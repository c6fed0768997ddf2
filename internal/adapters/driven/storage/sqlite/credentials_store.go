package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
)

// credentialsStore keeps the session under domain.CredentialsNamespace.
type credentialsStore struct {
	store *Store
}

var _ driven.CredentialsStore = (*credentialsStore)(nil)

// authRecord is the persisted JSON shape. Token values are kept exactly as
// written; callers unwrap any quoting on read.
type authRecord struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Load returns the stored credentials, or a zero value when none exist.
func (s *credentialsStore) Load(ctx context.Context) (domain.Credentials, error) {
	var value string
	var updatedAt sql.NullTime
	err := s.store.db.QueryRowContext(ctx,
		"SELECT value, updated_at FROM auth_state WHERE key = ?", domain.CredentialsNamespace,
	).Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Credentials{}, nil
	}
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("loading credentials: %w", err)
	}

	var rec authRecord
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		return domain.Credentials{}, fmt.Errorf("decoding credentials: %w", err)
	}

	creds := domain.Credentials{AccessToken: rec.Access, RefreshToken: rec.Refresh}
	if updatedAt.Valid {
		creds.UpdatedAt = updatedAt.Time
	}
	return creds, nil
}

// Save replaces the stored credentials.
func (s *credentialsStore) Save(ctx context.Context, creds domain.Credentials) error {
	value, err := json.Marshal(authRecord{Access: creds.AccessToken, Refresh: creds.RefreshToken})
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	updatedAt := creds.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO auth_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, domain.CredentialsNamespace, string(value), updatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Clear removes every auth_state row.
func (s *credentialsStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM auth_state"); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}
