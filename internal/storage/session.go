package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/spicewatch/internal/common"
)

const sessionAccountKey = "account_id"

// AccountID returns the persisted account, or common.ErrNoSession when signed out.
func (s *SQLiteStorage) AccountID(ctx context.Context) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}

	var accountID string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, sessionAccountKey).Scan(&accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return accountID, nil
}

// SetAccountID signs an account in, replacing any previous session.
func (s *SQLiteStorage) SetAccountID(ctx context.Context, accountID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, sessionAccountKey, accountID)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ClearSession signs out. Clearing an empty session is not an error.
func (s *SQLiteStorage) ClearSession(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, sessionAccountKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
