// FILE: internal/server/storage/session.go
package storage

import (
	"fmt"
	"time"
)

// CreateSession records a login. One session per user: any prior
// session is replaced in the same transaction.
func (s *Store) CreateSession(record SessionRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sessions WHERE user_id = ?`, record.UserID); err != nil {
		return fmt.Errorf("replace existing session: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO sessions (session_id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		record.SessionID, record.UserID, record.CreatedAt, record.ExpiresAt,
	); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return tx.Commit()
}

// DeleteSessionByUserID ends a user's session on logout.
func (s *Store) DeleteSessionByUserID(userID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredSessions prunes stale sessions and returns how many
// were removed.
func (s *Store) DeleteExpiredSessions() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
