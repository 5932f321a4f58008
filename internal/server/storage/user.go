// FILE: internal/server/storage/user.go
package storage

import (
	"database/sql"
	"fmt"
	"time"
)

const userColumns = `user_id, username, email, password_hash, account_type, created_at, expires_at, last_login_at`

// getUserWhere runs a single-row user lookup with the given predicate.
func (s *Store) getUserWhere(where string, arg any) (*UserRecord, error) {
	var u UserRecord
	err := s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE `+where, arg,
	).Scan(
		&u.UserID, &u.Username, &u.Email,
		&u.PasswordHash, &u.AccountType, &u.CreatedAt,
		&u.ExpiresAt, &u.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername looks a user up case-insensitively.
func (s *Store) GetUserByUsername(username string) (*UserRecord, error) {
	return s.getUserWhere("username = ? COLLATE NOCASE", username)
}

// GetUserByEmail looks a user up case-insensitively.
func (s *Store) GetUserByEmail(email string) (*UserRecord, error) {
	return s.getUserWhere("email = ? COLLATE NOCASE", email)
}

// GetUserByID looks a user up by its UUID.
func (s *Store) GetUserByID(userID string) (*UserRecord, error) {
	return s.getUserWhere("user_id = ?", userID)
}

// CreateUser inserts a user, checking username/email uniqueness inside
// the same transaction so concurrent registrations cannot race.
func (s *Store) CreateUser(record UserRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	taken, err := userTaken(tx, record.Username, record.Email)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("username or email already exists")
	}

	_, err = tx.Exec(`INSERT INTO users (
		user_id, username, email, password_hash, account_type, created_at, expires_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.UserID, record.Username, record.Email,
		record.PasswordHash, record.AccountType, record.CreatedAt, record.ExpiresAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// userTaken reports whether the username or email is already in use.
func userTaken(tx *sql.Tx, username, email string) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE username = ? COLLATE NOCASE`
	args := []any{username}
	if email != "" {
		query += ` OR email = ? COLLATE NOCASE`
		args = append(args, email)
	}

	var count int
	if err := tx.QueryRow(query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteUserByID removes a user. Sessions cascade via foreign key.
func (s *Store) DeleteUserByID(userID string) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE user_id = ?`, userID)
	return err
}

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(userID, passwordHash string) error {
	_, err := s.db.Exec(`UPDATE users SET password_hash = ? WHERE user_id = ?`,
		passwordHash, userID)
	return err
}

// UpdateUserLastLoginSync stamps the last successful login. Runs
// synchronously since it shares the login request path.
func (s *Store) UpdateUserLastLoginSync(userID string, loginTime time.Time) error {
	_, err := s.db.Exec(`UPDATE users SET last_login_at = ? WHERE user_id = ?`,
		loginTime, userID)
	if err != nil {
		return fmt.Errorf("update last login for user %s: %w", userID, err)
	}
	return nil
}

// GetAllUsers returns every user, newest first. Admin CLI only.
func (s *Store) GetAllUsers() ([]UserRecord, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserRecord
	for rows.Next() {
		var u UserRecord
		if err := rows.Scan(
			&u.UserID, &u.Username, &u.Email,
			&u.PasswordHash, &u.AccountType, &u.CreatedAt,
			&u.ExpiresAt, &u.LastLoginAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// GetUserCounts returns totals by account type.
func (s *Store) GetUserCounts() (total, permanent, temp int, err error) {
	err = s.db.QueryRow(`SELECT
		COUNT(*),
		SUM(CASE WHEN account_type = 'permanent' THEN 1 ELSE 0 END),
		SUM(CASE WHEN account_type = 'temp' THEN 1 ELSE 0 END)
	FROM users`).Scan(&total, &permanent, &temp)
	return
}

// DeleteExpiredTempUsers removes temp accounts past their expiry and
// returns how many were deleted.
func (s *Store) DeleteExpiredTempUsers() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM users WHERE account_type = 'temp' AND expires_at < ?`,
		time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
