// FILE: internal/server/service/user.go
package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"

	"konane/internal/server/storage"
)

var errStorageDisabled = fmt.Errorf("storage disabled")

// User is the account view handed to handlers; the password hash never
// leaves the storage layer.
type User struct {
	UserID    string
	Username  string
	Email     string
	CreatedAt time.Time
}

func userFromRecord(r *storage.UserRecord) *User {
	return &User{
		UserID:    r.UserID,
		Username:  r.Username,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
	}
}

// CreateUser registers a temp account. Uniqueness of username/email is
// enforced transactionally in storage.
func (s *Service) CreateUser(username, email, password string) (*User, error) {
	if s.store == nil {
		return nil, errStorageDisabled
	}

	// Cap accounts before doing any hashing work
	total, _, _, err := s.store.GetUserCounts()
	if err == nil && total >= MaxUsers {
		return nil, fmt.Errorf("user limit reached")
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.uniqueUserID()
	if err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC()
	expiresAt := createdAt.Add(TempUserTTL)

	if err := s.store.CreateUser(storage.UserRecord{
		UserID:       userID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		AccountType:  "temp",
		CreatedAt:    createdAt,
		ExpiresAt:    &expiresAt,
	}); err != nil {
		return nil, err
	}

	return &User{
		UserID:    userID,
		Username:  username,
		Email:     email,
		CreatedAt: createdAt,
	}, nil
}

// AuthenticateUser checks credentials. The identifier is an email when
// it contains '@', a username otherwise.
func (s *Service) AuthenticateUser(identifier, password string) (*User, error) {
	if s.store == nil {
		return nil, errStorageDisabled
	}

	var record *storage.UserRecord
	var err error
	if strings.Contains(identifier, "@") {
		record, err = s.store.GetUserByEmail(identifier)
	} else {
		record, err = s.store.GetUserByUsername(identifier)
	}
	if err != nil {
		// Hash anyway so unknown users cost the same as bad passwords
		auth.HashPassword(password)
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := auth.VerifyPassword(password, record.PasswordHash); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	return userFromRecord(record), nil
}

// RecordLogin stamps the last login and refreshes the session record.
func (s *Service) RecordLogin(userID string) error {
	if s.store == nil {
		return errStorageDisabled
	}

	now := time.Now().UTC()
	if err := s.store.UpdateUserLastLoginSync(userID, now); err != nil {
		return fmt.Errorf("record login for user %s: %w", userID, err)
	}

	return s.store.CreateSession(storage.SessionRecord{
		SessionID: uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	})
}

// Logout drops the user's session record.
func (s *Service) Logout(userID string) error {
	if s.store == nil {
		return errStorageDisabled
	}
	return s.store.DeleteSessionByUserID(userID)
}

func (s *Service) GetUserByID(userID string) (*User, error) {
	if s.store == nil {
		return nil, errStorageDisabled
	}

	record, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}
	return userFromRecord(record), nil
}

// GenerateUserToken issues a JWT carrying the username and email as
// claims, valid for one session TTL.
func (s *Service) GenerateUserToken(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	return auth.GenerateHS256Token(s.jwtSecret, userID, map[string]any{
		"username": user.Username,
		"email":    user.Email,
	}, SessionTTL)
}

// ValidateToken returns the subject user ID and claims of a valid JWT.
func (s *Service) ValidateToken(token string) (string, map[string]any, error) {
	return auth.ValidateHS256Token(s.jwtSecret, token)
}

// uniqueUserID draws UUIDs until one misses the users table.
func (s *Service) uniqueUserID() (string, error) {
	const maxAttempts = 10
	for i := 0; i < maxAttempts; i++ {
		id := uuid.New().String()
		if _, err := s.store.GetUserByID(id); err != nil {
			return id, nil
		}
	}
	return "", fmt.Errorf("no unique user ID after %d attempts", maxAttempts)
}
