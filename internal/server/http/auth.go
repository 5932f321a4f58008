// FILE: internal/server/http/auth.go
package http

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"konane/internal/server/core"
	"konane/internal/server/service"

	"github.com/gofiber/fiber/v2"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{1,40}$`)
)

// TokenValidator verifies a JWT and returns the user ID with claims.
type TokenValidator func(token string) (string, map[string]any, error)

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=40"`
	Email    string `json:"email" validate:"omitempty,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest authenticates by username or email.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// AuthResponse carries the issued JWT and the account it belongs to.
type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse describes the authenticated account.
type UserResponse struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func badRequest(c *fiber.Ctx, msg, details string) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   msg,
		Code:    core.ErrInvalidRequest,
		Details: details,
	})
}

func unauthorized(c *fiber.Ctx, msg, details string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
		Error:   msg,
		Code:    core.ErrUnauthorized,
		Details: details,
	})
}

func internalError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
		Error: msg,
		Code:  core.ErrInternalError,
	})
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(validateToken TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return unauthorized(c, "missing authorization",
				"Authorization header with bearer token is required")
		}

		userID, claims, err := validateToken(token)
		if err != nil {
			return unauthorized(c, "invalid or expired token", "")
		}

		c.Locals("userID", userID)
		c.Locals("claims", claims)
		return c.Next()
	}
}

// OptionalAuth attaches the user ID when a valid bearer token is
// present but lets anonymous requests through.
func OptionalAuth(validateToken TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if userID, claims, err := validateToken(token); err == nil {
				c.Locals("userID", userID)
				c.Locals("claims", claims)
			}
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	const prefix = "Bearer "
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// authUserID reads the user ID placed in Locals by AuthRequired.
func authUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("userID").(string)
	return userID, ok && userID != ""
}

// RegisterHandler creates a new account and logs it in immediately.
func (h *HTTPHandler) RegisterHandler(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", err.Error())
	}

	if !usernameRegex.MatchString(req.Username) {
		return badRequest(c, "invalid username format",
			"username must be 1-40 characters, alphanumeric and underscore only")
	}
	if req.Email != "" && !emailRegex.MatchString(req.Email) {
		return badRequest(c, "invalid email format",
			"email must be a valid email address")
	}
	if err := validatePassword(req.Password); err != nil {
		return badRequest(c, "weak password", err.Error())
	}

	// Usernames and emails are stored lowercased so lookups stay
	// case-insensitive regardless of collation.
	req.Username = strings.ToLower(req.Username)
	req.Email = strings.ToLower(req.Email)

	user, err := h.svc.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return c.Status(fiber.StatusConflict).JSON(core.ErrorResponse{
				Error:   "user already exists",
				Code:    core.ErrInvalidRequest,
				Details: "username or email already taken",
			})
		}
		return internalError(c, "failed to create user")
	}

	token, err := h.svc.GenerateUserToken(user.UserID)
	if err != nil {
		return internalError(c, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		Token:     token,
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(service.SessionTTL),
	})
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	hasLetter, hasNumber := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsNumber(r):
			hasNumber = true
		}
		if hasLetter && hasNumber {
			return nil
		}
	}
	return fmt.Errorf("password must contain at least one letter and one number")
}

// LoginHandler authenticates a user and returns a fresh JWT.
func (h *HTTPHandler) LoginHandler(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", err.Error())
	}

	req.Identifier = strings.ToLower(req.Identifier)

	user, err := h.svc.AuthenticateUser(req.Identifier, req.Password)
	if err != nil {
		// Same response for unknown user and wrong password to
		// prevent enumeration.
		return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
			Error: "invalid credentials",
			Code:  core.ErrInvalidRequest,
		})
	}

	token, err := h.svc.GenerateUserToken(user.UserID)
	if err != nil {
		return internalError(c, "failed to generate token")
	}

	// Record login time and refresh the session row.
	// TODO: surface session write failures once storage health is exposed per-user
	_ = h.svc.RecordLogin(user.UserID)

	return c.JSON(AuthResponse{
		Token:     token,
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(service.SessionTTL),
	})
}

// GetCurrentUserHandler returns the authenticated account's details.
func (h *HTTPHandler) GetCurrentUserHandler(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized", "")
	}

	user, err := h.svc.GetUserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "user not found",
			Code:  core.ErrInvalidRequest,
		})
	}

	return c.JSON(UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// LogoutHandler drops the authenticated user's session.
func (h *HTTPHandler) LogoutHandler(c *fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return unauthorized(c, "unauthorized", "")
	}

	if err := h.svc.Logout(userID); err != nil {
		return internalError(c, "failed to log out")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
