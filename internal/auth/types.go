package auth

import (
	"errors"
	"regexp"
	"time"
)

// usernamePattern defines the valid format for usernames:
// alphanumeric, dots, hyphens, underscores, 1-64 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// maxUsernameLength is the maximum allowed username length.
const maxUsernameLength = 64

// IsValidUsername checks if a username meets format requirements.
// Usernames must be 1-64 characters, alphanumeric with dots, hyphens, underscores.
func IsValidUsername(username string) bool {
	return len(username) <= maxUsernameLength && usernamePattern.MatchString(username)
}

// Account represents an authenticating identity (a client) that owns
// zero or more devices.
//
// The username is unique and immutable once created. The password hash is
// an Argon2id PHC string and is only ever changed through UpdatePassword.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	FirstName    string    `json:"first_name"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"` // never serialised
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sentinel errors for auth operations.
var (
	// ErrInvalidCredentials is the single outcome for every failed login:
	// unknown username, inactive account, and wrong password are
	// indistinguishable to the caller so account existence never leaks.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrAccountNotFound = errors.New("account not found")
	ErrUsernameExists  = errors.New("username already exists")

	// Token verification failure modes. Each is distinct so the boundary
	// layer can log precisely, but all map to a generic 401 externally.
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenSignature = errors.New("token signature mismatch")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")

	ErrForbidden = errors.New("insufficient permissions")
)
