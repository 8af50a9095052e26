package user

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// Domain errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidEmail    = errors.New("a valid email is required")
	ErrWeakPassword    = errors.New("password must be at least 6 characters")
	ErrInvalidPassword = errors.New("invalid email or password")
)

type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	OAuthProvider *string   `json:"oauthProvider,omitempty"` // Nullable for password users
	OAuthID       *string   `json:"-"`                       // Don't expose OAuth ID in JSON
	PasswordHash  *string   `json:"-"`
	AvatarURL     *string   `json:"avatarUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UID is the storage namespace of the user's records.
func (u *User) UID() string {
	return UIDFromID(u.ID)
}

// UIDFromID converts a user ID to its storage namespace.
func UIDFromID(id int64) string {
	return strconv.FormatInt(id, 10)
}

type CreateUserParams struct {
	Email         string
	Name          string
	OAuthProvider *string
	OAuthID       *string
	PasswordHash  *string
	AvatarURL     *string
}

type UpdateUserParams struct {
	Name      *string
	AvatarURL *string
}

// RegisterParams is the input of an email registration.
type RegisterParams struct {
	Email    string
	Password string
	Name     string
}

// Validate normalizes the email and checks the password length.
func (p *RegisterParams) Validate() error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return ErrInvalidEmail
	}
	if len(p.Password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if p.Name == "" {
		p.Name = strings.SplitN(p.Email, "@", 2)[0]
	}
	return nil
}
