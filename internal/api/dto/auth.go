package dto

import (
	"time"

	"github.com/clubhouse/club-cms/internal/domain"
)

var (
	credentialsSchema = NewSchema(map[string][]string{
		"email":    nil,
		"password": {"pass"},
	})
	passwordChangeSchema = NewSchema(map[string][]string{
		"currentPassword": {"oldPassword"},
		"newPassword":     nil,
	})
)

// Credentials is the login and registration payload.
type Credentials struct {
	Email    string
	Password string
}

// ParseCredentials accepts {email, pass} or {email, password}.
func ParseCredentials(in Fields) (Credentials, error) {
	fields, err := credentialsSchema.Apply(in)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Email: fields["email"], Password: fields["password"]}, nil
}

// PasswordChange is the payload of POST /users/password.
type PasswordChange struct {
	CurrentPassword string
	NewPassword     string
}

// ParsePasswordChange parses the password change payload.
func ParsePasswordChange(in Fields) (PasswordChange, error) {
	fields, err := passwordChangeSchema.Apply(in)
	if err != nil {
		return PasswordChange{}, err
	}
	return PasswordChange{CurrentPassword: fields["currentPassword"], NewPassword: fields["newPassword"]}, nil
}

// UserResponse is an admin account without credentials.
type UserResponse struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserResponse strips the password hash.
func NewUserResponse(u *domain.AdminUser) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

// SessionResponse wraps the account returned by register and login.
type SessionResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}
