package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/clubhouse/club-cms/internal/api/dto"
	"github.com/clubhouse/club-cms/internal/auth"
	"github.com/clubhouse/club-cms/internal/service"
)

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	Name       string
	Production bool
}

// UsersHandler exposes admin account and session endpoints.
type UsersHandler struct {
	auth   *service.AuthService
	cookie CookieConfig
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, cookie CookieConfig) *UsersHandler {
	return &UsersHandler{auth: authService, cookie: cookie}
}

// Register handles POST /users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return err
	}
	creds, err := dto.ParseCredentials(fields)
	if err != nil {
		return err
	}

	caller, _ := auth.IdentityFromContext(c)
	user, err := h.auth.Register(c.UserContext(), caller, creds.Email, creds.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.SessionResponse{Message: "User registered", User: dto.NewUserResponse(user)})
}

// Login handles POST /users/login. The token travels only in the cookie.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return err
	}
	creds, err := dto.ParseCredentials(fields)
	if err != nil {
		return err
	}

	session, err := h.auth.Login(c.UserContext(), creds.Email, creds.Password)
	if err != nil {
		return err
	}

	c.Cookie(h.sessionCookie(session.Token, session.ExpiresAt))
	return c.JSON(dto.SessionResponse{Message: "Login successful", User: dto.NewUserResponse(session.User)})
}

// Logout handles POST /users/logout. Issued tokens stay valid until expiry.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(h.sessionCookie("", time.Unix(0, 0).UTC()))
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(out)
}

// ChangePassword handles POST /users/password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return err
	}
	req, err := dto.ParsePasswordChange(fields)
	if err != nil {
		return err
	}

	caller, _ := auth.IdentityFromContext(c)
	if err := h.auth.ChangePassword(c.UserContext(), caller, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password updated"})
}

func (h *UsersHandler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if value != "" {
		cookie.MaxAge = int(auth.TokenLifetime.Seconds())
	}
	if h.cookie.Production {
		cookie.Secure = true
		cookie.SameSite = fiber.CookieSameSiteNoneMode
	}
	return cookie
}
