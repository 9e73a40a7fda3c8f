package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/clubhouse/club-cms/internal/domain"
	apperrors "github.com/clubhouse/club-cms/pkg/util"
)

const identityKey = "auth_identity"

type identityCtxKey struct{}

// Middleware extracts and verifies session tokens.
type Middleware struct {
	tokens     *TokenManager
	cookieName string
}

// NewMiddleware constructs middleware reading the named cookie first and the
// Authorization header second.
func NewMiddleware(tokens *TokenManager, cookieName string) *Middleware {
	return &Middleware{tokens: tokens, cookieName: cookieName}
}

// Authenticate enforces a valid session token. Expired and malformed tokens
// are reported identically.
func (m *Middleware) Authenticate(c *fiber.Ctx) error {
	token := m.tokenFromRequest(c)
	if token == "" {
		return apperrors.NewUnauthorized("not authenticated")
	}
	identity, err := m.tokens.Verify(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	bindIdentity(c, identity)
	return c.Next()
}

// Optional binds the identity when a valid token is present and lets the
// request through otherwise.
func (m *Middleware) Optional(c *fiber.Ctx) error {
	if token := m.tokenFromRequest(c); token != "" {
		if identity, err := m.tokens.Verify(token); err == nil {
			bindIdentity(c, identity)
		}
	}
	return c.Next()
}

func (m *Middleware) tokenFromRequest(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Cookies(m.cookieName)); token != "" {
		return token
	}
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func bindIdentity(c *fiber.Ctx, identity *domain.Identity) {
	c.Locals(identityKey, identity)
	c.SetUserContext(context.WithValue(c.UserContext(), identityCtxKey{}, identity))
}

// IdentityFromContext retrieves the authenticated caller bound by Authenticate.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok && identity != nil
}

// IdentityFrom retrieves the caller from a request-scoped context.
func IdentityFrom(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(*domain.Identity)
	return identity, ok && identity != nil
}
