package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubhouse/club-cms/internal/config"
	"github.com/clubhouse/club-cms/internal/domain"
	"github.com/clubhouse/club-cms/internal/repository/repotest"
	apperrors "github.com/clubhouse/club-cms/pkg/util"
)

type fakeLimiter struct {
	blocked  bool
	err      error
	failures int
	resets   int
}

func (f *fakeLimiter) Blocked(context.Context, string) (bool, error) { return f.blocked, f.err }
func (f *fakeLimiter) Fail(context.Context, string) error {
	f.failures++
	return f.err
}
func (f *fakeLimiter) Reset(context.Context, string) error {
	f.resets++
	return f.err
}

func newAuthService(t *testing.T, users *repotest.AdminUserStore, limiter LoginLimiter) *AuthService {
	t.Helper()
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", BcryptCost: bcrypt.MinCost}}
	return NewAuthService(cfg, AuthDependencies{UserRepo: users, Limiter: limiter})
}

func adminIdentity(id string) *domain.Identity {
	return &domain.Identity{SubjectID: id, Email: "admin@club.com", Role: domain.RoleAdmin}
}

func TestAuthService_RegisterBootstrap(t *testing.T) {
	users := &repotest.AdminUserStore{}
	svc := newAuthService(t, users, nil)
	ctx := context.Background()

	first, err := svc.Register(ctx, nil, " Admin@Club.com ", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "admin@club.com", first.Email)
	assert.NotEqual(t, "correct-horse", first.PasswordHash)

	_, err = svc.Register(ctx, nil, "second@club.com", "correct-horse")
	assert.True(t, apperrors.IsStatus(err, http.StatusUnauthorized))

	second, err := svc.Register(ctx, adminIdentity(first.ID), "second@club.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "second@club.com", second.Email)

	_, err = svc.Register(ctx, adminIdentity(first.ID), "SECOND@club.com", "correct-horse")
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
}

func TestAuthService_RegisterBootstrapIsSerialized(t *testing.T) {
	users := &repotest.AdminUserStore{}
	svc := newAuthService(t, users, nil)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), nil, fmt.Sprintf("admin%d@club.com", i), "correct-horse")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperrors.IsStatus(err, http.StatusUnauthorized))
	}
	assert.Equal(t, 1, succeeded)

	count, err := users.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestAuthService_UnknownEmailStillHashes(t *testing.T) {
	svc := newAuthService(t, &repotest.AdminUserStore{}, nil)

	cost, err := bcrypt.Cost([]byte(svc.dummyHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.ErrorIs(t, bcrypt.CompareHashAndPassword([]byte(svc.dummyHash), []byte("guess")), bcrypt.ErrMismatchedHashAndPassword)

	_, err = svc.Login(context.Background(), "nobody@club.com", "guess-password")
	assert.ErrorIs(t, err, errInvalidCredentials)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newAuthService(t, &repotest.AdminUserStore{}, nil)

	_, err := svc.Register(context.Background(), nil, "not-an-email", "short")
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Contains(t, de.Details, "email")
	assert.Contains(t, de.Details, "password")
}

func TestAuthService_Login(t *testing.T) {
	users := &repotest.AdminUserStore{}
	limiter := &fakeLimiter{}
	svc := newAuthService(t, users, limiter)
	ctx := context.Background()

	user, err := svc.Register(ctx, nil, "admin@club.com", "correct-horse")
	require.NoError(t, err)

	session, err := svc.Login(ctx, "ADMIN@club.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, 1, limiter.resets)

	identity, err := svc.TokenManager().Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.SubjectID)
	assert.Equal(t, domain.RoleAdmin, identity.Role)

	_, err = svc.Login(ctx, "admin@club.com", "wrong-password")
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "invalid credentials", de.Message)

	_, err = svc.Login(ctx, "nobody@club.com", "whatever-pass")
	assert.Equal(t, "invalid credentials", apperrors.ToDomainError(err).Message)
	assert.Equal(t, 2, limiter.failures)
}

func TestAuthService_LoginThrottled(t *testing.T) {
	users := &repotest.AdminUserStore{}
	svc := newAuthService(t, users, &fakeLimiter{blocked: true})

	_, err := svc.Login(context.Background(), "admin@club.com", "correct-horse")
	assert.True(t, apperrors.IsStatus(err, http.StatusTooManyRequests))
}

func TestAuthService_LoginLimiterFailsOpen(t *testing.T) {
	users := &repotest.AdminUserStore{}
	svc := newAuthService(t, users, &fakeLimiter{err: errors.New("redis down")})
	ctx := context.Background()

	_, err := svc.Register(ctx, nil, "admin@club.com", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "admin@club.com", "correct-horse")
	assert.NoError(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	users := &repotest.AdminUserStore{}
	svc := newAuthService(t, users, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, nil, "admin@club.com", "correct-horse")
	require.NoError(t, err)
	caller := adminIdentity(user.ID)

	err = svc.ChangePassword(ctx, caller, "wrong-current", "battery-staple")
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))

	err = svc.ChangePassword(ctx, caller, "correct-horse", "short")
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))

	require.NoError(t, svc.ChangePassword(ctx, caller, "correct-horse", "battery-staple"))

	_, err = svc.Login(ctx, "admin@club.com", "correct-horse")
	assert.Error(t, err)
	_, err = svc.Login(ctx, "admin@club.com", "battery-staple")
	assert.NoError(t, err)

	assert.True(t, apperrors.IsStatus(svc.ChangePassword(ctx, nil, "a", "battery-staple"), http.StatusUnauthorized))
}

func TestAuthService_ListUsersOmitsHashes(t *testing.T) {
	users := &repotest.AdminUserStore{}
	svc := newAuthService(t, users, nil)
	_, err := svc.Register(context.Background(), nil, "admin@club.com", "correct-horse")
	require.NoError(t, err)

	list, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].PasswordHash)
}

func TestNewRedisLoginLimiter_NilClientIsNoop(t *testing.T) {
	limiter := NewRedisLoginLimiter(nil, 5, 0)
	blocked, err := limiter.Blocked(context.Background(), "a@b.c")
	assert.NoError(t, err)
	assert.False(t, blocked)
	assert.NoError(t, limiter.Fail(context.Background(), "a@b.c"))
}

func TestLoginKey_Normalised(t *testing.T) {
	assert.Equal(t, loginKey("admin@club.com"), loginKey("  ADMIN@club.com "))
}
