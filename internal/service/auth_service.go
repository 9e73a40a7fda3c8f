package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clubhouse/club-cms/internal/auth"
	"github.com/clubhouse/club-cms/internal/config"
	"github.com/clubhouse/club-cms/internal/domain"
	"github.com/clubhouse/club-cms/internal/events"
	"github.com/clubhouse/club-cms/internal/repository"
	apperrors "github.com/clubhouse/club-cms/pkg/util"
)

// MinPasswordLength is the shortest accepted admin password.
const MinPasswordLength = 8

var errInvalidCredentials = apperrors.NewValidationError("invalid credentials", nil)

// unknownUserPassword is hashed once per service so logins for unknown
// emails spend the same bcrypt time as wrong passwords.
const unknownUserPassword = "unknown-user-placeholder"

type loginFailureRecorder interface {
	RecordLoginFailure()
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.AdminUserRepository
	tokenMgr   *auth.TokenManager
	limiter    LoginLimiter
	bcryptCost int
	metrics    loginFailureRecorder
	events     publisher
	logger     *zap.Logger

	dummyHash string
	bootstrap sync.Mutex
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.AdminUserRepository
	Limiter    LoginLimiter
	Metrics    loginFailureRecorder
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	limiter := deps.Limiter
	if limiter == nil {
		limiter = noopLimiter{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dummyHash, err := auth.HashPassword(unknownUserPassword, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Warn("unable to prepare login timing hash", zap.Error(err))
	}
	return &AuthService{
		dummyHash:  dummyHash,
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret),
		limiter:    limiter,
		bcryptCost: cfg.Auth.BcryptCost,
		metrics:    deps.Metrics,
		events:     publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:     logger,
	}
}

// Session is the result of a successful login.
type Session struct {
	User      *domain.AdminUser
	Token     string
	ExpiresAt time.Time
}

// Register creates an admin account. Registration is open until the first
// admin exists; afterwards only an authenticated admin may add accounts.
func (s *AuthService) Register(ctx context.Context, caller *domain.Identity, email, password string) (*domain.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	if caller == nil {
		// Serializes first-admin bootstrap within this process.
		s.bootstrap.Lock()
		defer s.bootstrap.Unlock()
		count, err := s.users.Count(ctx)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperrors.NewUnauthorized("not authenticated")
		}
	} else if caller.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("forbidden")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.AdminUser{Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewValidationError("email already registered", nil)
		}
		return nil, err
	}
	s.events.publish(ctx, events.EventResourceCreated, events.ResourceAdmin, user.ID, nil)
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}

	blocked, err := s.limiter.Blocked(ctx, email)
	if err != nil {
		s.logger.Warn("login limiter unavailable", zap.Error(err))
	}
	if blocked {
		return nil, apperrors.NewRateLimited("too many failed login attempts")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if user == nil {
		_ = auth.ComparePassword(s.dummyHash, password)
		s.loginFailed(ctx, email)
		return nil, errInvalidCredentials
	}
	if auth.ComparePassword(user.PasswordHash, password) != nil {
		s.loginFailed(ctx, email)
		return nil, errInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn("login limiter reset failed", zap.Error(err))
	}

	token, exp, err := s.tokenMgr.Issue(domain.Identity{
		SubjectID: user.ID,
		Email:     user.Email,
		Role:      domain.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string) {
	if s.metrics != nil {
		s.metrics.RecordLoginFailure()
	}
	if err := s.limiter.Fail(ctx, email); err != nil {
		s.logger.Warn("login limiter update failed", zap.Error(err))
	}
}

// ListUsers returns all admin accounts.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.AdminUser, error) {
	return s.users.List(ctx)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, caller *domain.Identity, currentPassword, newPassword string) error {
	if caller == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	if len(newPassword) < MinPasswordLength {
		return apperrors.NewValidationError("validation failed", map[string]any{
			"newPassword": "must be at least 8 characters",
		})
	}

	user, err := s.users.GetByID(ctx, caller.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("not authenticated")
		}
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return errInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return storeError(err, "user")
	}
	s.events.publish(ctx, events.EventResourceUpdated, events.ResourceAdmin, user.ID, nil)
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func validateCredentials(email, password string) error {
	errs := fieldErrors{}
	if email == "" || !strings.Contains(email, "@") {
		errs.add("email", "must be a valid email address")
	}
	if len(password) < MinPasswordLength {
		errs.add("password", "must be at least 8 characters")
	}
	return errs.err()
}
