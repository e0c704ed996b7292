package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/civic-report/internal/auth"
	"github.com/spec-kit/civic-report/internal/config"
	"github.com/spec-kit/civic-report/internal/domain"
	"github.com/spec-kit/civic-report/internal/events"
	"github.com/spec-kit/civic-report/internal/store"
	apperrors "github.com/spec-kit/civic-report/pkg/util/errorutil"
)

// AuthService coordinates registration, login, and the bulk user exchange.
type AuthService struct {
	users      *store.UserStore
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users *store.UserStore, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Login authenticates credentials and issues an access token. The failure
// message is deliberately generic: callers cannot tell an unknown email from
// a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	ok, err := s.users.Login(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !ok {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	user := s.users.Current()
	token, exp, err := s.tokenMgr.GenerateToken(*user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Register creates an account, signs it in, and issues an access token.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role, department string) (*domain.User, string, time.Time, error) {
	if role != domain.RoleCitizen && role != domain.RoleGovernment {
		return nil, "", time.Time{}, apperrors.NewValidationError("role must be citizen or government", nil)
	}
	if role == domain.RoleGovernment && !domain.ValidDepartment(domain.DepartmentCode(department)) {
		return nil, "", time.Time{}, apperrors.NewValidationError("government accounts require a valid department", nil)
	}

	ok, err := s.users.Register(ctx, name, email, password, role, department)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !ok {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	}

	user := s.users.Current()
	token, exp, err := s.tokenMgr.GenerateToken(*user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventUserRegistered,
		Actor: events.Actor{UserID: user.ID, Role: user.Role},
		Payload: events.UserRegisteredPayload{
			Role:       user.Role,
			Department: user.Department,
		},
	})
	return user, token, exp, nil
}

// Logout clears the persisted session identity.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.users.Logout(ctx)
}

// ImportUsers replaces the user collection from an uploaded JSON array.
func (s *AuthService) ImportUsers(ctx context.Context, data []byte) error {
	ok, err := s.users.Import(ctx, data)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewValidationError("payload must be a JSON array of users", nil)
	}
	return nil
}

// ExportUsers serializes the user collection for download.
func (s *AuthService) ExportUsers(ctx context.Context) ([]byte, error) {
	return s.users.Export(ctx)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
