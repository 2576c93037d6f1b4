package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/utils"
)

const sessionIDBytes = 32

// AuthService verifies credentials and manages the session lifecycle. The
// capability set is resolved once at login and cached in the session payload.
type AuthService struct {
	userRepo   portsrepo.UserRepositoryFacade
	roleRepo   portsrepo.RoleRepositoryFacade
	sessions   portsrepo.SessionStore
	sessionTTL time.Duration
	logger     *slog.Logger

	now func() time.Time
}

func NewAuthService(
	userRepo portsrepo.UserRepositoryFacade,
	roleRepo portsrepo.RoleRepositoryFacade,
	sessions portsrepo.SessionStore,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

var _ portssvc.AuthSvcFacade = (*AuthService)(nil)

func (s *AuthService) Login(ctx context.Context, params portssvc.LoginParams) (*domain.Session, error) {
	creds, err := s.userRepo.FindUserByUsername(ctx, params.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same answer as a wrong password; usernames are not probeable.
			return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(params.Password, creds.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
	}
	if !creds.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", apperrors.ErrUnauthorized)
	}

	if creds.DeviceLimit > 0 {
		live, err := s.sessions.ListByUser(ctx, creds.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to count live sessions: %w", err)
		}
		if len(live) >= creds.DeviceLimit {
			return nil, fmt.Errorf("%w: %d active sessions, limit is %d",
				apperrors.ErrDeviceLimitReached, len(live), creds.DeviceLimit)
		}
	}

	caps, err := s.resolveCapabilities(ctx, creds.Role)
	if err != nil {
		return nil, err
	}

	sid, err := utils.GenerateSecureRandomString(sessionIDBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := s.now().UTC()
	sess := domain.Session{
		SID:          sid,
		UserID:       creds.UserID,
		Username:     creds.Username,
		Role:         creds.Role,
		Locations:    creds.Locations,
		Capabilities: caps,
		IPAddress:    params.IPAddress,
		UserAgent:    params.UserAgent,
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.sessions.Put(ctx, sess, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("userID", creds.UserID),
		slog.String("username", creds.Username),
		slog.String("role", creds.Role),
		slog.String("ip", params.IPAddress))
	return &sess, nil
}

// resolveCapabilities computes the session's capability snapshot. The admin
// role always receives the full catalog; stored grants are ignored for it.
func (s *AuthService) resolveCapabilities(ctx context.Context, role string) (domain.CapabilitySet, error) {
	if role == domain.RoleAdmin {
		return domain.NewCapabilitySet(domain.AllCapabilities()...), nil
	}
	caps, err := s.roleRepo.ListCapabilitiesForRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to load role grant for %q: %w", role, err)
	}
	return domain.NewCapabilitySet(caps...), nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	err := s.sessions.Delete(ctx, sid)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *AuthService) ResolveSession(ctx context.Context, sid string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: session expired or terminated", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := s.sessions.Touch(ctx, sid, s.now().UTC()); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		// Activity tracking is best-effort; the request proceeds.
		s.logger.WarnContext(ctx, "failed to touch session", slog.String("error", err.Error()))
	}
	return sess, nil
}

// SessionService exposes admin-facing session management.
type SessionService struct {
	sessions portsrepo.SessionStore
	logger   *slog.Logger
}

func NewSessionService(sessions portsrepo.SessionStore, logger *slog.Logger) *SessionService {
	return &SessionService{sessions: sessions, logger: logger}
}

var _ portssvc.SessionSvcFacade = (*SessionService)(nil)

func (s *SessionService) SessionsForUser(ctx context.Context, userID string) ([]domain.Session, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *SessionService) TerminateSession(ctx context.Context, sid string) error {
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("failed to terminate session: %w", err)
	}
	s.logger.InfoContext(ctx, "session terminated", slog.String("sid", sid))
	return nil
}
