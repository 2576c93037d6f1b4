package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
	portssvc "github.com/kassatrack/cash_report_app/internal/core/ports/services"
	"github.com/kassatrack/cash_report_app/internal/dto"
	"github.com/kassatrack/cash_report_app/internal/utils"
)

// UserService owns user provisioning and lifecycle. Presence in the admin
// list is computed from the session store at read time.
type UserService struct {
	userRepo portsrepo.UserRepositoryFacade
	roleRepo portsrepo.RoleRepositoryFacade
	sessions portsrepo.SessionStore
	logger   *slog.Logger

	now func() time.Time
}

func NewUserService(
	userRepo portsrepo.UserRepositoryFacade,
	roleRepo portsrepo.RoleRepositoryFacade,
	sessions portsrepo.SessionStore,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

func (s *UserService) ListUsers(ctx context.Context) ([]domain.UserPresence, error) {
	users, err := s.userRepo.FindUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]domain.UserPresence, len(users))
	for i, u := range users {
		presence := domain.UserPresence{User: u}
		live, err := s.sessions.ListByUser(ctx, u.UserID)
		if err != nil {
			// Presence is decoration; a session store hiccup must not
			// break the user list.
			s.logger.WarnContext(ctx, "failed to load presence",
				slog.String("userID", u.UserID), slog.String("error", err.Error()))
		} else {
			presence.ActiveSessions = len(live)
			presence.IsOnline = len(live) > 0
			for _, sess := range live {
				last := sess.LastActivity
				if presence.LastActivity == nil || last.After(*presence.LastActivity) {
					presence.LastActivity = &last
				}
			}
		}
		out[i] = presence
	}
	return out, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// validateRoleAssignment checks role existence and the location rule: any
// non-admin role must have at least one assigned branch, otherwise the
// account could never see or submit anything.
func (s *UserService) validateRoleAssignment(ctx context.Context, role string, locations []string) error {
	exists, err := s.roleRepo.RoleExists(ctx, role)
	if err != nil {
		return fmt.Errorf("failed to check role %q: %w", role, err)
	}
	if !exists {
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}
	if role != domain.RoleAdmin && len(locations) == 0 {
		return fmt.Errorf("%w: role %q requires at least one assigned branch", apperrors.ErrValidation, role)
	}
	return nil
}

func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	if err := s.validateRoleAssignment(ctx, req.Role, req.Locations); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := domain.UserCredentials{
		User: domain.User{
			UserID:      uuid.NewString(),
			Username:    req.Username,
			Role:        req.Role,
			IsActive:    true,
			DeviceLimit: req.DeviceLimit,
			Locations:   req.Locations,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		PasswordHash: hash,
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username %q is taken", apperrors.ErrDuplicate, req.Username)
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.InfoContext(ctx, "user created",
		slog.String("userID", user.UserID),
		slog.String("username", user.Username),
		slog.String("role", user.Role))
	return &user.User, nil
}

func (s *UserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.validateRoleAssignment(ctx, req.Role, req.Locations); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateUser(ctx, userID, req.Role, req.DeviceLimit, req.Locations); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user updated",
		slog.String("userID", userID),
		slog.String("role", req.Role),
		slog.Int("deviceLimit", req.DeviceLimit))
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *UserService) SetUserStatus(ctx context.Context, actorID, userID string, active bool) error {
	if actorID == userID {
		return fmt.Errorf("%w: cannot change your own status", apperrors.ErrValidation)
	}
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.SetUserActive(ctx, userID, active); err != nil {
		return fmt.Errorf("failed to set user status: %w", err)
	}

	if !active {
		removed, err := s.sessions.DeleteByUser(ctx, userID)
		if err != nil {
			// The block on new logins already took effect; leftover
			// sessions lapse at their max-age. Log and move on.
			s.logger.ErrorContext(ctx, "failed to terminate sessions of blocked user",
				slog.String("userID", userID), slog.String("error", err.Error()))
		} else if removed > 0 {
			s.logger.InfoContext(ctx, "terminated sessions of blocked user",
				slog.String("userID", userID), slog.Int("sessions", removed))
		}
	}

	s.logger.InfoContext(ctx, "user status changed",
		slog.String("userID", userID),
		slog.Bool("active", active),
		slog.String("changedBy", actorID))
	return nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.InfoContext(ctx, "user password changed", slog.String("userID", userID))
	return nil
}
