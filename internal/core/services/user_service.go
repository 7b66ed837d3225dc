package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sitecrew/daily_report_app/internal/apperrors"
	"github.com/sitecrew/daily_report_app/internal/core/domain"
	portsrepo "github.com/sitecrew/daily_report_app/internal/core/ports/repositories"
	portssvc "github.com/sitecrew/daily_report_app/internal/core/ports/services"
	"github.com/sitecrew/daily_report_app/internal/dto"
	"github.com/sitecrew/daily_report_app/internal/middleware"
	"github.com/sitecrew/daily_report_app/internal/utils"
	"github.com/sitecrew/daily_report_app/internal/utils/mailer"
)

const (
	resetTokenBytes = 32
	resetTokenTTL   = 30 * time.Minute
)

// userService manages accounts, credentials and password resets.
type userService struct {
	userRepo  portsrepo.UserRepositoryFacade
	resetRepo portsrepo.PasswordResetRepositoryFacade
	mailer    mailer.Mailer
	appURL    string
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, resetRepo portsrepo.PasswordResetRepositoryFacade, m mailer.Mailer, appURL string) portssvc.UserSvcFacade {
	return &userService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    m,
		appURL:    appURL,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// splitFullName splits a display name into first and last parts. Everything
// after the first space becomes the last name.
func splitFullName(fullName string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(fullName), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// Register creates a local account with a bcrypt-hashed password.
func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	firstName, lastName := splitFullName(req.FullName)
	now := time.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		AuthProvider: domain.ProviderLocal,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// Authenticate verifies email/password and records the login time.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrNotFound
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", apperrors.ErrValidation)
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.UserID, now); err != nil {
		logger.Warn("Failed to record login time", slog.String("user_id", user.UserID), slog.String("error", err.Error()))
	} else {
		user.LastLoginAt = &now
	}
	return user, nil
}

// GetUserByID returns the user, or apperrors.ErrNotFound.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// FindOrCreateOAuthUser returns the account for a federated identity,
// creating it on first login. Federated accounts carry no local password.
func (s *userService) FindOrCreateOAuthUser(ctx context.Context, email, firstName, lastName string, provider domain.AuthProvider) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		now := time.Now()
		if err := s.userRepo.UpdateLastLogin(ctx, user.UserID, now); err == nil {
			user.LastLoginAt = &now
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up federated user: %w", err)
	}

	now := time.Now()
	userID := uuid.NewString()
	newUser := domain.User{
		UserID:       userID,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		AuthProvider: provider,
		IsActive:     true,
		LastLoginAt:  &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		// Lost a race with a concurrent first login; read the winner's row.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.userRepo.FindUserByEmail(ctx, email)
		}
		return nil, fmt.Errorf("failed to create federated user: %w", err)
	}

	logger.Info("Federated user created", slog.String("user_id", newUser.UserID), slog.String("provider", string(provider)))
	return &newUser, nil
}

// RequestPasswordReset issues a reset token and mails it to the account.
// Unknown emails succeed silently so the endpoint does not reveal which
// addresses are registered.
func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user for reset: %w", err)
	}

	token, err := utils.GenerateSecureRandomString(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	now := time.Now()
	reset := domain.PasswordReset{
		TokenHash: utils.HashToken(token),
		UserID:    user.UserID,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}
	if err := s.resetRepo.SaveReset(ctx, reset); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Open the link below to choose a new password. The link expires in %d minutes.\n\n"+
			"%s/reset-password?token=%s\n\n"+
			"If you did not request this, you can ignore this mail.",
		int(resetTokenTTL.Minutes()), s.appURL, token,
	)
	if err := s.mailer.Send(user.Email, "Password reset", body); err != nil {
		logger.Error("Failed to send reset mail", slog.String("user_id", user.UserID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	logger.Info("Password reset mail sent", slog.String("user_id", user.UserID))
	return nil
}

// ResetPassword consumes a reset token and replaces the password. Expired,
// unknown and already-used tokens all return apperrors.ErrNotFound.
func (s *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	reset, err := s.resetRepo.FindActiveReset(ctx, utils.HashToken(token), now)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, reset.UserID, hash, now); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.resetRepo.MarkUsed(ctx, reset.TokenHash, now); err != nil {
		logger.Warn("Failed to mark reset token used", slog.String("user_id", reset.UserID), slog.String("error", err.Error()))
	}

	logger.Info("Password reset completed", slog.String("user_id", reset.UserID))
	return nil
}
