package services

import (
	"context"

	"github.com/sitecrew/daily_report_app/internal/core/domain"
	"github.com/sitecrew/daily_report_app/internal/dto"
)

// UserSvcFacade manages user accounts and credentials.
type UserSvcFacade interface {
	// Register creates a local account. Duplicate emails return
	// apperrors.ErrDuplicate.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Authenticate verifies email/password and records the login. Invalid
	// credentials and deactivated accounts return apperrors.ErrNotFound and
	// apperrors.ErrValidation respectively.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUserByID returns the user, or apperrors.ErrNotFound.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindOrCreateOAuthUser returns the account for a federated identity,
	// creating it on first login.
	FindOrCreateOAuthUser(ctx context.Context, email, firstName, lastName string, provider domain.AuthProvider) (*domain.User, error)

	// RequestPasswordReset issues a reset token and mails it to the account.
	// Unknown emails are a silent no-op so the endpoint does not leak which
	// addresses exist.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and replaces the password.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// ServiceContainer bundles the service facades handed to route registration.
type ServiceContainer struct {
	Report ReportSvcFacade
	Export ExportSvcFacade
	User   UserSvcFacade
}
