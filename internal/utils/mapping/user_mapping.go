package mapping

import (
	"github.com/sitecrew/daily_report_app/internal/core/domain"
	"github.com/sitecrew/daily_report_app/internal/models"
)

// ToModelUser converts a domain User to a model User.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		AuthProvider: string(d.AuthProvider),
		IsActive:     d.IsActive,
		LastLoginAt:  d.LastLoginAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		AuthProvider: domain.AuthProvider(m.AuthProvider),
		IsActive:     m.IsActive,
		LastLoginAt:  m.LastLoginAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
