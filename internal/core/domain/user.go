package domain

import "time"

// AuthProvider identifies how a user account authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a user of the application in the domain.
type User struct {
	UserID       string       `json:"userID"` // Primary key (UUID)
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	AuthProvider AuthProvider `json:"authProvider"`
	IsActive     bool         `json:"isActive"`
	LastLoginAt  *time.Time   `json:"lastLoginAt,omitempty"`
	AuditFields
}

// PasswordReset is a single-use, expiring password reset token. Only the
// SHA-256 hash of the token is ever stored.
type PasswordReset struct {
	TokenHash string     `json:"-"`
	UserID    string     `json:"userID"`
	ExpiresAt time.Time  `json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
