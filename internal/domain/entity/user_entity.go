package entity

import (
	"time"
)

// Role is the authorization role assigned to a user.
type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePublisher, RoleAdmin:
		return true
	}
	return false
}

// User is the aggregate root for the auth domain.
// Password holds a bcrypt hash and is never serialized; the reset token
// fields hold the sha256 hash of the reset token, never the plaintext.
type User struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Role                Role       `json:"role"`
	Password            string     `json:"-"`
	ResetPasswordToken  *string    `json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsOwnerOrAdmin is the shared ownership predicate: a principal may act on a
// resource it owns, and admins may act on anything.
func IsOwnerOrAdmin(principal *User, ownerID string) bool {
	if principal == nil {
		return false
	}
	return principal.Role == RoleAdmin || principal.ID == ownerID
}
