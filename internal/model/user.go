package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is a named capability set attached to a user.
type Role string

// Roles recognised by the system.
const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a recognised role name.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	FullName     string     `json:"fullName" db:"full_name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Phone        string     `json:"phone,omitempty" db:"phone"`
	Address      string     `json:"address,omitempty" db:"address"`
	AvatarURL    string     `json:"avatarUrl,omitempty" db:"avatar_url"`
	AvatarKey    string     `json:"-" db:"avatar_key"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	Roles        []Role     `json:"roles"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// Principal is the authenticated caller identity resolved once per request
// and passed explicitly to authorization checks.
type Principal struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	Roles    []Role
}

// HasRole reports whether the principal holds any of the allowed roles.
func (p Principal) HasRole(allowed ...Role) bool {
	for _, have := range p.Roles {
		for _, want := range allowed {
			if have == want {
				return true
			}
		}
	}
	return false
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// LoginRequest is the payload for credential verification.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token to mint a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileRequest is the payload for profile updates.
type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// ChangePasswordRequest is the payload for password changes.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResponse is returned by signup, login and refresh.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// UserFilter selects users for the admin listing.
type UserFilter struct {
	Search string
	Role   Role
	Active *bool
	Page   int
	Limit  int
}
