package domain

import (
	"errors"
	"time"
)

// Role is the closed set of actor roles. Authorization decisions compare
// against these constants, never against ad-hoc strings.
type Role string

const (
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	return Role(s) == RoleManager || Role(s) == RoleStaff
}

const (
	ReliabilityMin     = 0
	ReliabilityMax     = 100
	ReliabilityDefault = 80
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models an authenticated actor in the system.
type User struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	ExternalUserID   string    `json:"external_user_id,omitempty" bson:"external_user_id,omitempty"`
	Username         string    `json:"username" bson:"username"`
	DisplayName      string    `json:"display_name" bson:"display_name"`
	PasswordHash     string    `json:"-" bson:"password_hash"`
	Role             Role      `json:"role" bson:"role"`
	ReliabilityScore int       `json:"reliability_score" bson:"reliability_score"`
	IsActive         bool      `json:"is_active" bson:"is_active"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}
