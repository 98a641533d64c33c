package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RolePatient      Role = "PATIENT"
	RoleDoctor       Role = "DOCTOR"
	RoleAdmin        Role = "ADMIN"
	RoleReceptionist Role = "RECEPTIONIST"
)

// ParseRole maps a raw query/claim value onto the role enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleAdmin, RoleReceptionist:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID           uuid.UUID
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthResult is the unified response of every auth operation. Token and
// session fields are populated according to the login mode; registration
// carries identity fields only.
type AuthResult struct {
	UserID       uuid.UUID
	Email        string
	Role         Role
	AccessToken  string
	RefreshToken string
	SessionID    string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}
