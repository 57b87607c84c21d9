package user

import (
	"net/http"
	"time"

	"github.com/bookmyhall/banquet-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound = apperror.New(http.StatusNotFound, "user not found")
	ErrInactive = apperror.New(http.StatusForbidden, "user is inactive")
)

// Role is the canonical role enumeration.
//
// admin1 performs document analysis, admin2 handles availability and payment,
// admin3 gives final approval. super_admin holds admin3's workflow privileges
// (by design, not by accident) and may additionally act at every tier.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin1     Role = "admin1"
	RoleAdmin2     Role = "admin2"
	RoleAdmin3     Role = "admin3"
	RoleSuperAdmin Role = "super_admin"
)

// IsAdmin reports whether the role belongs to the admin chain.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin1, RoleAdmin2, RoleAdmin3, RoleSuperAdmin:
		return true
	}
	return false
}

// User represents an identity in the directory.
// This service only reads identities; account management lives elsewhere.
type User struct {
	ID        string // UUID
	Name      string
	Email     string
	Phone     string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
}
