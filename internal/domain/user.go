package domain

import "time"

// Role enumerates actor roles. Role is the sole authorization dimension.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleClient         Role = "client"
	RoleSurveyor       Role = "surveyor"
	RoleClaimAnalyst   Role = "claim_analyst"
	RoleFinance        Role = "finance"
	RoleLossAdjuster   Role = "loss_adjuster"
	RoleServiceManager Role = "service_manager"
)

// AllRoles lists every recognized role.
var AllRoles = []Role{
	RoleAdmin,
	RoleClient,
	RoleSurveyor,
	RoleClaimAnalyst,
	RoleFinance,
	RoleLossAdjuster,
	RoleServiceManager,
}

// IsValid reports whether the role is recognized.
func (r Role) IsValid() bool {
	for _, candidate := range AllRoles {
		if r == candidate {
			return true
		}
	}
	return false
}

// UserStatus represents account lifecycle states. New accounts start pending
// and must be activated by an admin before login.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusPending   UserStatus = "pending"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusRejected  UserStatus = "rejected"
)

// IsValid reports whether the account status is recognized.
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusPending, UserStatusSuspended, UserStatusRejected:
		return true
	}
	return false
}

// User is the domain model for every actor in the system.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
