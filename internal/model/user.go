package model

import "time"

type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRolePartner   UserRole = "partner"
	UserRolePrincipal UserRole = "principal"
	UserRoleAssociate UserRole = "associate"
	UserRoleAnalyst   UserRole = "analyst"
	UserRoleViewer    UserRole = "viewer"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRolePartner, UserRolePrincipal,
		UserRoleAssociate, UserRoleAnalyst, UserRoleViewer:
		return true
	}
	return false
}

type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	FirmID     int64     `json:"firm_id"`
	Role       UserRole  `json:"role"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}
