// internal/model/membership.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// roleRank orders roles by authority, highest first.
var roleRank = map[Role]int{
	RoleOwner:   4,
	RoleAdmin:   3,
	RoleManager: 2,
	RoleViewer:  1,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r carries at least the authority of min.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// Membership associates a user with one organization under a role. The
// Permissions map is consulted only for roles below admin; owner and admin
// bypass it entirely.
type Membership struct {
	ID             int64         `gorm:"primaryKey" json:"id"`
	OrganizationID int64         `gorm:"not null;uniqueIndex:idx_membership_org_user" json:"organization_id"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_membership_org_user" json:"user_id"`
	Role           Role          `gorm:"type:text;not null;default:'viewer'" json:"role"`
	IsActive       bool          `gorm:"not null;default:true" json:"is_active"`
	Permissions    PermissionMap `gorm:"type:jsonb" json:"permissions,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization"`
}

// PermissionMap is a custom type that implements the sql.Scanner and driver.Valuer interfaces
type PermissionMap map[string]bool

// Scan implements the sql.Scanner interface
func (m *PermissionMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported Scan, storing driver.Value type %T into type %T", value, m)
	}

	return json.Unmarshal(raw, m)
}

// Value implements the driver.Valuer interface
func (m PermissionMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
