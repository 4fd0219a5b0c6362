// internal/model/invite.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Invite is a pending offer of membership, addressed by a random token that
// is only ever sent to the invitee's email address.
type Invite struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID int64      `gorm:"not null;index" json:"organization_id"`
	Email          string     `gorm:"type:citext;not null" json:"email"`
	Role           Role       `gorm:"type:text;not null;default:'viewer'" json:"role"`
	Token          string     `gorm:"type:text;uniqueIndex;not null" json:"-"`
	InvitedByID    uuid.UUID  `gorm:"type:uuid;not null" json:"invited_by_id"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expires_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization"`
}
