// internal/model/organization.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Plan string

const (
	PlanFree         Plan = "free"
	PlanBasic        Plan = "basic"
	PlanProfessional Plan = "professional"
	PlanEnterprise   Plan = "enterprise"
)

type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionSuspended SubscriptionStatus = "suspended"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type Organization struct {
	ID                 int64              `gorm:"primaryKey" json:"id"`
	Name               string             `gorm:"type:text;not null" json:"name"`
	Slug               string             `gorm:"type:text;uniqueIndex;not null" json:"slug"`
	IsActive           bool               `gorm:"not null;default:true" json:"is_active"`
	Plan               Plan               `gorm:"type:text;not null;default:'free'" json:"plan"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:text;not null;default:'trial'" json:"subscription_status"`
	MaxUsers           int                `gorm:"not null;default:5" json:"max_users"`
	MaxCouriers        int                `gorm:"not null;default:10" json:"max_couriers"`
	MaxVehicles        int                `gorm:"not null;default:10" json:"max_vehicles"`
	TrialEndsAt        *time.Time         `json:"trial_ends_at,omitempty"`
	Settings           SettingsMap        `gorm:"type:jsonb" json:"settings,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// SettingsMap is a custom type that implements the sql.Scanner and driver.Valuer interfaces
type SettingsMap map[string]any

// Scan implements the sql.Scanner interface
func (m *SettingsMap) Scan(value interface{}) error {
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
func (m SettingsMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
