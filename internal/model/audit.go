package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContextAuditLog records a tenant switch attempt: who asked for which
// organization, whether the directory granted it, and the request metadata.
type ContextAuditLog struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	OrganizationID int64     `json:"organization_id"`
	SessionID      string    `json:"session_id"`
	Granted        bool      `json:"granted"`
	Detail         string    `json:"detail,omitempty"`
	Metadata       JSONMap   `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time `json:"created_at" gorm:"default:CURRENT_TIMESTAMP"`
}

// JSONMap is a helper type for JSONB columns
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, m)
}
