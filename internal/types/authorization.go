package types

import (
	"time"

	"github.com/google/uuid"
)

// Authorization records one successful PIN check for a (group,
// session) pair. It is an audit log: the engine writes it and never
// reads it back to gate later calls.
type Authorization struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID   string    `gorm:"index;not null;column:group_id" json:"group_id"`
	SessionID uuid.UUID `gorm:"type:uuid;index;not null;column:session_id" json:"session_id"`
	Timestamp time.Time `gorm:"not null;column:timestamp" json:"timestamp"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Authorization) TableName() string { return "authorizations" }
