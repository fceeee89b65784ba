package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GroupProgress is the one mutable record the engine owns, keyed by
// group. CurrentStage is the highest stage the group has completed;
// CompletedStages is a JSON array of stage ids with set semantics
// (duplicates never stored). Created implicitly on first completion,
// never deleted.
type GroupProgress struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID         string         `gorm:"uniqueIndex;not null;column:group_id" json:"group_id"`
	CurrentStage    int            `gorm:"not null;default:0;column:current_stage" json:"current_stage"`
	CompletedStages datatypes.JSON `gorm:"column:completed_stages" json:"completed_stages"`
	LastUpdated     time.Time      `gorm:"column:last_updated" json:"last_updated"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (GroupProgress) TableName() string { return "group_progress" }
