package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StageMedia is one entry of a stage's ordered media list.
type StageMedia struct {
	Kind    string `json:"kind"`
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

// Stage is one puzzle unit of the hunt. Stage rows are immutable from
// the engine's perspective; only cmd/upload-stages writes them. A
// stage with an empty CorrectAnswer is terminal: it accepts no
// submissions and is complete once reached.
type Stage struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StageID        int            `gorm:"uniqueIndex;not null;column:stage_id" json:"stage_id"`
	StageName      string         `gorm:"column:stage_name" json:"stage_name"`
	Title          string         `gorm:"column:title" json:"title"`
	Description    string         `gorm:"column:description" json:"description"`
	Media          datatypes.JSON `gorm:"column:media" json:"media"`
	CorrectAnswer  string         `gorm:"column:correct_answer" json:"-"`
	ValidationType string         `gorm:"column:validation_type" json:"validation_type"`
	Hint           string         `gorm:"column:hint" json:"-"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (Stage) TableName() string { return "stages" }
