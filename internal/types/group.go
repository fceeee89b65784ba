package types

import (
	"time"
)

// Group is a team playing the hunt. Rows are provisioned by the
// content owner, never created by the engine; the PIN is the group's
// shared secret and must never serialize out.
type Group struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	Pin       string    `gorm:"not null;column:pin" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Group) TableName() string { return "groups" }
