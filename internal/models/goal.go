package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinGoalHours = 1.0
	MaxGoalHours = 24.0
)

// Goal is the single nightly sleep target of a user.
type Goal struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"not null;uniqueIndex" json:"user_id"`
	TargetHours float64   `gorm:"not null" json:"target_hours"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (goal *Goal) BeforeCreate(_ *gorm.DB) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	return nil
}
