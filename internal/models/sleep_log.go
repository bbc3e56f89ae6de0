package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SleepLog is one recorded sleep interval. Duration is derived from the two
// instants, in hours rounded to two decimals.
type SleepLog struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;index:idx_sleep_logs_user_sleep_time" json:"user_id"`
	SleepTime time.Time `gorm:"not null;index:idx_sleep_logs_user_sleep_time" json:"sleep_time"`
	WakeTime  time.Time `gorm:"not null" json:"wake_time"`
	Duration  float64   `gorm:"not null" json:"duration"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (entry *SleepLog) BeforeCreate(_ *gorm.DB) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return nil
}
