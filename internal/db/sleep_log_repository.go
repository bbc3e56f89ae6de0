package db

import (
	"time"

	"github.com/terraincognita07/sleeptrack/internal/models"
	"gorm.io/gorm"
)

type SleepLogRepository struct {
	database *gorm.DB
}

func NewSleepLogRepository(database *gorm.DB) *SleepLogRepository {
	return &SleepLogRepository{database: database}
}

// Create stores the entry with both instants normalized to UTC.
func (repo *SleepLogRepository) Create(entry *models.SleepLog) error {
	entry.SleepTime = entry.SleepTime.UTC()
	entry.WakeTime = entry.WakeTime.UTC()
	return repo.database.Create(entry).Error
}

func (repo *SleepLogRepository) ListRecent(userID string, limit int) ([]models.SleepLog, error) {
	logs := make([]models.SleepLog, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("sleep_time DESC, id DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ListBetween returns logs with from <= sleep_time < to, newest first.
func (repo *SleepLogRepository) ListBetween(userID string, from time.Time, to time.Time) ([]models.SleepLog, error) {
	logs := make([]models.SleepLog, 0)
	if err := repo.database.
		Where("user_id = ? AND sleep_time >= ? AND sleep_time < ?", userID, from.UTC(), to.UTC()).
		Order("sleep_time DESC, id DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ListSince returns logs with sleep_time >= from, newest first.
func (repo *SleepLogRepository) ListSince(userID string, from time.Time) ([]models.SleepLog, error) {
	logs := make([]models.SleepLog, 0)
	if err := repo.database.
		Where("user_id = ? AND sleep_time >= ?", userID, from.UTC()).
		Order("sleep_time DESC, id DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *SleepLogRepository) ListByUser(userID string) ([]models.SleepLog, error) {
	logs := make([]models.SleepLog, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("sleep_time ASC, id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
