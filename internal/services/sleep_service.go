package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/sleeptrack/internal/models"
)

const (
	DefaultRecentLogLimit = 20
	MaxRecentLogLimit     = 100
)

var (
	ErrSleepLogCreateFailed = errors.New("create sleep log failed")
	ErrSleepLogsLoadFailed  = errors.New("load sleep logs failed")
)

type SleepLogRepository interface {
	Create(entry *models.SleepLog) error
	ListRecent(userID string, limit int) ([]models.SleepLog, error)
	ListBetween(userID string, from time.Time, to time.Time) ([]models.SleepLog, error)
	ListSince(userID string, from time.Time) ([]models.SleepLog, error)
	ListByUser(userID string) ([]models.SleepLog, error)
}

type SleepService struct {
	logs SleepLogRepository
}

func NewSleepService(logs SleepLogRepository) *SleepService {
	return &SleepService{logs: logs}
}

// CreateLog derives the duration from the two instants and stores the entry.
func (service *SleepService) CreateLog(userID string, sleepTime time.Time, wakeTime time.Time) (models.SleepLog, error) {
	duration, err := ComputeDuration(sleepTime, wakeTime)
	if err != nil {
		return models.SleepLog{}, err
	}

	entry := models.SleepLog{
		UserID:    userID,
		SleepTime: sleepTime,
		WakeTime:  wakeTime,
		Duration:  duration,
	}
	if err := service.logs.Create(&entry); err != nil {
		return models.SleepLog{}, fmt.Errorf("%w: %w", ErrSleepLogCreateFailed, err)
	}
	return entry, nil
}

func (service *SleepService) ListRecent(userID string, limit int) ([]models.SleepLog, error) {
	limit = ClampRecentLogLimit(limit)
	logs, err := service.logs.ListRecent(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSleepLogsLoadFailed, err)
	}
	return logs, nil
}

func (service *SleepService) WeeklyBuckets(userID string, reference time.Time, location *time.Location, labeler WeekdayLabeler) ([]DailyBucket, error) {
	start, end := WeeklyWindow(reference, location)
	logs, err := service.logs.ListBetween(userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSleepLogsLoadFailed, err)
	}
	return BuildWeeklyBuckets(logs, reference, location, labeler), nil
}

func (service *SleepService) TodaySummary(userID string, reference time.Time, location *time.Location) (TodaySummary, error) {
	midnight := DateAtLocation(reference, location)
	logs, err := service.logs.ListSince(userID, midnight)
	if err != nil {
		return TodaySummary{}, fmt.Errorf("%w: %w", ErrSleepLogsLoadFailed, err)
	}
	return ComputeTodaySummary(logs, reference, location), nil
}

// ExportLogs returns every log of the user, oldest first.
func (service *SleepService) ExportLogs(userID string) ([]models.SleepLog, error) {
	logs, err := service.logs.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSleepLogsLoadFailed, err)
	}
	return logs, nil
}

func ClampRecentLogLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLogLimit
	}
	if limit > MaxRecentLogLimit {
		return MaxRecentLogLimit
	}
	return limit
}
