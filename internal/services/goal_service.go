package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/terraincognita07/sleeptrack/internal/models"
)

var (
	ErrTargetHoursOutOfRange = errors.New("target hours out of range")
	ErrGoalLoadFailed        = errors.New("load goal failed")
	ErrGoalSaveFailed        = errors.New("save goal failed")
)

type GoalRepository interface {
	FindByUserID(userID string) (models.Goal, bool, error)
	Upsert(userID string, targetHours float64) (models.Goal, bool, error)
}

type GoalService struct {
	goals GoalRepository
}

func NewGoalService(goals GoalRepository) *GoalService {
	return &GoalService{goals: goals}
}

func ValidateTargetHours(targetHours float64) error {
	if math.IsNaN(targetHours) || math.IsInf(targetHours, 0) {
		return ErrTargetHoursOutOfRange
	}
	if targetHours < models.MinGoalHours || targetHours > models.MaxGoalHours {
		return ErrTargetHoursOutOfRange
	}
	return nil
}

func (service *GoalService) FindGoal(userID string) (models.Goal, bool, error) {
	goal, found, err := service.goals.FindByUserID(userID)
	if err != nil {
		return models.Goal{}, false, fmt.Errorf("%w: %w", ErrGoalLoadFailed, err)
	}
	return goal, found, nil
}

// SetGoal creates or replaces the user's target. created is true only for
// the first submission.
func (service *GoalService) SetGoal(userID string, targetHours float64) (models.Goal, bool, error) {
	if err := ValidateTargetHours(targetHours); err != nil {
		return models.Goal{}, false, err
	}
	goal, created, err := service.goals.Upsert(userID, targetHours)
	if err != nil {
		return models.Goal{}, false, fmt.Errorf("%w: %w", ErrGoalSaveFailed, err)
	}
	return goal, created, nil
}

// Progress evaluates the weekly buckets against the stored goal. ok is false
// when the user has no goal.
func (service *GoalService) Progress(userID string, buckets []DailyBucket) (GoalProgress, bool, error) {
	goal, found, err := service.FindGoal(userID)
	if err != nil {
		return GoalProgress{}, false, err
	}
	if !found {
		return GoalProgress{}, false, nil
	}
	progress, ok := ComputeGoalProgress(&goal.TargetHours, buckets)
	return progress, ok, nil
}
