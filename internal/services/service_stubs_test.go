package services

import (
	"errors"
	"sort"
	"time"

	"github.com/terraincognita07/sleeptrack/internal/models"
)

var errStubStore = errors.New("store unavailable")

type stubSleepLogRepo struct {
	logs       []models.SleepLog
	createErr  error
	listErr    error
	lastLimit  int
	lastFrom   time.Time
	lastTo     time.Time
	sinceCalls int
}

func (stub *stubSleepLogRepo) Create(entry *models.SleepLog) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	entry.ID = "log-" + entry.SleepTime.UTC().Format(time.RFC3339)
	stub.logs = append(stub.logs, *entry)
	return nil
}

func (stub *stubSleepLogRepo) ListRecent(userID string, limit int) ([]models.SleepLog, error) {
	stub.lastLimit = limit
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := stub.filter(userID, func(models.SleepLog) bool { return true }, true)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (stub *stubSleepLogRepo) ListBetween(userID string, from time.Time, to time.Time) ([]models.SleepLog, error) {
	stub.lastFrom = from
	stub.lastTo = to
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	return stub.filter(userID, func(entry models.SleepLog) bool {
		return !entry.SleepTime.Before(from) && entry.SleepTime.Before(to)
	}, true), nil
}

func (stub *stubSleepLogRepo) ListSince(userID string, from time.Time) ([]models.SleepLog, error) {
	stub.sinceCalls++
	stub.lastFrom = from
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	return stub.filter(userID, func(entry models.SleepLog) bool {
		return !entry.SleepTime.Before(from)
	}, true), nil
}

func (stub *stubSleepLogRepo) ListByUser(userID string) ([]models.SleepLog, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	return stub.filter(userID, func(models.SleepLog) bool { return true }, false), nil
}

func (stub *stubSleepLogRepo) filter(userID string, keep func(models.SleepLog) bool, descending bool) []models.SleepLog {
	result := make([]models.SleepLog, 0, len(stub.logs))
	for _, entry := range stub.logs {
		if entry.UserID == userID && keep(entry) {
			result = append(result, entry)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if descending {
			return result[i].SleepTime.After(result[j].SleepTime)
		}
		return result[i].SleepTime.Before(result[j].SleepTime)
	})
	return result
}

type stubGoalRepo struct {
	goals     map[string]models.Goal
	findErr   error
	upsertErr error
}

func newStubGoalRepo() *stubGoalRepo {
	return &stubGoalRepo{goals: map[string]models.Goal{}}
}

func (stub *stubGoalRepo) FindByUserID(userID string) (models.Goal, bool, error) {
	if stub.findErr != nil {
		return models.Goal{}, false, stub.findErr
	}
	goal, ok := stub.goals[userID]
	return goal, ok, nil
}

func (stub *stubGoalRepo) Upsert(userID string, targetHours float64) (models.Goal, bool, error) {
	if stub.upsertErr != nil {
		return models.Goal{}, false, stub.upsertErr
	}
	goal, exists := stub.goals[userID]
	if !exists {
		goal = models.Goal{ID: "goal-" + userID, UserID: userID}
	}
	goal.TargetHours = targetHours
	stub.goals[userID] = goal
	return goal, !exists, nil
}
