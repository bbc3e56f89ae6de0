package services

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestValidateTargetHours(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{name: "lower bound", value: 1},
		{name: "upper bound", value: 24},
		{name: "fractional", value: 7.5},
		{name: "zero", value: 0, wantErr: true},
		{name: "below lower bound", value: 0.5, wantErr: true},
		{name: "above upper bound", value: 25, wantErr: true},
		{name: "negative", value: -8, wantErr: true},
		{name: "nan", value: math.NaN(), wantErr: true},
		{name: "infinity", value: math.Inf(1), wantErr: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateTargetHours(testCase.value)
			if testCase.wantErr && !errors.Is(err, ErrTargetHoursOutOfRange) {
				t.Fatalf("expected ErrTargetHoursOutOfRange, got %v", err)
			}
			if !testCase.wantErr && err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
		})
	}
}

func TestGoalServiceSetGoalCreatesThenReplaces(t *testing.T) {
	t.Parallel()

	repo := newStubGoalRepo()
	service := NewGoalService(repo)

	goal, created, err := service.SetGoal("user-1", 8)
	if err != nil {
		t.Fatalf("first SetGoal() unexpected error: %v", err)
	}
	if !created || goal.TargetHours != 8 {
		t.Fatalf("expected created goal with 8h, got created=%v goal=%#v", created, goal)
	}

	goal, created, err = service.SetGoal("user-1", 7.5)
	if err != nil {
		t.Fatalf("second SetGoal() unexpected error: %v", err)
	}
	if created || goal.TargetHours != 7.5 {
		t.Fatalf("expected replaced goal with 7.5h, got created=%v goal=%#v", created, goal)
	}
	if len(repo.goals) != 1 {
		t.Fatalf("expected one goal row, got %d", len(repo.goals))
	}
}

func TestGoalServiceSetGoalRejectsOutOfRangeWithoutStoring(t *testing.T) {
	t.Parallel()

	repo := newStubGoalRepo()
	service := NewGoalService(repo)

	if _, _, err := service.SetGoal("user-1", 25); !errors.Is(err, ErrTargetHoursOutOfRange) {
		t.Fatalf("expected ErrTargetHoursOutOfRange, got %v", err)
	}
	if len(repo.goals) != 0 {
		t.Fatalf("expected no goal stored, got %d", len(repo.goals))
	}
}

func TestGoalServiceWrapsStoreErrors(t *testing.T) {
	t.Parallel()

	repo := newStubGoalRepo()
	repo.findErr = errStubStore
	repo.upsertErr = errStubStore
	service := NewGoalService(repo)
	if _, _, err := service.FindGoal("user-1"); !errors.Is(err, ErrGoalLoadFailed) {
		t.Fatalf("expected ErrGoalLoadFailed, got %v", err)
	}
	if _, _, err := service.SetGoal("user-1", 8); !errors.Is(err, ErrGoalSaveFailed) {
		t.Fatalf("expected ErrGoalSaveFailed, got %v", err)
	}
}

func TestGoalServiceProgress(t *testing.T) {
	t.Parallel()

	repo := newStubGoalRepo()
	service := NewGoalService(repo)
	reference := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	buckets := BuildWeeklyBuckets(nil, reference, time.UTC, nil)
	for index := range buckets {
		buckets[index].Hours = 7
	}

	if _, ok, err := service.Progress("user-1", buckets); err != nil || ok {
		t.Fatalf("expected no progress without goal, got ok=%v err=%v", ok, err)
	}

	if _, _, err := service.SetGoal("user-1", 8); err != nil {
		t.Fatalf("SetGoal() unexpected error: %v", err)
	}
	progress, ok, err := service.Progress("user-1", buckets)
	if err != nil || !ok {
		t.Fatalf("expected progress, got ok=%v err=%v", ok, err)
	}
	if progress.TargetHours != 8 || progress.AverageSleep != 7 || progress.Progress != 87.5 {
		t.Fatalf("unexpected progress %#v", progress)
	}
}
