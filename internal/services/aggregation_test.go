package services

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/terraincognita07/sleeptrack/internal/models"
)

func sleepLogAt(sleepTime time.Time, hours float64) models.SleepLog {
	return models.SleepLog{
		SleepTime: sleepTime,
		WakeTime:  sleepTime.Add(time.Duration(hours * float64(time.Hour))),
		Duration:  hours,
	}
}

func bucketsWithHours(hours ...float64) []DailyBucket {
	buckets := make([]DailyBucket, len(hours))
	for index, value := range hours {
		buckets[index] = DailyBucket{Hours: value}
	}
	return buckets
}

func floatPtr(value float64) *float64 {
	return &value
}

func TestComputeDuration(t *testing.T) {
	t.Parallel()

	sleep := time.Date(2024, time.January, 1, 22, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		wake    time.Time
		want    float64
		wantErr error
	}{
		{name: "eight hours", wake: time.Date(2024, time.January, 2, 6, 0, 0, 0, time.UTC), want: 8},
		{name: "rounds to two decimals", wake: sleep.Add(7*time.Hour + 20*time.Minute), want: 7.33},
		{name: "fractional hour", wake: sleep.Add(45 * time.Minute), want: 0.75},
		{name: "equal instants rejected", wake: sleep, wantErr: ErrWakeNotAfterSleep},
		{name: "wake before sleep rejected", wake: sleep.Add(-time.Minute), wantErr: ErrWakeNotAfterSleep},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := ComputeDuration(sleep, testCase.wake)
			if testCase.wantErr != nil {
				if !errors.Is(err, testCase.wantErr) {
					t.Fatalf("expected %v, got %v", testCase.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != testCase.want {
				t.Fatalf("ComputeDuration = %v, want %v", got, testCase.want)
			}
		})
	}
}

func TestComputeDurationAcrossOffsets(t *testing.T) {
	t.Parallel()

	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	sleep := time.Date(2024, time.March, 10, 23, 30, 0, 0, plusTwo)
	wake := time.Date(2024, time.March, 11, 5, 45, 0, 0, time.UTC)

	got, err := ComputeDuration(sleep, wake)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 8.25 {
		t.Fatalf("expected 8.25 hours across offsets, got %v", got)
	}
}

func TestBuildWeeklyBucketsWindowShape(t *testing.T) {
	t.Parallel()

	reference := time.Date(2024, time.January, 10, 15, 4, 0, 0, time.UTC)
	buckets := BuildWeeklyBuckets(nil, reference, time.UTC, nil)

	if len(buckets) != WeeklyWindowDays {
		t.Fatalf("expected %d buckets, got %d", WeeklyWindowDays, len(buckets))
	}

	wantDates := []string{"2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10"}
	wantLabels := []string{"Thu", "Fri", "Sat", "Sun", "Mon", "Tue", "Wed"}
	for index, bucket := range buckets {
		if bucket.DateISO != wantDates[index] {
			t.Fatalf("bucket %d date = %s, want %s", index, bucket.DateISO, wantDates[index])
		}
		if bucket.Label != wantLabels[index] {
			t.Fatalf("bucket %d label = %s, want %s", index, bucket.Label, wantLabels[index])
		}
		if bucket.Hours != 0 {
			t.Fatalf("bucket %d expected 0 hours, got %v", index, bucket.Hours)
		}
	}
}

func TestBuildWeeklyBucketsContiguousAcrossDST(t *testing.T) {
	t.Parallel()

	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	reference := time.Date(2024, time.March, 31, 12, 0, 0, 0, berlin)

	buckets := BuildWeeklyBuckets(nil, reference, berlin, nil)
	previous, err := time.Parse(isoDateLayout, buckets[0].DateISO)
	if err != nil {
		t.Fatalf("parse first bucket date: %v", err)
	}
	for index := 1; index < len(buckets); index++ {
		current, err := time.Parse(isoDateLayout, buckets[index].DateISO)
		if err != nil {
			t.Fatalf("parse bucket %d date: %v", index, err)
		}
		if !current.Equal(previous.AddDate(0, 0, 1)) {
			t.Fatalf("expected contiguous dates, got %s after %s", buckets[index].DateISO, buckets[index-1].DateISO)
		}
		previous = current
	}
	if buckets[len(buckets)-1].DateISO != "2024-03-31" {
		t.Fatalf("expected window to end on reference date, got %s", buckets[len(buckets)-1].DateISO)
	}
}

func TestBuildWeeklyBucketsAccumulatesAndIgnoresOutsideWindow(t *testing.T) {
	t.Parallel()

	reference := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	logs := []models.SleepLog{
		sleepLogAt(time.Date(2024, time.January, 9, 22, 0, 0, 0, time.UTC), 7.5),
		sleepLogAt(time.Date(2024, time.January, 9, 14, 0, 0, 0, time.UTC), 1.25),
		sleepLogAt(time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC), 6),
		sleepLogAt(time.Date(2024, time.January, 3, 23, 59, 0, 0, time.UTC), 9),
		sleepLogAt(time.Date(2024, time.January, 11, 1, 0, 0, 0, time.UTC), 5),
	}

	buckets := BuildWeeklyBuckets(logs, reference, time.UTC, nil)

	if buckets[0].DateISO != "2024-01-04" || buckets[0].Hours != 6 {
		t.Fatalf("expected first bucket to hold 6 hours, got %+v", buckets[0])
	}
	if buckets[5].DateISO != "2024-01-09" || buckets[5].Hours != 8.75 {
		t.Fatalf("expected Jan 9 bucket to hold 8.75 hours, got %+v", buckets[5])
	}
	if buckets[6].Hours != 0 {
		t.Fatalf("expected future log to be ignored, got %+v", buckets[6])
	}

	total := 0.0
	for _, bucket := range buckets {
		total += bucket.Hours
	}
	if math.Abs(total-14.75) > 1e-9 {
		t.Fatalf("expected in-window total 14.75, got %v", total)
	}
}

func TestBuildWeeklyBucketsUsesLocalCalendarDate(t *testing.T) {
	t.Parallel()

	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	reference := time.Date(2024, time.January, 10, 12, 0, 0, 0, newYork)
	// 02:00 UTC on Jan 10 is 21:00 on Jan 9 in New York.
	logs := []models.SleepLog{sleepLogAt(time.Date(2024, time.January, 10, 2, 0, 0, 0, time.UTC), 8)}

	buckets := BuildWeeklyBuckets(logs, reference, newYork, nil)
	if buckets[5].DateISO != "2024-01-09" || buckets[5].Hours != 8 {
		t.Fatalf("expected log on local Jan 9, got %+v", buckets)
	}
}

func TestBuildWeeklyBucketsIsOrderIndependentAndIdempotent(t *testing.T) {
	t.Parallel()

	reference := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	logs := []models.SleepLog{
		sleepLogAt(time.Date(2024, time.January, 5, 22, 0, 0, 0, time.UTC), 7.1),
		sleepLogAt(time.Date(2024, time.January, 8, 22, 0, 0, 0, time.UTC), 6.2),
		sleepLogAt(time.Date(2024, time.January, 5, 13, 0, 0, 0, time.UTC), 0.7),
	}
	reversed := []models.SleepLog{logs[2], logs[1], logs[0]}

	first := BuildWeeklyBuckets(logs, reference, time.UTC, nil)
	second := BuildWeeklyBuckets(logs, reference, time.UTC, nil)
	third := BuildWeeklyBuckets(reversed, reference, time.UTC, nil)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output for identical input, got %v and %v", first, second)
	}
	if !reflect.DeepEqual(first, third) {
		t.Fatalf("expected input order not to matter, got %v and %v", first, third)
	}
}

func TestBuildWeeklyBucketsUsesLabeler(t *testing.T) {
	t.Parallel()

	reference := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	labeler := func(weekday time.Weekday) string {
		return "d" + string(rune('0'+int(weekday)))
	}

	buckets := BuildWeeklyBuckets(nil, reference, time.UTC, labeler)
	if buckets[6].Label != "d3" {
		t.Fatalf("expected custom label for Wednesday, got %q", buckets[6].Label)
	}
}

func TestComputeGoalProgressScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  float64
		buckets []DailyBucket
		want    GoalProgress
	}{
		{
			name:    "on target",
			target:  8,
			buckets: bucketsWithHours(8, 8, 8, 8, 8, 8, 8),
			want: GoalProgress{
				TargetHours:       8,
				AverageSleep:      8,
				Progress:          100,
				WeeklyTotal:       56,
				GoalTotal:         56,
				RemainingPerNight: 0,
			},
		},
		{
			name:    "capped at two hundred percent",
			target:  4,
			buckets: bucketsWithHours(10, 10, 10, 10, 10, 10, 10),
			want: GoalProgress{
				TargetHours:       4,
				AverageSleep:      10,
				Progress:          200,
				WeeklyTotal:       70,
				GoalTotal:         28,
				RemainingPerNight: 0,
			},
		},
		{
			name:    "empty window",
			target:  8,
			buckets: bucketsWithHours(0, 0, 0, 0, 0, 0, 0),
			want: GoalProgress{
				TargetHours:       8,
				AverageSleep:      0,
				Progress:          0,
				WeeklyTotal:       0,
				GoalTotal:         56,
				RemainingPerNight: 8,
			},
		},
		{
			name:    "divides by seven regardless of logged days",
			target:  7,
			buckets: bucketsWithHours(0, 0, 0, 0, 7, 7, 7),
			want: GoalProgress{
				TargetHours:       7,
				AverageSleep:      3,
				Progress:          42.9,
				WeeklyTotal:       21,
				GoalTotal:         49,
				RemainingPerNight: 4,
			},
		},
		{
			name:    "zero target yields zero progress",
			target:  0,
			buckets: bucketsWithHours(8, 8, 8, 8, 8, 8, 8),
			want: GoalProgress{
				TargetHours:       0,
				AverageSleep:      8,
				Progress:          0,
				WeeklyTotal:       56,
				GoalTotal:         0,
				RemainingPerNight: 0,
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ComputeGoalProgress(floatPtr(testCase.target), testCase.buckets)
			if !ok {
				t.Fatal("expected progress when a target is set")
			}
			if got != testCase.want {
				t.Fatalf("ComputeGoalProgress = %+v, want %+v", got, testCase.want)
			}
		})
	}
}

func TestComputeGoalProgressWithoutGoal(t *testing.T) {
	t.Parallel()

	got, ok := ComputeGoalProgress(nil, bucketsWithHours(8, 8, 8, 8, 8, 8, 8))
	if ok {
		t.Fatalf("expected no progress without a goal, got %+v", got)
	}
}

func TestComputeGoalProgressStaysWithinBounds(t *testing.T) {
	t.Parallel()

	targets := []float64{1, 2.5, 6, 8, 12, 24}
	hourSets := [][]float64{
		{0, 0, 0, 0, 0, 0, 0},
		{24, 24, 24, 24, 24, 24, 24},
		{3.33, 0, 12.5, 7.75, 0.01, 9, 4},
		{1, 1, 1, 1, 1, 1, 1},
	}

	for _, target := range targets {
		for _, hours := range hourSets {
			got, ok := ComputeGoalProgress(floatPtr(target), bucketsWithHours(hours...))
			if !ok {
				t.Fatal("expected progress when a target is set")
			}
			if got.Progress < 0 || got.Progress > MaxProgressPercent {
				t.Fatalf("progress %v out of [0, %v] for target %v hours %v", got.Progress, MaxProgressPercent, target, hours)
			}
		}
	}
}

func TestComputeTodaySummary(t *testing.T) {
	t.Parallel()

	reference := time.Date(2024, time.January, 10, 18, 0, 0, 0, time.UTC)
	yesterday := sleepLogAt(time.Date(2024, time.January, 9, 23, 0, 0, 0, time.UTC), 8)
	nap := sleepLogAt(time.Date(2024, time.January, 10, 13, 0, 0, 0, time.UTC), 1.5)
	early := sleepLogAt(time.Date(2024, time.January, 10, 0, 30, 0, 0, time.UTC), 6.25)
	nap.ID = "nap"
	early.ID = "early"

	summary := ComputeTodaySummary([]models.SleepLog{early, yesterday, nap}, reference, time.UTC)
	if summary.TotalHours != 7.75 {
		t.Fatalf("expected 7.75 hours today, got %v", summary.TotalHours)
	}
	if summary.LatestLog == nil || summary.LatestLog.ID != "nap" {
		t.Fatalf("expected latest log to be the nap, got %+v", summary.LatestLog)
	}
}

func TestComputeTodaySummaryEmpty(t *testing.T) {
	t.Parallel()

	reference := time.Date(2024, time.January, 10, 18, 0, 0, 0, time.UTC)
	summary := ComputeTodaySummary(nil, reference, time.UTC)
	if summary.TotalHours != 0 || summary.LatestLog != nil {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func TestSummarizeWeek(t *testing.T) {
	t.Parallel()

	average, daysLogged := SummarizeWeek(bucketsWithHours(0, 7.5, 0, 8, 6.5, 0, 7))
	if average != 4.14 {
		t.Fatalf("expected average 4.14, got %v", average)
	}
	if daysLogged != 4 {
		t.Fatalf("expected 4 logged days, got %d", daysLogged)
	}
}
