package services

import (
	"errors"
	"math"
	"time"

	"github.com/terraincognita07/sleeptrack/internal/models"
)

const (
	WeeklyWindowDays   = 7
	MaxProgressPercent = 200.0
	millisecondsInHour = 3_600_000
)

var ErrWakeNotAfterSleep = errors.New("wake time must be after sleep time")

type DailyBucket struct {
	DateISO string  `json:"dateISO"`
	Label   string  `json:"label"`
	Hours   float64 `json:"hours"`
}

type GoalProgress struct {
	TargetHours       float64 `json:"targetHours"`
	AverageSleep      float64 `json:"averageSleep"`
	Progress          float64 `json:"progress"`
	WeeklyTotal       float64 `json:"weeklyTotal"`
	GoalTotal         float64 `json:"goalTotal"`
	RemainingPerNight float64 `json:"remainingPerNight"`
}

type TodaySummary struct {
	TotalHours float64          `json:"totalHours"`
	LatestLog  *models.SleepLog `json:"latestLog"`
}

// WeekdayLabeler renders the short weekday name of a bucket.
type WeekdayLabeler func(time.Weekday) string

func DefaultWeekdayLabel(weekday time.Weekday) string {
	return weekday.String()[:3]
}

// ComputeDuration returns the hours between the two instants, rounded to
// two decimals.
func ComputeDuration(sleepTime time.Time, wakeTime time.Time) (float64, error) {
	if !wakeTime.After(sleepTime) {
		return 0, ErrWakeNotAfterSleep
	}
	milliseconds := wakeTime.Sub(sleepTime).Milliseconds()
	return roundTo(float64(milliseconds)/millisecondsInHour, 2), nil
}

// BuildWeeklyBuckets groups logs by the local calendar date of sleep_time into
// the seven days ending on the reference date, oldest first. Logs outside the
// window are ignored. Hours accumulate at full precision and are rounded once.
func BuildWeeklyBuckets(logs []models.SleepLog, reference time.Time, location *time.Location, labeler WeekdayLabeler) []DailyBucket {
	if location == nil {
		location = time.UTC
	}
	if labeler == nil {
		labeler = DefaultWeekdayLabel
	}

	start, _ := WeeklyWindow(reference, location)
	days := make([]time.Time, WeeklyWindowDays)
	positions := make(map[string]int, WeeklyWindowDays)
	for offset := range WeeklyWindowDays {
		day := start.AddDate(0, 0, offset)
		days[offset] = day
		positions[day.Format(isoDateLayout)] = offset
	}

	totals := make([]float64, WeeklyWindowDays)
	for _, entry := range logs {
		position, ok := positions[LocalDateKey(entry.SleepTime, location)]
		if !ok {
			continue
		}
		totals[position] += entry.Duration
	}

	buckets := make([]DailyBucket, WeeklyWindowDays)
	for offset, day := range days {
		buckets[offset] = DailyBucket{
			DateISO: day.Format(isoDateLayout),
			Label:   labeler(day.Weekday()),
			Hours:   roundTo(totals[offset], 2),
		}
	}
	return buckets
}

// ComputeGoalProgress reports progress of the weekly average against the
// target. A nil target means no goal is set and yields ok=false.
func ComputeGoalProgress(targetHours *float64, buckets []DailyBucket) (GoalProgress, bool) {
	if targetHours == nil {
		return GoalProgress{}, false
	}
	target := *targetHours

	total := sumBucketHours(buckets)
	average := total / WeeklyWindowDays

	progress := 0.0
	if target > 0 {
		progress = math.Min(average/target*100, MaxProgressPercent)
		progress = math.Max(progress, 0)
	}

	return GoalProgress{
		TargetHours:       target,
		AverageSleep:      roundTo(average, 2),
		Progress:          roundTo(progress, 1),
		WeeklyTotal:       roundTo(total, 2),
		GoalTotal:         roundTo(target*WeeklyWindowDays, 2),
		RemainingPerNight: roundTo(math.Max(target-average, 0), 2),
	}, true
}

// ComputeTodaySummary totals the logs whose sleep_time is at or after local
// midnight of the reference date. LatestLog is the one with the greatest
// sleep_time regardless of input order.
func ComputeTodaySummary(logs []models.SleepLog, reference time.Time, location *time.Location) TodaySummary {
	midnight := DateAtLocation(reference, location)

	total := 0.0
	var latest *models.SleepLog
	for index := range logs {
		entry := logs[index]
		if entry.SleepTime.Before(midnight) {
			continue
		}
		total += entry.Duration
		if latest == nil || entry.SleepTime.After(latest.SleepTime) {
			latest = &entry
		}
	}

	return TodaySummary{
		TotalHours: roundTo(total, 2),
		LatestLog:  latest,
	}
}

// SummarizeWeek returns the mean over the fixed seven-day window and the
// number of days with any logged sleep.
func SummarizeWeek(buckets []DailyBucket) (float64, int) {
	daysLogged := 0
	for _, bucket := range buckets {
		if bucket.Hours > 0 {
			daysLogged++
		}
	}
	return roundTo(sumBucketHours(buckets)/WeeklyWindowDays, 2), daysLogged
}

func sumBucketHours(buckets []DailyBucket) float64 {
	total := 0.0
	for _, bucket := range buckets {
		total += bucket.Hours
	}
	return total
}

func roundTo(value float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(value*scale) / scale
}
