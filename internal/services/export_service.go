package services

import (
	"strconv"
	"time"

	"github.com/terraincognita07/sleeptrack/internal/models"
)

var SleepLogCSVHeaders = []string{
	"sleep_time",
	"wake_time",
	"duration",
}

// BuildSleepLogCSVRows renders logs as CSV records. Instants are written in
// RFC 3339 at the given location so the file matches the caller's clock.
func BuildSleepLogCSVRows(logs []models.SleepLog, location *time.Location) [][]string {
	if location == nil {
		location = time.UTC
	}

	rows := make([][]string, 0, len(logs))
	for _, entry := range logs {
		rows = append(rows, []string{
			entry.SleepTime.In(location).Format(time.RFC3339),
			entry.WakeTime.In(location).Format(time.RFC3339),
			strconv.FormatFloat(entry.Duration, 'f', 2, 64),
		})
	}
	return rows
}
