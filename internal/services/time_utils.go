package services

import "time"

const isoDateLayout = "2006-01-02"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// WeeklyWindow covers the local calendar days [reference-6, reference].
// The end bound is exclusive.
func WeeklyWindow(reference time.Time, location *time.Location) (time.Time, time.Time) {
	today := DateAtLocation(reference, location)
	start := today.AddDate(0, 0, -(WeeklyWindowDays - 1))
	return start, today.AddDate(0, 0, 1)
}

func LocalDateKey(value time.Time, location *time.Location) string {
	if location == nil {
		location = time.UTC
	}
	return value.In(location).Format(isoDateLayout)
}
