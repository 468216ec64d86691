package domain

import "time"

// DefaultReviewTimezone is the civil timezone used for day boundaries
// when none is configured (day changes at 00:00 MSK)
const DefaultReviewTimezone = "Europe/Moscow"

// DayKey projects a moment onto its calendar day in the given timezone,
// formatted as YYYYMMDD. Keys compare correctly as strings
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("20060102")
}

// SameDay reports whether two moments fall on the same calendar day
// in the given timezone
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayKey(a, loc) == DayKey(b, loc)
}
