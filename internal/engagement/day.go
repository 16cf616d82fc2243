// Package engagement holds the streak, story-visit, daily-coin and shop rules.
//
// Everything in here is pure: functions take the current state plus an event and return the
// next state. Loading and persisting accounts is the caller's job.
package engagement

import "time"

// dayKey strips the time of day, keeping only the calendar date as seen in loc.
// The result is a UTC midnight.
func dayKey(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return dayKey(a, loc).Equal(dayKey(b, loc))
}

// IsPreviousDay reports whether prev falls exactly one calendar day before t.
func IsPreviousDay(prev, t time.Time, loc *time.Location) bool {
	return dayKey(prev, loc).Equal(dayKey(t, loc).AddDate(0, 0, -1))
}

// CrossedDay reports whether now is on a different calendar day than last.
// A nil last means the account has never been seen, which always counts as a new day.
func CrossedDay(last *time.Time, now time.Time, loc *time.Location) bool {
	if last == nil {
		return true
	}
	return !SameDay(*last, now, loc)
}
