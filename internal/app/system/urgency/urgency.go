// Package urgency decides whether an idle resource has been on the bench
// long enough to need attention.
//
// The threshold is measured in calendar months, not days. The cutoff is
// today's date (UTC) moved back N months with the day clamped to the end of
// the target month, so March 31 minus one month is February 28 (or 29) and
// March 31 minus two months is January 31. A resource is urgent when its
// idle-from date is on or before the cutoff.
package urgency

import "time"

// DefaultThresholdMonths is used when no positive threshold is configured.
const DefaultThresholdMonths = 2

// Cutoff returns the latest idle-from date that is still urgent at now.
func Cutoff(now time.Time, thresholdMonths int) time.Time {
	if thresholdMonths <= 0 {
		thresholdMonths = DefaultThresholdMonths
	}
	y, m, d := now.UTC().Date()

	total := int(m) - 1 - thresholdMonths
	y += total / 12
	total %= 12
	if total < 0 {
		total += 12
		y--
	}
	month := time.Month(total + 1)

	if last := daysIn(y, month); d > last {
		d = last
	}
	return time.Date(y, month, d, 0, 0, 0, 0, time.UTC)
}

// IsUrgent reports whether idleFrom falls on or before Cutoff(now, thresholdMonths).
// Only the calendar date of idleFrom is considered.
func IsUrgent(idleFrom, now time.Time, thresholdMonths int) bool {
	if idleFrom.IsZero() {
		return false
	}
	return !DateOf(idleFrom).After(Cutoff(now, thresholdMonths))
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
