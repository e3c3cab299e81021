package lifeweeks

import "time"

// WeeksLived returns the number of full weeks between birthdate and now.
// Both instants are truncated to their calendar day first, so the result
// does not drift within a single day depending on time-of-day.
func WeeksLived(birthdate, now time.Time) int {
	b := truncateToDay(birthdate)
	n := truncateToDay(now)
	days := int(n.Sub(b).Hours() / 24)
	return days / 7
}

// NextOccurrence returns the smallest instant >= now that falls on the given
// weekday at hour:00 in now's location. If now is already past hour:00 on a
// matching weekday, the occurrence a week later is returned.
func NextOccurrence(weekday time.Weekday, hour int, now time.Time) time.Time {
	daysAhead := (int(weekday) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	candidate = candidate.AddDate(0, 0, daysAhead)
	if candidate.Before(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// AddYears projects a date N years forward. A February 29 birthdate is
// clamped to February 28 when the target year is not a leap year, instead
// of normalizing into March 1 the way time.AddDate would.
func AddYears(d time.Time, years int) time.Time {
	year := d.Year() + years
	month := d.Month()
	day := d.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, d.Location())
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
