package utils

import "time"

// SameCalendarDay reports whether a and b fall on the same calendar day,
// evaluated in a's location.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// WeeksBefore returns t shifted back by the given number of weeks.
func WeeksBefore(t time.Time, weeks int) time.Time {
	return t.AddDate(0, 0, -7*weeks)
}

// LaterDate returns the later of a and b.
func LaterDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
