package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameCalendarDay(t *testing.T) {
	morning := time.Date(2023, 5, 2, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2023, 5, 2, 23, 30, 0, 0, time.UTC)
	nextDay := time.Date(2023, 5, 3, 0, 0, 1, 0, time.UTC)

	assert.True(t, SameCalendarDay(morning, evening))
	assert.False(t, SameCalendarDay(evening, nextDay))
}

func TestSameCalendarDayAcrossLocations(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	assert.NoError(t, err)

	// 23:30 UTC on May 2nd is already May 3rd in Tokyo; comparison happens
	// in the first argument's location.
	utc := time.Date(2023, 5, 2, 23, 30, 0, 0, time.UTC)
	assert.True(t, SameCalendarDay(utc, utc.In(tokyo)))
}

func TestWeeksBefore(t *testing.T) {
	today := time.Date(2020, 7, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2020, 5, 5, 0, 0, 0, 0, time.UTC), WeeksBefore(today, 12))
}

func TestLaterDate(t *testing.T) {
	a := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2020, 5, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, b, LaterDate(a, b))
	assert.Equal(t, b, LaterDate(b, a))
}
