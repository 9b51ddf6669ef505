package dto

import "time"

// WeeklyPricePoint is one entry of the provider's weekly-adjusted series.
// Close keeps the provider's original string-decimal so precision survives
// all the way to the chart.
type WeeklyPricePoint struct {
	Date  time.Time
	Close string
}
