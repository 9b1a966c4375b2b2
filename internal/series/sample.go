// Package series maintains the day-scoped rolling time series behind the
// dashboard: live production samples, hourly buckets, and the once-per-day
// forecast overlay.
package series

// MinutesPerDay is the number of minutes in a calendar day.
const MinutesPerDay = 24 * 60

// HoursPerDay is the number of hourly buckets kept per day.
const HoursPerDay = 24

// Sample is a normalized chart point: Offset is minutes-since-midnight
// divided by 1440, Value is watts divided by the installation capacity.
// Both lie in [0,1] for in-range inputs so chart coordinates stay
// resolution-independent.
type Sample struct {
	Offset float64 `json:"offset"`
	Value  float64 `json:"value"`
}

// MinuteOfDay returns hour*60+minute for the given wall-clock components.
func MinuteOfDay(hour, minute int) int {
	return hour*60 + minute
}
