package series

import "time"

// Estimate is a predicted power curve obtained from an external forecast
// provider. Day records which calendar day the fetch was requested for;
// Watts maps prediction timestamps to predicted production in watts.
type Estimate struct {
	Day   time.Time
	Watts map[time.Time]float64
}

// EstimateSource delivers asynchronously fetched forecast estimates.
// Request schedules a background fetch for the given day and must not
// block; repeated calls while a fetch is in flight are no-ops. Poll hands
// over a completed successful estimate at most once. Failed fetches are
// never surfaced through Poll; the source clears its in-flight state so a
// later Request retries.
type EstimateSource interface {
	Request(day time.Time)
	Poll() (*Estimate, bool)
}
