package series

// Readings are the current and cumulative scalar meter values shown next to
// the chart. Powers are in W, energies in Wh.
type Readings struct {
	SolarCurrent  float64 `json:"solar_current"`
	SolarToday    float64 `json:"solar_today"`
	ImportCurrent float64 `json:"import_current"`
	ImportToday   float64 `json:"import_today"`
	ExportCurrent float64 `json:"export_current"`
	ExportToday   float64 `json:"export_today"`
	NetCurrent    float64 `json:"net_current"`
}

// Snapshot is a read-only copy of the accumulator's display state. It
// shares no memory with the accumulator, so renderers and API handlers may
// hold onto it for as long as they like.
type Snapshot struct {
	Day            []Sample             `json:"day"`
	HourlyMeans    [HoursPerDay]float64 `json:"hourly_means"`
	Forecast       []Sample             `json:"forecast"`
	ForecastHourly [HoursPerDay]float64 `json:"forecast_hourly"`
	Readings       Readings             `json:"readings"`
}

// Snapshot returns a deep copy of the current display state. Hourly means
// are the arithmetic bucket averages of the raw watt values, 0 for empty
// buckets.
func (a *Accumulator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		Day:            make([]Sample, len(a.day)),
		Forecast:       make([]Sample, len(a.forecastSeries)),
		ForecastHourly: a.forecastHourly,
		Readings:       a.readings,
	}
	copy(snap.Day, a.day)
	copy(snap.Forecast, a.forecastSeries)

	for h, bucket := range a.hourly {
		snap.HourlyMeans[h] = mean(bucket)
	}

	return snap
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
