package series

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/heliodash/heliodash/internal/logging"
	"github.com/heliodash/heliodash/internal/metrics"
)

// Config holds accumulator construction parameters.
type Config struct {
	// CapacityWatts is the installation capacity ceiling used to normalize
	// sample values into [0,1].
	CapacityWatts float64

	// RefreshMinutes is the minimum number of minutes between refresh
	// signals returned by Ingest.
	RefreshMinutes int

	// ForecastEnabled controls whether the daily forecast overlay is
	// fetched and merged.
	ForecastEnabled bool
}

// Accumulator owns all per-day display state. It ingests telemetry samples
// one at a time, detects day boundaries from wall-clock minutes alone, and
// reports when a visual refresh is due. All series are created per instance
// and cleared together at rollover; nothing survives process exit.
//
// Ingestion is a single logical stream, but snapshots are read from the
// status listener, so a mutex guards every state access.
type Accumulator struct {
	mu sync.Mutex

	capacity        float64
	refreshInterval int
	forecastEnabled bool

	// lastSampleMinute starts above the valid range so the first sample is
	// never mistaken for a rollover.
	lastSampleMinute  int
	lastRefreshMinute int // -1 means no refresh signaled yet
	forecastFetched   bool

	day            []Sample
	hourly         [HoursPerDay][]float64
	forecastSeries []Sample
	forecastHourly [HoursPerDay]float64

	readings Readings

	source EstimateSource
	logger *logging.Logger
}

// New creates an Accumulator. Configuration errors fail fast here rather
// than surfacing mid-stream.
func New(cfg Config, source EstimateSource, logger *logging.Logger) (*Accumulator, error) {
	if cfg.CapacityWatts <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %v", cfg.CapacityWatts)
	}

	if cfg.RefreshMinutes <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %d", cfg.RefreshMinutes)
	}

	if cfg.ForecastEnabled && source == nil {
		return nil, fmt.Errorf("forecast enabled but no estimate source configured")
	}

	if logger == nil {
		logger = logging.Global()
	}

	a := &Accumulator{
		capacity:          cfg.CapacityWatts,
		refreshInterval:   cfg.RefreshMinutes,
		forecastEnabled:   cfg.ForecastEnabled,
		lastSampleMinute:  MinutesPerDay + 1,
		lastRefreshMinute: -1,
		day:               make([]Sample, 0, MinutesPerDay),
		forecastSeries:    make([]Sample, 0, HoursPerDay),
		source:            source,
		logger:            logger.With("component", "series.accumulator"),
	}

	for h := range a.hourly {
		a.hourly[h] = make([]float64, 0, 8)
	}

	return a, nil
}

// Ingest records one production sample and reports whether a refresh is
// due. A sample whose minute-of-day is lower than the previous one marks a
// new day: every series, bucket, and the forecast-fetched flag are reset
// and the sample starts the new day series. Equal minutes are same-day
// continuations and all retained.
//
// The caller decides what to do with the refresh signal; the accumulator
// never renders.
func (a *Accumulator) Ingest(ts time.Time, watts float64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	minute := MinuteOfDay(ts.Hour(), ts.Minute())

	if minute < a.lastSampleMinute {
		a.resetDay()
		metrics.RolloverDetected()
		a.logger.Info("Day rollover detected", "minute", minute)
	}

	a.day = append(a.day, Sample{
		Offset: float64(minute) / MinutesPerDay,
		Value:  watts / a.capacity,
	})

	// Hourly buckets take the raw value regardless of throttling.
	a.hourly[ts.Hour()] = append(a.hourly[ts.Hour()], watts)

	a.readings.SolarCurrent = watts

	refreshDue := a.lastRefreshMinute < 0 || minute >= a.lastRefreshMinute+a.refreshInterval
	if refreshDue {
		a.lastRefreshMinute = minute
		a.mergeForecastIfNeeded(ts)
	}

	a.lastSampleMinute = minute
	return refreshDue
}

// resetDay clears all per-day state. Called with the lock held.
func (a *Accumulator) resetDay() {
	a.day = a.day[:0]
	a.forecastSeries = a.forecastSeries[:0]
	a.forecastHourly = [HoursPerDay]float64{}
	for h := range a.hourly {
		a.hourly[h] = a.hourly[h][:0]
	}
	a.forecastFetched = false
}

// mergeForecastIfNeeded drains a completed forecast fetch into the overlay
// series, or schedules a fetch if none is in flight. Runs only on
// refresh-due ingests, with the lock held. Fetches happen on a background
// goroutine inside the EstimateSource, so ingestion never blocks on the
// network.
func (a *Accumulator) mergeForecastIfNeeded(ts time.Time) {
	if !a.forecastEnabled || a.forecastFetched {
		return
	}

	if est, ok := a.source.Poll(); ok {
		if sameDay(est.Day, ts) {
			a.mergeEstimate(est, ts)
			a.forecastFetched = true
			return
		}
		// Result from before a rollover; drop it and fetch again.
		a.logger.Warn("Discarding stale forecast",
			"estimate_day", est.Day.Format("2006-01-02"),
			"current_day", ts.Format("2006-01-02"))
	}

	a.source.Request(ts)
}

// mergeEstimate filters the estimate to today's entries and appends them to
// the overlay series in chronological order. Predictions are plotted at the
// half-hour mark of their hour regardless of the source minute; whole-hour
// entries also fill the hourly prediction snapshot.
func (a *Accumulator) mergeEstimate(est *Estimate, today time.Time) {
	stamps := make([]time.Time, 0, len(est.Watts))
	for stamp := range est.Watts {
		if sameDay(stamp, today) {
			stamps = append(stamps, stamp)
		}
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })

	for _, stamp := range stamps {
		watts := est.Watts[stamp]

		offset := float64(MinuteOfDay(stamp.Hour(), 30)) / MinutesPerDay
		a.forecastSeries = append(a.forecastSeries, Sample{
			Offset: offset,
			Value:  watts / a.capacity,
		})

		if stamp.Minute() == 0 {
			a.forecastHourly[stamp.Hour()] = watts / a.capacity
		}
	}

	a.logger.Info("Merged solar forecast", "points", len(stamps))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SetSolarEnergyToday records the cumulative production reading in Wh.
func (a *Accumulator) SetSolarEnergyToday(wh float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.readings.SolarToday = wh
}

// SetNetMeter records the instantaneous grid import/export powers in W.
// Net power is import minus export.
func (a *Accumulator) SetNetMeter(importW, exportW float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.readings.ImportCurrent = importW
	a.readings.ExportCurrent = exportW
	a.readings.NetCurrent = importW - exportW
}

// SetImportEnergyToday records the cumulative imported energy reading in Wh.
func (a *Accumulator) SetImportEnergyToday(wh float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.readings.ImportToday = wh
}

// SetExportEnergyToday records the cumulative exported energy reading in Wh.
func (a *Accumulator) SetExportEnergyToday(wh float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.readings.ExportToday = wh
}
