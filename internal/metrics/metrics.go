// Package metrics registers the daemon's prometheus instruments.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "heliodash_"

var (
	registerOnce sync.Once

	samplesIngested  *prometheus.CounterVec
	decodeFailures   *prometheus.CounterVec
	refreshesTotal   prometheus.Counter
	renderFailures   prometheus.Counter
	forecastFetches  prometheus.Counter
	forecastFailures prometheus.Counter
	rolloversTotal   prometheus.Counter
	solarPowerWatts  prometheus.Gauge
)

// Init registers all metrics with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		samplesIngested = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "samples_ingested_total",
				Help: "Telemetry messages ingested by channel",
			},
			[]string{"channel"},
		)

		decodeFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "decode_failures_total",
				Help: "Telemetry payloads rejected by the schema decoder",
			},
			[]string{"channel"},
		)

		refreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "refreshes_total",
			Help: "Display refresh signals emitted by the accumulator",
		})

		renderFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "render_failures_total",
			Help: "Renderer invocations that returned an error",
		})

		forecastFetches = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "forecast_fetches_total",
			Help: "Forecast fetch attempts",
		})

		forecastFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "forecast_fetch_failures_total",
			Help: "Forecast fetch attempts that failed",
		})

		rolloversTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "day_rollovers_total",
			Help: "Day boundaries detected in the telemetry stream",
		})

		solarPowerWatts = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "solar_power_watts",
			Help: "Most recent instantaneous solar production",
		})

		prometheus.MustRegister(
			samplesIngested,
			decodeFailures,
			refreshesTotal,
			renderFailures,
			forecastFetches,
			forecastFailures,
			rolloversTotal,
			solarPowerWatts,
		)
	})
}

// SampleIngested counts one decoded message on the given channel.
func SampleIngested(channel string) {
	if samplesIngested != nil {
		samplesIngested.WithLabelValues(channel).Inc()
	}
}

// DecodeFailed counts one rejected payload on the given channel.
func DecodeFailed(channel string) {
	if decodeFailures != nil {
		decodeFailures.WithLabelValues(channel).Inc()
	}
}

// RefreshSignaled counts one refresh signal.
func RefreshSignaled() {
	if refreshesTotal != nil {
		refreshesTotal.Inc()
	}
}

// RenderFailed counts one failed renderer invocation.
func RenderFailed() {
	if renderFailures != nil {
		renderFailures.Inc()
	}
}

// ForecastFetchStarted counts one forecast fetch attempt.
func ForecastFetchStarted() {
	if forecastFetches != nil {
		forecastFetches.Inc()
	}
}

// ForecastFetchFailed counts one failed forecast fetch.
func ForecastFetchFailed() {
	if forecastFailures != nil {
		forecastFailures.Inc()
	}
}

// RolloverDetected counts one detected day boundary.
func RolloverDetected() {
	if rolloversTotal != nil {
		rolloversTotal.Inc()
	}
}

// SetSolarPower records the latest instantaneous production in watts.
func SetSolarPower(watts float64) {
	if solarPowerWatts != nil {
		solarPowerWatts.Set(watts)
	}
}
