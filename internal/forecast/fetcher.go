package forecast

import (
	"context"
	"sync"
	"time"

	"github.com/heliodash/heliodash/internal/logging"
	"github.com/heliodash/heliodash/internal/metrics"
	"github.com/heliodash/heliodash/internal/series"
)

// Fetcher runs provider fetches on a background goroutine and buffers the
// most recent successful estimate until the accumulator polls for it. It
// implements series.EstimateSource.
//
// A failed fetch is logged and dropped; the in-flight flag clears so the
// accumulator's next eligible ingest schedules a retry. At most one fetch
// runs at a time.
type Fetcher struct {
	provider Provider
	logger   *logging.Logger

	mu       sync.Mutex
	inFlight bool

	// One-slot mailbox between the fetch goroutine and Poll.
	results chan *series.Estimate
}

// NewFetcher creates a Fetcher around the given provider.
func NewFetcher(provider Provider, logger *logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.Global()
	}

	return &Fetcher{
		provider: provider,
		logger:   logger.With("component", "forecast.fetcher"),
		results:  make(chan *series.Estimate, 1),
	}
}

// Request schedules a fetch for the given day. No-op while a fetch is in
// flight. Never blocks.
func (f *Fetcher) Request(day time.Time) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return
	}
	f.inFlight = true
	f.mu.Unlock()

	metrics.ForecastFetchStarted()
	f.logger.Info("Fetching solar forecast", "day", day.Format("2006-01-02"))

	go func() {
		est, err := f.provider.Estimate(context.Background(), day)

		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()

		if err != nil {
			metrics.ForecastFetchFailed()
			f.logger.Error("Forecast fetch failed", "day", day.Format("2006-01-02"), "error", err)
			return
		}

		select {
		case f.results <- est:
		default:
			// A previous result was never polled; keep it, drop the new one.
		}
	}()
}

// Poll returns a completed estimate if one is ready. Never blocks.
func (f *Fetcher) Poll() (*series.Estimate, bool) {
	select {
	case est := <-f.results:
		return est, true
	default:
		return nil, false
	}
}
