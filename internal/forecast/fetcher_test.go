package forecast

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliodash/heliodash/internal/series"
)

// blockingProvider completes a fetch only when release is closed.
type blockingProvider struct {
	calls   atomic.Int32
	release chan struct{}
	est     *series.Estimate
	err     error
}

func (p *blockingProvider) Estimate(ctx context.Context, day time.Time) (*series.Estimate, error) {
	p.calls.Add(1)
	<-p.release
	return p.est, p.err
}

func TestFetcherDeliversEstimate(t *testing.T) {
	day := time.Date(2023, 2, 1, 8, 0, 0, 0, time.UTC)
	provider := &blockingProvider{
		release: make(chan struct{}),
		est:     &series.Estimate{Day: day, Watts: map[time.Time]float64{day: 1000}},
	}
	fetcher := NewFetcher(provider, nil)

	fetcher.Request(day)

	_, ok := fetcher.Poll()
	assert.False(t, ok, "nothing ready while the fetch is in flight")

	close(provider.release)

	require.Eventually(t, func() bool {
		est, ok := fetcher.Poll()
		return ok && est.Day.Equal(day)
	}, time.Second, 5*time.Millisecond)
}

func TestFetcherSingleFlight(t *testing.T) {
	provider := &blockingProvider{release: make(chan struct{})}
	fetcher := NewFetcher(provider, nil)

	day := time.Now()
	fetcher.Request(day)
	fetcher.Request(day)
	fetcher.Request(day)

	// Give the goroutine a chance to start before counting.
	require.Eventually(t, func() bool {
		return provider.calls.Load() == 1
	}, time.Second, 5*time.Millisecond)

	close(provider.release)
}

func TestFetcherFailureClearsInFlight(t *testing.T) {
	provider := &blockingProvider{
		release: make(chan struct{}),
		err:     &ProviderError{Op: "fetch estimate", Err: context.DeadlineExceeded},
	}
	fetcher := NewFetcher(provider, nil)

	day := time.Now()
	fetcher.Request(day)
	close(provider.release)

	// Wait until the failed fetch settles, then a new request must refetch.
	require.Eventually(t, func() bool {
		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		return !fetcher.inFlight
	}, time.Second, 5*time.Millisecond)

	_, ok := fetcher.Poll()
	assert.False(t, ok, "failures never surface through Poll")

	provider.release = make(chan struct{})
	close(provider.release)
	fetcher.Request(day)

	require.Eventually(t, func() bool {
		return provider.calls.Load() == 2
	}, time.Second, 5*time.Millisecond)
}
