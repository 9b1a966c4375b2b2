// Package forecast obtains the daily predicted production curve from an
// external provider and hands it to the accumulator without ever blocking
// the ingestion path.
package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/heliodash/heliodash/internal/series"
)

// Provider fetches a predicted power curve covering the given day (and
// possibly nearby days; the accumulator filters). Implementations are
// fallible and slow: network call semantics, best effort.
type Provider interface {
	Estimate(ctx context.Context, day time.Time) (*series.Estimate, error)
}

// ProviderError wraps a failed fetch: network error, unexpected status, or
// response parse failure.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("forecast provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
