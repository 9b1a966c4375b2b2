package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/heliodash/heliodash/internal/config"
	"github.com/heliodash/heliodash/internal/logging"
	"github.com/heliodash/heliodash/internal/series"
)

// apiTimeLayout is the local-time timestamp format used by the
// forecast.solar watts map.
const apiTimeLayout = "2006-01-02 15:04:05"

// Client is a forecast.solar API client. The public API needs no key; the
// panel geometry is baked into the request path.
type Client struct {
	cfg        config.ForecastConfig
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a forecast.solar client from configuration. The HTTP
// client timeout is the only bound on a fetch; there is no cancellation
// beyond it.
func NewClient(cfg config.ForecastConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Global()
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "forecast.client"),
	}
}

// estimateResponse is the subset of the forecast.solar response we consume.
type estimateResponse struct {
	Result  map[string]float64 `json:"result"`
	Message struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
}

// Estimate fetches the predicted watts curve. Timestamps in the response
// are local to the installation and parsed in day's location so the
// accumulator's calendar-day filter sees consistent dates.
func (c *Client) Estimate(ctx context.Context, day time.Time) (*series.Estimate, error) {
	endpoint := fmt.Sprintf("%s/estimate/watts/%s/%s/%s/%s/%s",
		c.cfg.BaseURL,
		formatCoord(c.cfg.Latitude),
		formatCoord(c.cfg.Longitude),
		formatCoord(c.cfg.Declination),
		formatCoord(c.cfg.Azimuth),
		formatCoord(c.cfg.KilowattPeak),
	)

	query := url.Values{}
	query.Set("damping", fmt.Sprintf("%s,%s", formatCoord(c.cfg.DampingMorning), formatCoord(c.cfg.DampingEvening)))
	endpoint += "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ProviderError{Op: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Op: "fetch estimate", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &ProviderError{Op: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Op:  "fetch estimate",
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200)),
		}
	}

	var decoded estimateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &ProviderError{Op: "parse response", Err: err}
	}

	watts := make(map[time.Time]float64, len(decoded.Result))
	for stamp, w := range decoded.Result {
		t, err := time.ParseInLocation(apiTimeLayout, stamp, day.Location())
		if err != nil {
			return nil, &ProviderError{Op: "parse timestamp", Err: fmt.Errorf("%q: %w", stamp, err)}
		}
		watts[t] = w
	}

	c.logger.Info("Fetched solar forecast",
		"points", len(watts),
		"latency_ms", time.Since(start).Milliseconds())

	return &series.Estimate{Day: day, Watts: watts}, nil
}

// formatCoord renders a float without trailing zeros, the way the
// forecast.solar path segments expect.
func formatCoord(v float64) string {
	return trimZeros(fmt.Sprintf("%.6f", v))
}

func trimZeros(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
