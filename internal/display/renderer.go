package display

import (
	"math"

	"github.com/heliodash/heliodash/internal/logging"
	"github.com/heliodash/heliodash/internal/series"
)

// Renderer consumes an accumulator snapshot whenever a refresh is due.
// Implementations draw a dashboard, push a frame to a display, or simply
// log the state of the day.
type Renderer interface {
	Render(snap series.Snapshot) error
}

// Options control presentation details shared by renderers.
type Options struct {
	// HighExportWatts marks the snapshot as exporting heavily when the
	// export power reading exceeds it.
	HighExportWatts float64

	// MaxChartPoints bounds the day series handed to chart output.
	// Zero disables downsampling.
	MaxChartPoints int
}

// HighExport reports whether the snapshot's export power is strictly above
// the configured threshold. The export reading alone decides; simultaneous
// import does not cancel it out.
func (o Options) HighExport(snap series.Snapshot) bool {
	if o.HighExportWatts <= 0 {
		return false
	}
	return snap.Readings.ExportCurrent > o.HighExportWatts
}

// LogRenderer writes a one-line summary of each refresh to the log. It
// doubles as the fallback when no display hardware is attached.
type LogRenderer struct {
	opts   Options
	logger *logging.Logger
}

func NewLogRenderer(opts Options, logger *logging.Logger) *LogRenderer {
	if logger == nil {
		logger = logging.Global()
	}
	return &LogRenderer{opts: opts, logger: logger}
}

func (r *LogRenderer) Render(snap series.Snapshot) error {
	day := Downsample(snap.Day, r.opts.MaxChartPoints)
	direction := "import"
	if snap.Readings.NetCurrent < 0 {
		direction = "export"
	}
	r.logger.Info("Refresh",
		"solar", FormatWatts(snap.Readings.SolarCurrent),
		"net", FormatWatts(math.Abs(snap.Readings.NetCurrent)),
		"direction", direction,
		"solar_today", FormatWattHours(snap.Readings.SolarToday),
		"import_today", FormatWattHours(snap.Readings.ImportToday),
		"export_today", FormatWattHours(snap.Readings.ExportToday),
		"points", len(day),
		"forecast_points", len(snap.Forecast),
		"high_export", r.opts.HighExport(snap))
	return nil
}
