package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/heliodash/heliodash/internal/display"
	"github.com/heliodash/heliodash/internal/models"
)

// Snapshot returns the full accumulator state: the day series, hourly
// means, the forecast overlay, and the scalar readings. The day series is
// downsampled to the configured chart width.
func (h *Handler) Snapshot(c *fiber.Ctx) error {
	snap := h.acc.Snapshot()
	snap.Day = display.Downsample(snap.Day, h.opts.MaxChartPoints)

	return c.JSON(models.SnapshotResponse{
		Snapshot:   snap,
		HighExport: h.opts.HighExport(snap),
	})
}

// Readings returns the scalar meter values with formatted display strings.
func (h *Handler) Readings(c *fiber.Ctx) error {
	snap := h.acc.Snapshot()
	r := snap.Readings

	return c.JSON(models.ReadingsResponse{
		Readings:    r,
		SolarText:   display.FormatWatts(r.SolarCurrent),
		NetText:     display.FormatWatts(abs(r.NetCurrent)),
		SolarToday:  display.FormatWattHours(r.SolarToday),
		ImportToday: display.FormatWattHours(r.ImportToday),
		ExportToday: display.FormatWattHours(r.ExportToday),
		HighExport:  h.opts.HighExport(snap),
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
