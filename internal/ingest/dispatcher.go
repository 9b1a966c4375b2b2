package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/heliodash/heliodash/internal/config"
	"github.com/heliodash/heliodash/internal/display"
	"github.com/heliodash/heliodash/internal/logging"
	"github.com/heliodash/heliodash/internal/metrics"
	"github.com/heliodash/heliodash/internal/series"
	"github.com/heliodash/heliodash/internal/telemetry"
)

// Dispatcher routes raw broker messages to the accumulator. Each configured
// topic carries one telemetry channel; the solar channel additionally drives
// display refreshes.
type Dispatcher struct {
	topics   config.TopicsConfig
	acc      *series.Accumulator
	renderer display.Renderer
	loc      *time.Location
	now      func() time.Time
	logger   *logging.Logger
}

func NewDispatcher(topics config.TopicsConfig, acc *series.Accumulator, renderer display.Renderer, loc *time.Location, logger *logging.Logger) *Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &Dispatcher{
		topics:   topics,
		acc:      acc,
		renderer: renderer,
		loc:      loc,
		now:      time.Now,
		logger:   logger.With("component", "ingest"),
	}
}

// Handle processes one broker message. It satisfies subscriber.MessageHandler.
func (d *Dispatcher) Handle(ctx context.Context, topic string, data []byte) error {
	switch topic {
	case d.topics.Solar:
		return d.handleSolar(data)
	case d.topics.NetMeter:
		return d.handleNetMeter(data)
	case d.topics.ImportTotal:
		return d.handleEnergyTotal(telemetry.KindImportTotal, data)
	case d.topics.ExportTotal:
		return d.handleEnergyTotal(telemetry.KindExportTotal, data)
	default:
		return fmt.Errorf("message on unrouted topic %q", topic)
	}
}

func (d *Dispatcher) handleSolar(data []byte) error {
	ev, err := telemetry.DecodeSolar(data)
	if err != nil {
		metrics.DecodeFailed(string(telemetry.KindSolar))
		return err
	}

	metrics.SampleIngested(string(telemetry.KindSolar))
	metrics.SetSolarPower(ev.Power)

	d.acc.SetSolarEnergyToday(ev.EnergyToday)

	if d.acc.Ingest(d.now().In(d.loc), ev.Power) {
		metrics.RefreshSignaled()
		d.render()
	}
	return nil
}

func (d *Dispatcher) handleNetMeter(data []byte) error {
	ev, err := telemetry.DecodeNetMeter(data)
	if err != nil {
		metrics.DecodeFailed(string(telemetry.KindNetMeter))
		return err
	}

	metrics.SampleIngested(string(telemetry.KindNetMeter))
	d.acc.SetNetMeter(ev.ImportPower, ev.ExportPower)
	return nil
}

func (d *Dispatcher) handleEnergyTotal(kind telemetry.Kind, data []byte) error {
	ev, err := telemetry.DecodeEnergyTotal(kind, data)
	if err != nil {
		metrics.DecodeFailed(string(kind))
		return err
	}

	metrics.SampleIngested(string(kind))
	if kind == telemetry.KindImportTotal {
		d.acc.SetImportEnergyToday(ev.EnergyToday)
	} else {
		d.acc.SetExportEnergyToday(ev.EnergyToday)
	}
	return nil
}

// render pushes the current snapshot to the renderer. Failures are logged
// and counted but never fail the message: a broken display must not stall
// the telemetry stream.
func (d *Dispatcher) render() {
	if d.renderer == nil {
		return
	}

	if err := d.renderer.Render(d.acc.Snapshot()); err != nil {
		metrics.RenderFailed()
		d.logger.Error("Render failed", "error", err)
	}
}
