// Package telemetry decodes the JSON payloads delivered by the power
// meters into typed events. Decoding is strict: a payload missing an
// expected field is a decode error surfaced to the ingestion caller, never
// a silently skipped message.
package telemetry

import "fmt"

// Kind identifies one of the four telemetry channels.
type Kind string

const (
	// KindSolar carries instantaneous production power and cumulative
	// production energy for today.
	KindSolar Kind = "solar"

	// KindNetMeter carries instantaneous import and export power at the
	// grid connection.
	KindNetMeter Kind = "net_meter"

	// KindImportTotal carries cumulative imported energy for today.
	KindImportTotal Kind = "import_total"

	// KindExportTotal carries cumulative exported energy for today.
	KindExportTotal Kind = "export_total"
)

// SolarEvent is a production sample: P in W, DC in Wh.
type SolarEvent struct {
	Power       float64 // instantaneous production, W
	EnergyToday float64 // cumulative production today, Wh
}

// NetMeterEvent is a grid connection sample; net power is import minus
// export.
type NetMeterEvent struct {
	ImportPower float64 // W
	ExportPower float64 // W
}

// EnergyTotalEvent is a cumulative energy counter sample, used by both the
// import and export channels.
type EnergyTotalEvent struct {
	EnergyToday float64 // Wh
}

// DecodeError reports a payload that does not match the channel schema.
type DecodeError struct {
	Kind  Kind
	Field string
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("telemetry: %s payload missing field %q", e.Kind, e.Field)
	}
	return fmt.Sprintf("telemetry: malformed %s payload: %v", e.Kind, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
