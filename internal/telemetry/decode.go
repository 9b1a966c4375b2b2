package telemetry

import "encoding/json"

// Wire field names used by the meters.
const (
	fieldPower       = "P"
	fieldEnergyToday = "DC"
	fieldImportPower = "PI"
	fieldExportPower = "PE"
)

// payload is the raw decoded form; pointers distinguish absent fields from
// zero values.
type payload struct {
	Power       *float64 `json:"P"`
	EnergyToday *float64 `json:"DC"`
	ImportPower *float64 `json:"PI"`
	ExportPower *float64 `json:"PE"`
}

func decodePayload(kind Kind, data []byte) (*payload, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &DecodeError{Kind: kind, Cause: err}
	}
	return &p, nil
}

func (p *payload) require(kind Kind, field string, v *float64) (float64, error) {
	if v == nil {
		return 0, &DecodeError{Kind: kind, Field: field}
	}
	return *v, nil
}

// DecodeSolar decodes a solar channel payload.
func DecodeSolar(data []byte) (*SolarEvent, error) {
	p, err := decodePayload(KindSolar, data)
	if err != nil {
		return nil, err
	}

	power, err := p.require(KindSolar, fieldPower, p.Power)
	if err != nil {
		return nil, err
	}

	energy, err := p.require(KindSolar, fieldEnergyToday, p.EnergyToday)
	if err != nil {
		return nil, err
	}

	return &SolarEvent{Power: power, EnergyToday: energy}, nil
}

// DecodeNetMeter decodes a net meter channel payload.
func DecodeNetMeter(data []byte) (*NetMeterEvent, error) {
	p, err := decodePayload(KindNetMeter, data)
	if err != nil {
		return nil, err
	}

	imp, err := p.require(KindNetMeter, fieldImportPower, p.ImportPower)
	if err != nil {
		return nil, err
	}

	exp, err := p.require(KindNetMeter, fieldExportPower, p.ExportPower)
	if err != nil {
		return nil, err
	}

	return &NetMeterEvent{ImportPower: imp, ExportPower: exp}, nil
}

// DecodeEnergyTotal decodes an import or export total channel payload; kind
// must be KindImportTotal or KindExportTotal and is used only for error
// reporting.
func DecodeEnergyTotal(kind Kind, data []byte) (*EnergyTotalEvent, error) {
	p, err := decodePayload(kind, data)
	if err != nil {
		return nil, err
	}

	energy, err := p.require(kind, fieldEnergyToday, p.EnergyToday)
	if err != nil {
		return nil, err
	}

	return &EnergyTotalEvent{EnergyToday: energy}, nil
}
