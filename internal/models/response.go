package models

import "github.com/heliodash/heliodash/internal/series"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	UptimeSec int64  `json:"uptime_sec"`
}

// ErrorDetail contains error information in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// SnapshotResponse wraps the accumulator state for the status API. The day
// series may be downsampled for chart consumption.
type SnapshotResponse struct {
	series.Snapshot
	HighExport bool `json:"high_export"`
}

// ReadingsResponse summarizes the scalar meter values with display strings.
type ReadingsResponse struct {
	Readings    series.Readings `json:"readings"`
	SolarText   string          `json:"solar_text"`
	NetText     string          `json:"net_text"`
	SolarToday  string          `json:"solar_today_text"`
	ImportToday string          `json:"import_today_text"`
	ExportToday string          `json:"export_today_text"`
	HighExport  bool            `json:"high_export"`
}
