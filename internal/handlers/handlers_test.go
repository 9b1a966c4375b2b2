package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/heliodash/heliodash/internal/display"
	"github.com/heliodash/heliodash/internal/logging"
	"github.com/heliodash/heliodash/internal/models"
	"github.com/heliodash/heliodash/internal/series"
)

func newTestHandler(t *testing.T) (*Handler, *series.Accumulator) {
	t.Helper()

	acc, err := series.New(series.Config{CapacityWatts: 8000, RefreshMinutes: 1}, nil, nil)
	if err != nil {
		t.Fatalf("Failed to create accumulator: %v", err)
	}

	opts := display.Options{HighExportWatts: 2000, MaxChartPoints: 100}
	return New(logging.NewDevelopment(), acc, opts, "1.0.0"), acc
}

func TestHandler_Health(t *testing.T) {
	handler, _ := newTestHandler(t)

	app := fiber.New()
	app.Get("/health", handler.Health)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	var healthResp models.HealthResponse
	if err := json.Unmarshal(body, &healthResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if healthResp.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", healthResp.Status)
	}

	if healthResp.Version != "1.0.0" {
		t.Errorf("Expected version '1.0.0', got '%s'", healthResp.Version)
	}

	if healthResp.Timestamp == "" {
		t.Error("Expected non-empty timestamp")
	}
}

func TestHandler_NotFound(t *testing.T) {
	handler, _ := newTestHandler(t)

	app := fiber.New()
	app.Use(handler.NotFound)

	req := httptest.NewRequest("GET", "/nonexistent", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected status %d, got %d", fiber.StatusNotFound, resp.StatusCode)
	}
}

func TestHandler_Snapshot(t *testing.T) {
	handler, acc := newTestHandler(t)

	acc.Ingest(time.Date(2023, 2, 1, 12, 0, 0, 0, time.UTC), 4000)
	acc.SetNetMeter(0, 2500)

	app := fiber.New()
	app.Get("/v1/snapshot", handler.Snapshot)

	req := httptest.NewRequest("GET", "/v1/snapshot", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	var snapResp models.SnapshotResponse
	if err := json.Unmarshal(body, &snapResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(snapResp.Day) != 1 {
		t.Errorf("Expected 1 day sample, got %d", len(snapResp.Day))
	}

	if snapResp.Readings.SolarCurrent != 4000 {
		t.Errorf("Expected solar current 4000, got %v", snapResp.Readings.SolarCurrent)
	}

	if !snapResp.HighExport {
		t.Error("Expected high export flag with 2500W export")
	}
}

func TestHandler_Readings(t *testing.T) {
	handler, acc := newTestHandler(t)

	acc.Ingest(time.Date(2023, 2, 1, 12, 0, 0, 0, time.UTC), 1500)
	acc.SetSolarEnergyToday(12400)
	acc.SetNetMeter(300, 0)

	app := fiber.New()
	app.Get("/v1/readings", handler.Readings)

	req := httptest.NewRequest("GET", "/v1/readings", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	var readingsResp models.ReadingsResponse
	if err := json.Unmarshal(body, &readingsResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if readingsResp.SolarText != "1.5kW" {
		t.Errorf("Expected solar text '1.5kW', got '%s'", readingsResp.SolarText)
	}

	if readingsResp.SolarToday != "12.4kWh" {
		t.Errorf("Expected solar today '12.4kWh', got '%s'", readingsResp.SolarToday)
	}

	if readingsResp.NetText != "300W" {
		t.Errorf("Expected net text '300W', got '%s'", readingsResp.NetText)
	}

	if readingsResp.HighExport {
		t.Error("Did not expect high export flag while importing")
	}
}
