package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/heliodash/heliodash/internal/display"
	"github.com/heliodash/heliodash/internal/logging"
	"github.com/heliodash/heliodash/internal/series"
)

// Simulated telemetry generator. Publishes a plausible solar day on the four
// meter topics so the dashboard can be exercised without real hardware.

const (
	sunriseHour = 7.0
	sunsetHour  = 21.0
)

type solarPayload struct {
	Power       float64 `json:"P"`
	EnergyToday float64 `json:"DC"`
}

type netMeterPayload struct {
	ImportPower float64 `json:"PI"`
	ExportPower float64 `json:"PE"`
}

type energyTotalPayload struct {
	EnergyToday float64 `json:"DC"`
}

// state integrates energies across ticks.
type state struct {
	solarWh  float64
	importWh float64
	exportWh float64
	lastTick time.Time
}

// solarPower models a clear-sky production bell between sunrise and sunset
// with a little cloud noise.
func solarPower(now time.Time, capacity float64) float64 {
	h := float64(now.Hour()) + float64(now.Minute())/60
	if h < sunriseHour || h > sunsetHour {
		return 0
	}

	phase := (h - sunriseHour) / (sunsetHour - sunriseHour)
	clearSky := capacity * math.Sin(math.Pi*phase)

	cloud := 0.85 + 0.15*rand.Float64()
	return clearSky * cloud
}

func publish(client mqtt.Client, topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	token := client.Publish(topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

// runDirect replays a compressed synthetic day through an in-process
// accumulator and log renderer, without any broker. Useful for eyeballing
// the display pipeline.
func runDirect(capacity float64, stepMinutes int) error {
	logger := logging.NewDevelopment()

	acc, err := series.New(series.Config{
		CapacityWatts:  capacity,
		RefreshMinutes: 1,
	}, nil, logger)
	if err != nil {
		return err
	}

	renderer := display.NewLogRenderer(display.Options{HighExportWatts: 2000}, logger)

	day := time.Date(2023, 6, 21, 0, 0, 0, 0, time.Local)
	for minute := 0; minute < 24*60; minute += stepMinutes {
		ts := day.Add(time.Duration(minute) * time.Minute)
		if acc.Ingest(ts, solarPower(ts, capacity)) {
			if err := renderer.Render(acc.Snapshot()); err != nil {
				return err
			}
		}
	}

	snap := acc.Snapshot()
	fmt.Printf("Simulated day complete: %d samples, peak hour mean %s\n",
		len(snap.Day), display.FormatWatts(maxOf(snap.HourlyMeans[:])))
	return nil
}

func maxOf(values []float64) float64 {
	best := 0.0
	for _, v := range values {
		if v > best {
			best = v
		}
	}
	return best
}

func main() {
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker URL")
	direct := flag.Bool("direct", false, "Replay a synthetic day in-process instead of publishing")
	step := flag.Int("step", 5, "Minutes between samples in direct mode")
	interval := flag.Duration("interval", 5*time.Second, "Publish interval")
	capacity := flag.Float64("capacity", 8000, "Installation capacity in W")
	baseLoad := flag.Float64("load", 400, "Household base load in W")
	solarTopic := flag.String("solar-topic", "pvpanelendak/PUB/CH1", "Solar channel topic")
	netTopic := flag.String("net-topic", "244cab25438c/PUB/CH0", "Net meter channel topic")
	importTopic := flag.String("import-topic", "244cab25438c/PUB/CH2", "Import total channel topic")
	exportTopic := flag.String("export-topic", "244cab25438c/PUB/CH3", "Export total channel topic")
	flag.Parse()

	if *direct {
		if err := runDirect(*capacity, *step); err != nil {
			fmt.Fprintf(os.Stderr, "Direct simulation failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := mqtt.NewClientOptions().
		AddBroker(*broker).
		SetClientID(fmt.Sprintf("heliodash-simulate-%s", uuid.New().String()[:8]))

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to %s: %v\n", *broker, token.Error())
		os.Exit(1)
	}
	defer client.Disconnect(250)

	fmt.Printf("Publishing simulated telemetry to %s every %s\n", *broker, *interval)

	st := state{lastTick: time.Now()}
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			fmt.Println("Simulator stopped")
			return

		case now := <-ticker.C:
			// Reset integrated energies at midnight.
			if now.Day() != st.lastTick.Day() {
				st.solarWh, st.importWh, st.exportWh = 0, 0, 0
			}

			solar := solarPower(now, *capacity)
			load := *baseLoad + 200*rand.Float64()

			var importW, exportW float64
			if load > solar {
				importW = load - solar
			} else {
				exportW = solar - load
			}

			hours := now.Sub(st.lastTick).Hours()
			st.solarWh += solar * hours
			st.importWh += importW * hours
			st.exportWh += exportW * hours
			st.lastTick = now

			msgs := []struct {
				topic   string
				payload interface{}
			}{
				{*solarTopic, solarPayload{Power: solar, EnergyToday: st.solarWh}},
				{*netTopic, netMeterPayload{ImportPower: importW, ExportPower: exportW}},
				{*importTopic, energyTotalPayload{EnergyToday: st.importWh}},
				{*exportTopic, energyTotalPayload{EnergyToday: st.exportWh}},
			}

			for _, m := range msgs {
				if err := publish(client, m.topic, m.payload); err != nil {
					fmt.Fprintf(os.Stderr, "Publish to %s failed: %v\n", m.topic, err)
				}
			}
		}
	}
}
