package display

import "fmt"

// FormatWatts renders an instantaneous power value for human display.
// Values under a kilowatt keep full precision, larger values switch to
// kilowatts with one decimal.
func FormatWatts(watts float64) string {
	if watts < 0 {
		watts = 0
	}
	if watts < 1000 {
		return fmt.Sprintf("%.0fW", watts)
	}
	return fmt.Sprintf("%.1fkW", watts/1000)
}

// FormatWattHours renders an accumulated energy value for human display.
func FormatWattHours(wattHours float64) string {
	if wattHours < 0 {
		wattHours = 0
	}
	if wattHours < 1000 {
		return fmt.Sprintf("%.0fWh", wattHours)
	}
	return fmt.Sprintf("%.1fkWh", wattHours/1000)
}
