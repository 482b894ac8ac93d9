package monitoring

import (
	"fmt"
	"math"

	"aircraft-monitor/internal/alerts"
	"aircraft-monitor/internal/config"
	"aircraft-monitor/internal/sensors"
)

// detectAnomaly runs the statistical checks for a reading against its
// history window (which already contains the reading). It needs at least
// MinReadings accumulated and uses at most the most recent BaselineWindow
// values for the baseline. A zero standard deviation yields no signal.
//
// Two independent checks run, outlier first:
//   - z-score: |value - mean| / stddev above ZScoreThreshold raises a
//     warning, with the threshold field set to mean + 2*stddev
//   - trend: the average per-step delta over the last TrendWindow readings
//     exceeding TrendFactor*stddev raises an info alert with direction
//
// At most one alert is returned per call; the outlier takes precedence.
func detectAnomaly(r sensors.SensorReading, window []sensors.SensorReading, cfg config.AnomalyConfig) *alerts.Alert {
	if len(window) < cfg.MinReadings {
		return nil
	}

	start := len(window) - cfg.BaselineWindow
	if start < 0 {
		start = 0
	}
	values := make([]float64, 0, len(window)-start)
	for _, entry := range window[start:] {
		values = append(values, entry.Value)
	}

	mean := average(values)
	std := stddev(values)
	if std == 0 {
		return nil
	}

	zScore := math.Abs(r.Value-mean) / std
	if zScore > cfg.ZScoreThreshold {
		threshold := mean + 2*std
		return alerts.New(r.AircraftID, r.SensorType, alerts.SeverityWarning,
			fmt.Sprintf("Anomaly Detected: %s", r.SensorType),
			fmt.Sprintf("Unusual reading detected. Value: %.2f, Expected range: %.2f +/- %.2f",
				r.Value, mean, 2*std),
			r.Value, &threshold)
	}

	if len(window) >= cfg.TrendWindow && cfg.TrendWindow > 0 {
		recent := window[len(window)-cfg.TrendWindow:]
		delta := (recent[len(recent)-1].Value - recent[0].Value) / float64(cfg.TrendWindow)

		if math.Abs(delta) > std*cfg.TrendFactor {
			direction := "increasing"
			if delta < 0 {
				direction = "decreasing"
			}
			return alerts.New(r.AircraftID, r.SensorType, alerts.SeverityInfo,
				fmt.Sprintf("Trend Alert: %s", r.SensorType),
				fmt.Sprintf("%s is rapidly %s. Monitor closely.", r.SensorType, direction),
				r.Value, nil)
		}
	}

	return nil
}
