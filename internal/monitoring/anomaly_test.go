package monitoring

import (
	"testing"
	"time"

	"aircraft-monitor/internal/alerts"
	"aircraft-monitor/internal/config"
	"aircraft-monitor/internal/sensors"
)

func anomalyCfg() config.AnomalyConfig {
	return config.AnomalyConfig{
		MinReadings:     30,
		BaselineWindow:  100,
		ZScoreThreshold: 3.5,
		TrendWindow:     10,
		TrendFactor:     0.5,
	}
}

func windowOf(values []float64) []sensors.SensorReading {
	base := time.Now().UTC().Add(-time.Hour)
	window := make([]sensors.SensorReading, len(values))
	for i, v := range values {
		window[i] = sensors.SensorReading{
			SensorType: sensors.EngineTemperature,
			AircraftID: "N100AM",
			Value:      v,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		}
	}
	return window
}

func TestAnomalyRequiresMinimumReadings(t *testing.T) {
	values := make([]float64, 29)
	for i := range values {
		values[i] = 10
	}
	values[28] = 1000 // extreme current reading

	window := windowOf(values)
	if a := detectAnomaly(window[28], window, anomalyCfg()); a != nil {
		t.Errorf("Expected no detection below 30 readings, got %+v", a)
	}
}

func TestAnomalySkipsZeroStddev(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 10
	}

	window := windowOf(values)
	if a := detectAnomaly(window[29], window, anomalyCfg()); a != nil {
		t.Errorf("Expected no detection on zero stddev, got %+v", a)
	}
}

func TestAnomalyZScoreOutlier(t *testing.T) {
	// Stable alternating baseline, then a far outlier as the current reading.
	values := make([]float64, 30)
	for i := 0; i < 29; i++ {
		if i%2 == 0 {
			values[i] = 9
		} else {
			values[i] = 11
		}
	}
	values[29] = 100

	window := windowOf(values)
	a := detectAnomaly(window[29], window, anomalyCfg())
	if a == nil {
		t.Fatal("Expected z-score anomaly, got none")
	}
	if a.Severity != alerts.SeverityWarning {
		t.Errorf("Expected warning severity, got %s", a.Severity)
	}
	if a.Threshold == nil {
		t.Error("Expected anomaly alert to carry the mean+2*stddev threshold")
	}
}

func TestAnomalyTakesPrecedenceOverTrend(t *testing.T) {
	// A single sharp jump also satisfies the trend test, but the outlier
	// check runs first.
	values := make([]float64, 30)
	for i := 0; i < 29; i++ {
		values[i] = 10
	}
	values[29] = 110

	window := windowOf(values)
	a := detectAnomaly(window[29], window, anomalyCfg())
	if a == nil {
		t.Fatal("Expected an alert, got none")
	}
	if a.Severity != alerts.SeverityWarning {
		t.Errorf("Expected the anomaly (warning), got %s severity", a.Severity)
	}
}

func TestTrendDetection(t *testing.T) {
	// Noisy baseline with a climb across the last ten readings that stays
	// inside the z-score envelope but exceeds half a deviation per step.
	values := make([]float64, 30)
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			values[i] = 9
		} else {
			values[i] = 11
		}
	}
	values[20] = 6
	for i := 21; i < 29; i++ {
		if i%2 == 1 {
			values[i] = 9
		} else {
			values[i] = 11
		}
	}
	values[29] = 14

	window := windowOf(values)
	a := detectAnomaly(window[29], window, anomalyCfg())
	if a == nil {
		t.Fatal("Expected trend alert, got none")
	}
	if a.Severity != alerts.SeverityInfo {
		t.Errorf("Expected info severity for trend, got %s", a.Severity)
	}
	if a.Threshold != nil {
		t.Errorf("Expected trend alert without threshold, got %v", *a.Threshold)
	}
}

func TestNoAlertOnStableSignal(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		if i%2 == 0 {
			values[i] = 9.8
		} else {
			values[i] = 10.2
		}
	}

	window := windowOf(values)
	if a := detectAnomaly(window[39], window, anomalyCfg()); a != nil {
		t.Errorf("Expected no alert on stable signal, got %+v", a)
	}
}
