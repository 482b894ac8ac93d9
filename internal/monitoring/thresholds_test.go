package monitoring

import (
	"testing"

	"aircraft-monitor/internal/alerts"
	"aircraft-monitor/internal/config"
	"aircraft-monitor/internal/sensors"
)

func ptr(v float64) *float64 { return &v }

func tempReading(value float64) sensors.SensorReading {
	return sensors.SensorReading{
		SensorID:   "N100AM_engine_temperature",
		SensorType: sensors.EngineTemperature,
		AircraftID: "N100AM",
		Value:      value,
		Unit:       "C",
	}
}

func TestThresholdCriticalHighBeforeWarningHigh(t *testing.T) {
	lim := config.Limits{CriticalHigh: ptr(95), WarningHigh: ptr(85)}

	a := evaluateThresholds(tempReading(96), lim)
	if a == nil {
		t.Fatal("Expected alert above critical limit, got none")
	}
	if a.Severity != alerts.SeverityCritical {
		t.Errorf("Expected critical, got %s", a.Severity)
	}
	if a.Threshold == nil || *a.Threshold != 95 {
		t.Errorf("Expected threshold 95, got %v", a.Threshold)
	}

	// Exactly at the critical limit still matches critical first.
	if a := evaluateThresholds(tempReading(95), lim); a == nil || a.Severity != alerts.SeverityCritical {
		t.Errorf("Expected critical at exact limit, got %+v", a)
	}

	if a := evaluateThresholds(tempReading(90), lim); a == nil || a.Severity != alerts.SeverityWarning {
		t.Errorf("Expected warning between limits, got %+v", a)
	}

	if a := evaluateThresholds(tempReading(80), lim); a != nil {
		t.Errorf("Expected no alert below warning limit, got %+v", a)
	}
}

func TestThresholdLowSidePriority(t *testing.T) {
	lim := config.Limits{CriticalLow: ptr(15), WarningLow: ptr(25)}
	r := sensors.SensorReading{SensorType: sensors.OilPressure, AircraftID: "N100AM", Unit: "PSI"}

	r.Value = 14
	if a := evaluateThresholds(r, lim); a == nil || a.Severity != alerts.SeverityCritical {
		t.Errorf("Expected critical low, got %+v", a)
	}

	r.Value = 20
	if a := evaluateThresholds(r, lim); a == nil || a.Severity != alerts.SeverityWarning {
		t.Errorf("Expected warning low, got %+v", a)
	}

	r.Value = 40
	if a := evaluateThresholds(r, lim); a != nil {
		t.Errorf("Expected no alert in normal range, got %+v", a)
	}
}

func TestThresholdSkipsUnsetLimits(t *testing.T) {
	// Only a warning-low limit configured, as for hydraulic pressure.
	lim := config.Limits{WarningLow: ptr(2800)}
	r := sensors.SensorReading{SensorType: sensors.HydraulicPressure, AircraftID: "N100AM", Value: 5000}

	if a := evaluateThresholds(r, lim); a != nil {
		t.Errorf("Expected unset high limits to be skipped, got %+v", a)
	}

	r.Value = 2700
	a := evaluateThresholds(r, lim)
	if a == nil || a.Severity != alerts.SeverityWarning {
		t.Errorf("Expected warning from the one configured limit, got %+v", a)
	}
}
