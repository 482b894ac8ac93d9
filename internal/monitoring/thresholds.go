package monitoring

import (
	"fmt"

	"aircraft-monitor/internal/alerts"
	"aircraft-monitor/internal/config"
	"aircraft-monitor/internal/sensors"
)

// evaluateThresholds checks a reading against its sensor type's static
// limits. Checks run in fixed priority order: critical-high, warning-high,
// critical-low, warning-low; unset limits are skipped and the first match
// wins. Returns nil when no limit is crossed.
func evaluateThresholds(r sensors.SensorReading, lim config.Limits) *alerts.Alert {
	if lim.CriticalHigh != nil && r.Value >= *lim.CriticalHigh {
		return alerts.New(r.AircraftID, r.SensorType, alerts.SeverityCritical,
			fmt.Sprintf("Critical %s Alert", r.SensorType),
			fmt.Sprintf("%s has reached critical level: %.2f %s", r.SensorType, r.Value, r.Unit),
			r.Value, lim.CriticalHigh)
	}

	if lim.WarningHigh != nil && r.Value >= *lim.WarningHigh {
		return alerts.New(r.AircraftID, r.SensorType, alerts.SeverityWarning,
			fmt.Sprintf("%s Warning", r.SensorType),
			fmt.Sprintf("%s is elevated: %.2f %s", r.SensorType, r.Value, r.Unit),
			r.Value, lim.WarningHigh)
	}

	if lim.CriticalLow != nil && r.Value <= *lim.CriticalLow {
		return alerts.New(r.AircraftID, r.SensorType, alerts.SeverityCritical,
			fmt.Sprintf("Critical Low %s", r.SensorType),
			fmt.Sprintf("%s critically low: %.2f %s", r.SensorType, r.Value, r.Unit),
			r.Value, lim.CriticalLow)
	}

	if lim.WarningLow != nil && r.Value <= *lim.WarningLow {
		return alerts.New(r.AircraftID, r.SensorType, alerts.SeverityWarning,
			fmt.Sprintf("Low %s Warning", r.SensorType),
			fmt.Sprintf("%s is low: %.2f %s", r.SensorType, r.Value, r.Unit),
			r.Value, lim.WarningLow)
	}

	return nil
}
