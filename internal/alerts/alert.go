package alerts

import (
	"time"

	"github.com/google/uuid"

	"aircraft-monitor/internal/sensors"
)

// Severity orders alert levels from informational to emergency.
type Severity string

const (
	SeverityInfo      Severity = "info"
	SeverityWarning   Severity = "warning"
	SeverityCritical  Severity = "critical"
	SeverityEmergency Severity = "emergency"
)

var severityRank = map[Severity]int{
	SeverityInfo:      0,
	SeverityWarning:   1,
	SeverityCritical:  2,
	SeverityEmergency: 3,
}

// AtLeast reports whether s is as severe as min or more.
func (s Severity) AtLeast(min Severity) bool {
	return severityRank[s] >= severityRank[min]
}

// Alert is a raised monitoring condition for one aircraft, optionally tied
// to a sensor type. An alert without a sensor type is tracked under the
// aircraft's "general" key.
type Alert struct {
	ID             string             `json:"id"`
	AircraftID     string             `json:"aircraft_id"`
	SensorType     sensors.SensorType `json:"sensor_type,omitempty"`
	Severity       Severity           `json:"severity"`
	Title          string             `json:"title"`
	Message        string             `json:"message"`
	Value          float64            `json:"value"`
	Threshold      *float64           `json:"threshold,omitempty"`
	Acknowledged   bool               `json:"acknowledged"`
	AcknowledgedAt *time.Time         `json:"acknowledged_at,omitempty"`
	Resolved       bool               `json:"resolved"`
	ResolvedAt     *time.Time         `json:"resolved_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// New constructs an alert with a generated id and creation timestamp.
func New(aircraftID string, sensorType sensors.SensorType, severity Severity,
	title, message string, value float64, threshold *float64) *Alert {
	return &Alert{
		ID:         uuid.NewString(),
		AircraftID: aircraftID,
		SensorType: sensorType,
		Severity:   severity,
		Title:      title,
		Message:    message,
		Value:      value,
		Threshold:  threshold,
		CreatedAt:  time.Now().UTC(),
	}
}

// Key identifies the active-alert slot this alert occupies. At most one
// active alert is tracked per key; a newer alert overwrites it.
func (a *Alert) Key() string {
	if a.SensorType == "" {
		return a.AircraftID + "_general"
	}
	return a.AircraftID + "_" + string(a.SensorType)
}
