package sensors

import (
	"fmt"
	"time"
)

// SensorType identifies one of the sensor classes fitted to an aircraft.
type SensorType string

const (
	EngineTemperature SensorType = "engine_temperature"
	OilPressure       SensorType = "oil_pressure"
	FuelLevel         SensorType = "fuel_level"
	HydraulicPressure SensorType = "hydraulic_pressure"
	Vibration         SensorType = "vibration"
	Altitude          SensorType = "altitude"
	Airspeed          SensorType = "airspeed"
	GPS               SensorType = "gps"
	LandingGear       SensorType = "landing_gear"
	BrakeTemperature  SensorType = "brake_temperature"
)

var sensorTypes = map[SensorType]bool{
	EngineTemperature: true,
	OilPressure:       true,
	FuelLevel:         true,
	HydraulicPressure: true,
	Vibration:         true,
	Altitude:          true,
	Airspeed:          true,
	GPS:               true,
	LandingGear:       true,
	BrakeTemperature:  true,
}

// ParseSensorType validates a sensor type token from a topic path.
func ParseSensorType(s string) (SensorType, error) {
	st := SensorType(s)
	if !sensorTypes[st] {
		return "", fmt.Errorf("unknown sensor type %q", s)
	}
	return st, nil
}

// SensorReading is a single timestamped measurement from one aircraft sensor.
// Readings are immutable once constructed.
type SensorReading struct {
	SensorID   string                 `json:"sensor_id"`
	SensorType SensorType             `json:"sensor_type"`
	AircraftID string                 `json:"aircraft_id"`
	Value      float64                `json:"value"`
	Unit       string                 `json:"unit"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
