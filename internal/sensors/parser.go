package sensors

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ParseError describes a malformed ingestion message. Parse failures are
// logged and the message dropped; they never abort the ingestion loop.
type ParseError struct {
	Topic  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Topic, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Topic, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

type rawPayload struct {
	SensorID  string                 `json:"sensor_id"`
	Value     *float64               `json:"value"`
	Unit      string                 `json:"unit"`
	Timestamp string                 `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// ParseReading decodes a message published on aircraft/{id}/sensors/{type}
// into a SensorReading. The payload must be JSON with a numeric "value";
// sensor_id, unit, timestamp and metadata are optional. A missing timestamp
// defaults to the receipt time.
func ParseReading(topic string, payload []byte) (SensorReading, error) {
	parts := strings.Split(topic, "/")
	if len(parts) < 4 || parts[0] != "aircraft" || parts[2] != "sensors" {
		return SensorReading{}, &ParseError{Topic: topic, Reason: "topic does not match aircraft/{id}/sensors/{type}"}
	}
	aircraftID := parts[1]

	sensorType, err := ParseSensorType(parts[3])
	if err != nil {
		return SensorReading{}, &ParseError{Topic: topic, Reason: "invalid sensor type", Err: err}
	}

	var raw rawPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return SensorReading{}, &ParseError{Topic: topic, Reason: "malformed payload", Err: err}
	}
	if raw.Value == nil {
		return SensorReading{}, &ParseError{Topic: topic, Reason: "payload missing numeric value"}
	}

	ts := time.Now().UTC()
	if raw.Timestamp != "" {
		ts, err = time.Parse(time.RFC3339, raw.Timestamp)
		if err != nil {
			return SensorReading{}, &ParseError{Topic: topic, Reason: "malformed timestamp", Err: err}
		}
	}

	sensorID := raw.SensorID
	if sensorID == "" {
		sensorID = fmt.Sprintf("%s_%s", aircraftID, sensorType)
	}

	return SensorReading{
		SensorID:   sensorID,
		SensorType: sensorType,
		AircraftID: aircraftID,
		Value:      *raw.Value,
		Unit:       raw.Unit,
		Timestamp:  ts,
		Metadata:   raw.Metadata,
	}, nil
}
