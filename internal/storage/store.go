package storage

import "aircraft-monitor/internal/sensors"

// ReadingStore is the persistence boundary for accepted readings. The
// monitoring core only ever hands over drained batches; any database
// behind this interface is an implementation detail.
type ReadingStore interface {
	SaveBatch(readings []sensors.SensorReading) error
	Recent(limit int) []sensors.SensorReading
	ByAircraft(aircraftID string, limit int) []sensors.SensorReading
}
