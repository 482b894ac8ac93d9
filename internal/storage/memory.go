package storage

import (
	"sync"

	"aircraft-monitor/internal/sensors"
)

const defaultCapacity = 10000

// MemoryStore keeps the most recent readings in a capped in-memory buffer,
// oldest dropped first.
type MemoryStore struct {
	mu       sync.RWMutex
	buffer   []sensors.SensorReading
	capacity int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{capacity: defaultCapacity}
}

func (s *MemoryStore) SaveBatch(readings []sensors.SensorReading) error {
	if len(readings) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer = append(s.buffer, readings...)
	if excess := len(s.buffer) - s.capacity; excess > 0 {
		s.buffer = s.buffer[excess:]
	}
	return nil
}

func (s *MemoryStore) Recent(limit int) []sensors.SensorReading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.buffer) {
		limit = len(s.buffer)
	}
	out := make([]sensors.SensorReading, limit)
	copy(out, s.buffer[len(s.buffer)-limit:])
	return out
}

func (s *MemoryStore) ByAircraft(aircraftID string, limit int) []sensors.SensorReading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []sensors.SensorReading
	for i := len(s.buffer) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if s.buffer[i].AircraftID == aircraftID {
			out = append(out, s.buffer[i])
		}
	}
	// newest-first scan, return oldest-first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
