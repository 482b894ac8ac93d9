package monitoring

import (
	"sync"
	"time"

	"aircraft-monitor/internal/sensors"
)

const historyRetention = 24 * time.Hour

type historyKey struct {
	aircraftID string
	sensorType sensors.SensorType
}

// History keeps a bounded sliding time window of readings per
// (aircraft, sensor type) key. Entries older than the retention span are
// pruned lazily on each insert; windows for different keys never interact.
// The key set is unbounded, which is acceptable at fleet cardinality.
type History struct {
	mu        sync.RWMutex
	retention time.Duration
	windows   map[historyKey][]sensors.SensorReading
}

func NewHistory() *History {
	return &History{
		retention: historyRetention,
		windows:   make(map[historyKey][]sensors.SensorReading),
	}
}

// Record appends a reading to its key's window and prunes entries older
// than the retention span from that same window.
func (h *History) Record(r sensors.SensorReading) {
	key := historyKey{r.AircraftID, r.SensorType}
	cutoff := time.Now().UTC().Add(-h.retention)

	h.mu.Lock()
	defer h.mu.Unlock()

	window := append(h.windows[key], r)
	pruned := window[:0]
	for _, entry := range window {
		if entry.Timestamp.After(cutoff) {
			pruned = append(pruned, entry)
		}
	}
	h.windows[key] = pruned
}

// Window returns a copy of the current window for a key, oldest first.
func (h *History) Window(aircraftID string, sensorType sensors.SensorType) []sensors.SensorReading {
	h.mu.RLock()
	defer h.mu.RUnlock()

	window := h.windows[historyKey{aircraftID, sensorType}]
	out := make([]sensors.SensorReading, len(window))
	copy(out, window)
	return out
}
