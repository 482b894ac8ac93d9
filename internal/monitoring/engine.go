package monitoring

import (
	"log"
	"strings"
	"sync"
	"time"

	"aircraft-monitor/internal/alerts"
	"aircraft-monitor/internal/config"
	"aircraft-monitor/internal/sensors"
)

// AlertFunc is a callback invoked synchronously for each raised alert.
type AlertFunc func(alerts.Alert)

// Engine runs the per-reading monitoring pipeline and tracks the alert
// lifecycle. For each reading it records history, evaluates static
// thresholds, and only when those produce nothing runs the statistical
// anomaly checks. At most one active alert is tracked per
// (aircraft, sensor-or-general) key; a newer alert overwrites the slot.
//
// Readings for the same key are processed strictly in order; distinct keys
// may be evaluated concurrently.
type Engine struct {
	thresholds map[sensors.SensorType]config.Limits
	anomaly    config.AnomalyConfig
	history    *History

	mu        sync.Mutex
	active    map[string]*alerts.Alert
	callbacks []AlertFunc
	keyLocks  map[historyKey]*sync.Mutex
}

func NewEngine(thresholds map[string]config.Limits, anomalyCfg config.AnomalyConfig) *Engine {
	e := &Engine{
		thresholds: make(map[sensors.SensorType]config.Limits, len(thresholds)),
		anomaly:    anomalyCfg,
		history:    NewHistory(),
		active:     make(map[string]*alerts.Alert),
		keyLocks:   make(map[historyKey]*sync.Mutex),
	}
	for name, lim := range thresholds {
		st, err := sensors.ParseSensorType(name)
		if err != nil {
			log.Printf("Ignoring thresholds for %s: %v", name, err)
			continue
		}
		e.thresholds[st] = lim
	}
	return e
}

// OnAlert registers a callback invoked synchronously for every raised
// alert. Callback failures are isolated and logged.
func (e *Engine) OnAlert(fn AlertFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callbacks = append(e.callbacks, fn)
}

// ProcessReading runs the monitoring pipeline for one reading and returns
// the raised alert, if any.
func (e *Engine) ProcessReading(r sensors.SensorReading) *alerts.Alert {
	lock := e.lockForKey(historyKey{r.AircraftID, r.SensorType})
	lock.Lock()
	defer lock.Unlock()

	e.history.Record(r)

	var alert *alerts.Alert
	if lim, ok := e.thresholds[r.SensorType]; ok {
		alert = evaluateThresholds(r, lim)
	}
	if alert == nil {
		alert = detectAnomaly(r, e.history.Window(r.AircraftID, r.SensorType), e.anomaly)
	}
	if alert != nil {
		e.Raise(alert)
	}
	return alert
}

// Raise stores an alert as the active entry for its key (overwriting any
// previous one) and notifies registered callbacks. It is also the entry
// point for alerts raised outside the sensor pipeline, such as overdue
// maintenance escalations.
func (e *Engine) Raise(a *alerts.Alert) {
	e.mu.Lock()
	e.active[a.Key()] = a
	cbs := append([]AlertFunc(nil), e.callbacks...)
	e.mu.Unlock()

	for _, fn := range cbs {
		e.invoke(fn, *a)
	}

	log.Printf("Alert: [%s] %s - %s", strings.ToUpper(string(a.Severity)), a.Title, a.Message)
}

func (e *Engine) invoke(fn AlertFunc, a alerts.Alert) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Alert callback failed for %s: %v", a.ID, r)
		}
	}()
	fn(a)
}

// ActiveAlerts returns all tracked alerts not yet resolved, optionally
// filtered by aircraft.
func (e *Engine) ActiveAlerts(aircraftID string) []alerts.Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []alerts.Alert
	for _, a := range e.active {
		if a.Resolved {
			continue
		}
		if aircraftID != "" && a.AircraftID != aircraftID {
			continue
		}
		out = append(out, *a)
	}
	return out
}

// ResolveAlert marks the alert with the given id resolved. Resolution is
// terminal and does not require prior acknowledgement.
func (e *Engine) ResolveAlert(alertID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, a := range e.active {
		if a.ID == alertID {
			now := time.Now().UTC()
			a.Resolved = true
			a.ResolvedAt = &now
			return true
		}
	}
	return false
}

// AcknowledgeAlert sets the acknowledged flag on an active alert.
func (e *Engine) AcknowledgeAlert(alertID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, a := range e.active {
		if a.ID == alertID {
			now := time.Now().UTC()
			a.Acknowledged = true
			a.AcknowledgedAt = &now
			return true
		}
	}
	return false
}

func (e *Engine) lockForKey(key historyKey) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.keyLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		e.keyLocks[key] = lock
	}
	return lock
}
