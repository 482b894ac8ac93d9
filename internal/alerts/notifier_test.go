package alerts_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"aircraft-monitor/internal/alerts"
	"aircraft-monitor/internal/config"
)

type fakeChannel struct {
	name   string
	ok     bool
	delay  time.Duration
	panics bool
	calls  int32
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Send(ctx context.Context, a alerts.Alert) bool {
	atomic.AddInt32(&f.calls, 1)
	if f.panics {
		panic("channel bug")
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.ok
}

func (f *fakeChannel) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

func newTestNotifier() *alerts.Notifier {
	return alerts.NewNotifier(config.NotificationsConfig{
		SendTimeout: time.Second,
		QueueSize:   8,
	})
}

func criticalAlert() alerts.Alert {
	return *alerts.New("N100AM", "engine_temperature", alerts.SeverityCritical,
		"Critical engine_temperature Alert", "engine_temperature has reached critical level", 97, nil)
}

func infoAlert() alerts.Alert {
	return *alerts.New("N100AM", "fuel_level", alerts.SeverityInfo,
		"Trend Alert: fuel_level", "fuel_level is rapidly decreasing", 42, nil)
}

func TestDispatchCountsSuccesses(t *testing.T) {
	n := newTestNotifier()
	good := &fakeChannel{name: "good", ok: true}
	bad := &fakeChannel{name: "bad", ok: false}
	n.AddChannel(good)
	n.AddChannel(bad)

	if got := n.Dispatch(infoAlert()); got != 1 {
		t.Errorf("Expected 1 successful send, got %d", got)
	}
	if good.callCount() != 1 || bad.callCount() != 1 {
		t.Errorf("Expected both channels attempted, got %d/%d", good.callCount(), bad.callCount())
	}
}

func TestDispatchUrgentRouting(t *testing.T) {
	n := newTestNotifier()
	general := &fakeChannel{name: "telegram", ok: true}
	urgent := &fakeChannel{name: "sms", ok: true}
	n.AddChannel(general)
	n.AddUrgentChannel(urgent)

	if got := n.Dispatch(criticalAlert()); got != 2 {
		t.Errorf("Expected critical alert on both channels, got %d successes", got)
	}
	if urgent.callCount() != 1 {
		t.Errorf("Expected urgent channel to receive critical alert, got %d calls", urgent.callCount())
	}

	if got := n.Dispatch(infoAlert()); got != 1 {
		t.Errorf("Expected info alert only on general channel, got %d successes", got)
	}
	if urgent.callCount() != 1 {
		t.Errorf("Expected urgent channel skipped for info alert, got %d calls", urgent.callCount())
	}
}

func TestDispatchAllChannelsFailing(t *testing.T) {
	n := newTestNotifier()
	n.AddChannel(&fakeChannel{name: "a", ok: false})
	n.AddChannel(&fakeChannel{name: "b", ok: false})

	// Total delivery failure is logged, never an error.
	if got := n.Dispatch(criticalAlert()); got != 0 {
		t.Errorf("Expected 0 successes, got %d", got)
	}
}

func TestDispatchTimeoutTreatedAsFailure(t *testing.T) {
	n := alerts.NewNotifier(config.NotificationsConfig{
		SendTimeout: 50 * time.Millisecond,
		QueueSize:   8,
	})
	n.AddChannel(&fakeChannel{name: "hanging", ok: true, delay: 2 * time.Second})
	n.AddChannel(&fakeChannel{name: "fast", ok: true})

	start := time.Now()
	got := n.Dispatch(criticalAlert())
	if got != 1 {
		t.Errorf("Expected only the fast channel to succeed, got %d", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected dispatch bounded by the per-channel timeout, took %v", elapsed)
	}
}

func TestDispatchSurvivesPanickingChannel(t *testing.T) {
	n := newTestNotifier()
	n.AddChannel(&fakeChannel{name: "broken", panics: true})
	n.AddChannel(&fakeChannel{name: "good", ok: true})

	if got := n.Dispatch(criticalAlert()); got != 1 {
		t.Errorf("Expected panic to count as failure, got %d successes", got)
	}
}

func TestNotifyQueueHandoff(t *testing.T) {
	n := newTestNotifier()
	ch := &fakeChannel{name: "good", ok: true}
	n.AddChannel(ch)

	n.Start()
	n.Notify(infoAlert())
	n.Notify(criticalAlert())
	n.Stop() // waits for in-flight dispatches to settle

	if ch.callCount() != 2 {
		t.Errorf("Expected 2 dispatched alerts after Stop, got %d", ch.callCount())
	}
}

func TestStopWithoutStartReturns(t *testing.T) {
	n := newTestNotifier()

	stopped := make(chan struct{})
	go func() {
		n.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Expected Stop to return without a prior Start")
	}
}

func TestNotifyAfterStopIsDropped(t *testing.T) {
	n := newTestNotifier()
	ch := &fakeChannel{name: "good", ok: true}
	n.AddChannel(ch)

	n.Start()
	n.Stop()

	// Late producers (ticker goroutines mid-iteration during shutdown)
	// must not panic on the closed queue.
	n.Notify(criticalAlert())
	n.Stop()

	if ch.callCount() != 0 {
		t.Errorf("Expected no dispatch after Stop, got %d", ch.callCount())
	}
}

func TestSeverityOrdering(t *testing.T) {
	if !alerts.SeverityEmergency.AtLeast(alerts.SeverityCritical) {
		t.Error("Expected emergency >= critical")
	}
	if !alerts.SeverityCritical.AtLeast(alerts.SeverityCritical) {
		t.Error("Expected critical >= critical")
	}
	if alerts.SeverityWarning.AtLeast(alerts.SeverityCritical) {
		t.Error("Expected warning < critical")
	}
	if alerts.SeverityInfo.AtLeast(alerts.SeverityWarning) {
		t.Error("Expected info < warning")
	}
}
