package alerts

import (
	"context"
	"log"
	"sync"
	"time"

	"aircraft-monitor/internal/config"
)

// Notifier fans alerts out to notification channels. Alerts are handed off
// from the synchronous alert-handling path through a bounded queue; a
// supervising goroutine dequeues and dispatches to all channels concurrently,
// waiting for every send to settle before taking the next alert.
//
// Urgent channels (SMS-class) receive only critical and emergency alerts.
type Notifier struct {
	general []Channel
	urgent  []Channel
	timeout time.Duration

	queue chan Alert
	done  chan struct{}

	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewNotifier builds a notifier with channels constructed from config.
// Channels with incomplete credentials are skipped.
func NewNotifier(cfg config.NotificationsConfig) *Notifier {
	n := &Notifier{
		timeout: cfg.SendTimeout,
		queue:   make(chan Alert, cfg.QueueSize),
		done:    make(chan struct{}),
	}
	if n.timeout <= 0 {
		n.timeout = 5 * time.Second
	}

	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		n.AddChannel(NewTelegramChannel(cfg.Telegram))
	}
	for _, u := range cfg.WebhookURLs {
		n.AddChannel(NewWebhookChannel(u))
	}
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" && cfg.Twilio.ToNumber != "" {
		n.AddUrgentChannel(NewSMSChannel(cfg.Twilio))
	}
	return n
}

// AddChannel registers a channel that receives every alert.
func (n *Notifier) AddChannel(c Channel) {
	n.general = append(n.general, c)
}

// AddUrgentChannel registers a channel reserved for critical and emergency
// alerts.
func (n *Notifier) AddUrgentChannel(c Channel) {
	n.urgent = append(n.urgent, c)
}

// Start launches the dispatch worker.
func (n *Notifier) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.started || n.closed {
		return
	}
	n.started = true
	go n.run()
}

// Stop closes the queue and waits for queued and in-flight dispatches to
// settle. Safe to call without a prior Start, and more than once.
func (n *Notifier) Stop() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
		if !n.started {
			close(n.done)
		}
	}
	n.mu.Unlock()
	<-n.done
}

// Notify enqueues an alert for dispatch. It never blocks the caller: when
// the queue is full, or the notifier has been stopped, the notification is
// dropped with a warning. Delivery failure is observability, not a
// pipeline error.
func (n *Notifier) Notify(alert Alert) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		log.Printf("Notifier stopped, dropping alert %s", alert.ID)
		return
	}
	select {
	case n.queue <- alert:
	default:
		log.Printf("Notification queue full, dropping alert %s", alert.ID)
	}
}

func (n *Notifier) run() {
	for alert := range n.queue {
		n.Dispatch(alert)
	}
	close(n.done)
}

// Dispatch sends one alert to every eligible channel concurrently and
// returns the number of successful sends once all have settled.
func (n *Notifier) Dispatch(alert Alert) int {
	targets := append([]Channel(nil), n.general...)
	if alert.Severity.AtLeast(SeverityCritical) {
		targets = append(targets, n.urgent...)
	}
	if len(targets) == 0 {
		return 0
	}

	results := make([]bool, len(targets))
	var wg sync.WaitGroup
	for i, ch := range targets {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
			defer cancel()
			results[i] = n.send(ctx, ch, alert)
		}(i, ch)
	}
	wg.Wait()

	success := 0
	for _, ok := range results {
		if ok {
			success++
		}
	}
	log.Printf("Alert %s sent to %d/%d channels", alert.ID, success, len(targets))
	return success
}

// send bounds a single channel delivery. A channel that ignores its context
// and hangs past the timeout is treated as failed, not retried.
func (n *Notifier) send(ctx context.Context, ch Channel, alert Alert) bool {
	result := make(chan bool, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Channel %s panicked on alert %s: %v", ch.Name(), alert.ID, r)
				result <- false
			}
		}()
		result <- ch.Send(ctx, alert)
	}()

	select {
	case ok := <-result:
		return ok
	case <-ctx.Done():
		log.Printf("Channel %s timed out on alert %s", ch.Name(), alert.ID)
		return false
	}
}
