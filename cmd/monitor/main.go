package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aircraft-monitor/internal/alerts"
	"aircraft-monitor/internal/api"
	"aircraft-monitor/internal/config"
	"aircraft-monitor/internal/maintenance"
	"aircraft-monitor/internal/monitoring"
	"aircraft-monitor/internal/sensors"
	"aircraft-monitor/internal/storage"
	"aircraft-monitor/internal/websocket"
)

const readingFlushInterval = 30 * time.Second

func main() {
	configPath := flag.String("config", ".", "Path to the configuration file directory")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	cfg := &config.AppConfig

	// --- Initialize components ---
	store := storage.NewMemoryStore()
	engine := monitoring.NewEngine(cfg.Thresholds, cfg.Anomaly)
	scheduler := maintenance.NewScheduler(cfg.Maintenance)
	notifier := alerts.NewNotifier(cfg.Notifications)
	collector := sensors.NewCollector(cfg.MQTT)

	hub := websocket.NewHub(func() interface{} {
		active := engine.ActiveAlerts("")
		if active == nil {
			return []alerts.Alert{}
		}
		return active
	})

	// --- Wire the pipeline ---
	// Readings: collector -> engine (thresholds, anomaly, lifecycle) and
	// live push. Alerts: engine -> notifier queue and live push.
	collector.OnAllReadings(func(r sensors.SensorReading) {
		engine.ProcessReading(r)
		hub.BroadcastReading(r)
	})
	engine.OnAlert(func(a alerts.Alert) {
		notifier.Notify(a)
		hub.BroadcastAlert(a)
	})

	notifier.Start()
	go hub.Run()

	if err := collector.Start(); err != nil {
		log.Fatalf("Error starting sensor collector: %v", err)
	}

	stop := make(chan struct{})

	// Drain the collector's reading buffer into the store periodically.
	go func() {
		ticker := time.NewTicker(readingFlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				batch := collector.DrainBuffered()
				if len(batch) == 0 {
					continue
				}
				if err := store.SaveBatch(batch); err != nil {
					log.Printf("Error persisting %d readings: %v", len(batch), err)
				}
			case <-stop:
				return
			}
		}
	}()

	// Periodic overdue-maintenance check, independent of the sensor path.
	go func() {
		ticker := time.NewTicker(cfg.Maintenance.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, task := range scheduler.OverdueTasks("") {
					log.Printf("Overdue maintenance: %s for %s", task.Title, task.AircraftID)
					alert := alerts.New(task.AircraftID, "", alerts.SeverityWarning,
						fmt.Sprintf("Overdue Maintenance: %s", task.Title),
						fmt.Sprintf("%s was scheduled for %s and has not been started",
							task.Title, task.ScheduledDate.Format("2006-01-02")),
						0, nil)
					engine.Raise(alert)
				}
			case <-stop:
				return
			}
		}
	}()

	// --- HTTP surface ---
	auth := api.NewAuthManager(cfg.Auth)
	handler := api.NewHandler(engine, scheduler, store, hub, auth)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.APIPort),
		Handler: api.NewRouter(handler),
	}

	go func() {
		log.Printf("Starting API server on port %d", cfg.Server.APIPort)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("API server error: %v", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	collector.Stop()
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("API server shutdown error: %v", err)
	}

	// Let in-flight notification dispatches settle.
	notifier.Stop()

	if err := store.SaveBatch(collector.DrainBuffered()); err != nil {
		log.Printf("Error persisting final batch: %v", err)
	}

	log.Println("Monitor stopped.")
}
