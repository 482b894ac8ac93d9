package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// sensorProfile describes the nominal behavior of one simulated sensor.
type sensorProfile struct {
	sensorType string
	unit       string
	nominal    float64
	jitter     float64
	drift      float64 // per-tick drift, makes trend alerts reachable
}

var profiles = []sensorProfile{
	{sensorType: "engine_temperature", unit: "C", nominal: 72, jitter: 3.0},
	{sensorType: "oil_pressure", unit: "PSI", nominal: 55, jitter: 2.5},
	{sensorType: "fuel_level", unit: "%", nominal: 80, jitter: 0.5, drift: -0.08},
	{sensorType: "hydraulic_pressure", unit: "PSI", nominal: 3000, jitter: 40},
	{sensorType: "vibration", unit: "mm/s", nominal: 2.1, jitter: 0.4},
	{sensorType: "altitude", unit: "ft", nominal: 34000, jitter: 150},
	{sensorType: "airspeed", unit: "kt", nominal: 460, jitter: 8},
	{sensorType: "brake_temperature", unit: "C", nominal: 45, jitter: 5},
}

type payload struct {
	SensorID  string  `json:"sensor_id"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Timestamp string  `json:"timestamp"`
}

func main() {
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker URL")
	fleet := flag.Int("fleet", 3, "Number of simulated aircraft")
	interval := flag.Duration("interval", 2*time.Second, "Publish interval")
	faultEvery := flag.Int("fault-every", 120, "Inject an out-of-range reading every N ticks (0 disables)")
	flag.Parse()

	opts := mqtt.NewClientOptions().
		AddBroker(*broker).
		SetClientID("sensor-simulator").
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("Error connecting to broker %s: %v", *broker, token.Error())
	}
	log.Printf("Publishing sensor data for %d aircraft to %s every %v", *fleet, *broker, *interval)

	// Per-aircraft drifting state so values wander realistically.
	state := make(map[string]float64)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	tick := 0
	for range ticker.C {
		tick++
		for i := 0; i < *fleet; i++ {
			aircraftID := fmt.Sprintf("N%03dAM", 100+i)
			for _, p := range profiles {
				key := aircraftID + "/" + p.sensorType
				state[key] += p.drift
				value := p.nominal + state[key] + (rand.Float64()*2-1)*p.jitter

				if *faultEvery > 0 && tick%*faultEvery == 0 && p.sensorType == "engine_temperature" {
					value = p.nominal + 30 // push past the critical limit
					log.Printf("Injecting fault reading for %s/%s", aircraftID, p.sensorType)
				}

				body, err := json.Marshal(payload{
					SensorID:  fmt.Sprintf("%s_%s", aircraftID, p.sensorType),
					Value:     value,
					Unit:      p.unit,
					Timestamp: time.Now().UTC().Format(time.RFC3339),
				})
				if err != nil {
					log.Printf("Error marshalling payload: %v", err)
					continue
				}

				topic := fmt.Sprintf("aircraft/%s/sensors/%s", aircraftID, p.sensorType)
				client.Publish(topic, 0, false, body)
			}
		}
	}
}
