package sensors

import (
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"aircraft-monitor/internal/config"
)

// ReadingFunc is a callback invoked for each accepted reading.
type ReadingFunc func(SensorReading)

// Collector subscribes to the sensor topic tree and turns raw MQTT messages
// into SensorReadings. Accepted readings are dispatched to registered
// callbacks and buffered for batch persistence.
type Collector struct {
	cfg    config.MQTTConfig
	client mqtt.Client

	mu           sync.Mutex
	callbacks    map[SensorType][]ReadingFunc
	allCallbacks []ReadingFunc
	buffer       []SensorReading
}

func NewCollector(cfg config.MQTTConfig) *Collector {
	return &Collector{
		cfg:       cfg,
		callbacks: make(map[SensorType][]ReadingFunc),
	}
}

// OnReading registers a callback for one sensor type. Callbacks run in
// registration order; typed callbacks run before all-sensor callbacks.
func (c *Collector) OnReading(sensorType SensorType, fn ReadingFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks[sensorType] = append(c.callbacks[sensorType], fn)
}

// OnAllReadings registers a callback invoked for every sensor type.
func (c *Collector) OnAllReadings(fn ReadingFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allCallbacks = append(c.allCallbacks, fn)
}

// Start connects to the broker and subscribes to the sensor topic. The
// client reconnects on its own with capped backoff; messages lost while
// disconnected are not replayed.
func (c *Collector) Start() error {
	opts := mqtt.NewClientOptions().
		AddBroker(c.cfg.BrokerURL).
		SetClientID(c.cfg.ClientID).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(2 * time.Minute).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("MQTT connection lost: %v", err)
		}).
		SetOnConnectHandler(func(client mqtt.Client) {
			log.Printf("Connected to MQTT broker %s", c.cfg.BrokerURL)
			token := client.Subscribe(c.cfg.SensorTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
				c.Ingest(msg.Topic(), msg.Payload())
			})
			if token.Wait() && token.Error() != nil {
				log.Printf("Subscribe to %s failed: %v", c.cfg.SensorTopic, token.Error())
				return
			}
			log.Printf("Subscribed to %s", c.cfg.SensorTopic)
		})

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	c.client = mqtt.NewClient(opts)
	token := c.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to MQTT broker: %w", token.Error())
	}
	return nil
}

// Stop disconnects from the broker.
func (c *Collector) Stop() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
	}
	log.Println("Sensor collector stopped")
}

// Ingest parses one raw message and dispatches the resulting reading.
// Malformed messages are logged and dropped.
func (c *Collector) Ingest(topic string, payload []byte) {
	reading, err := ParseReading(topic, payload)
	if err != nil {
		log.Printf("Dropping sensor message: %v", err)
		return
	}
	c.dispatch(reading)
}

func (c *Collector) dispatch(reading SensorReading) {
	c.mu.Lock()
	c.buffer = append(c.buffer, reading)
	typed := append([]ReadingFunc(nil), c.callbacks[reading.SensorType]...)
	all := append([]ReadingFunc(nil), c.allCallbacks...)
	c.mu.Unlock()

	for _, fn := range typed {
		c.invoke(fn, reading)
	}
	for _, fn := range all {
		c.invoke(fn, reading)
	}
}

// invoke isolates callback failures so one consumer cannot take down the
// ingestion loop or its sibling callbacks.
func (c *Collector) invoke(fn ReadingFunc, reading SensorReading) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Reading callback failed for %s/%s: %v",
				reading.AircraftID, reading.SensorType, r)
		}
	}()
	fn(reading)
}

// DrainBuffered returns all buffered readings and clears the buffer.
func (c *Collector) DrainBuffered() []SensorReading {
	c.mu.Lock()
	defer c.mu.Unlock()
	drained := c.buffer
	c.buffer = nil
	return drained
}
