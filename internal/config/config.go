package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	APIPort int `mapstructure:"api_port"`
}

type MQTTConfig struct {
	BrokerURL   string `mapstructure:"broker_url"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	SensorTopic string `mapstructure:"sensor_topic"`
}

// Limits holds the static thresholds for one sensor type. Unset bounds are
// skipped during evaluation.
type Limits struct {
	CriticalHigh *float64 `mapstructure:"critical_high"`
	WarningHigh  *float64 `mapstructure:"warning_high"`
	CriticalLow  *float64 `mapstructure:"critical_low"`
	WarningLow   *float64 `mapstructure:"warning_low"`
}

type AnomalyConfig struct {
	MinReadings     int     `mapstructure:"min_readings"`
	BaselineWindow  int     `mapstructure:"baseline_window"`
	ZScoreThreshold float64 `mapstructure:"zscore_threshold"`
	TrendWindow     int     `mapstructure:"trend_window"`
	TrendFactor     float64 `mapstructure:"trend_factor"`
}

type MaintenanceConfig struct {
	ACheckHours           float64       `mapstructure:"a_check_hours"`
	BCheckHours           float64       `mapstructure:"b_check_hours"`
	CCheckHours           float64       `mapstructure:"c_check_hours"`
	DCheckHours           float64       `mapstructure:"d_check_hours"`
	AdvanceWarningDays    float64       `mapstructure:"advance_warning_days"`
	DailyUtilizationHours float64       `mapstructure:"daily_utilization_hours"`
	CheckInterval         time.Duration `mapstructure:"check_interval"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
	ToNumber   string `mapstructure:"to_number"`
}

type NotificationsConfig struct {
	SendTimeout time.Duration  `mapstructure:"send_timeout"`
	QueueSize   int            `mapstructure:"queue_size"`
	Telegram    TelegramConfig `mapstructure:"telegram"`
	Twilio      TwilioConfig   `mapstructure:"twilio"`
	WebhookURLs []string       `mapstructure:"webhook_urls"`
}

type User struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"`
	JWTExpirationMinutes int    `mapstructure:"jwt_expiration_minutes"`
	Users                []User `mapstructure:"users"`
}

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	MQTT          MQTTConfig          `mapstructure:"mqtt"`
	Thresholds    map[string]Limits   `mapstructure:"thresholds"`
	Anomaly       AnomalyConfig       `mapstructure:"anomaly"`
	Maintenance   MaintenanceConfig   `mapstructure:"maintenance"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Auth          AuthConfig          `mapstructure:"auth"`
}

var AppConfig Config

// LoadConfig reads config.yaml from path, falling back to built-in defaults
// when the file is absent. Environment variables override file values.
func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: error reading config file, using defaults: %v", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return err
	}

	log.Printf("Configuration loaded (broker=%s, api_port=%d)",
		AppConfig.MQTT.BrokerURL, AppConfig.Server.APIPort)
	return nil
}

func setDefaults() {
	viper.SetDefault("server.api_port", 8080)

	viper.SetDefault("mqtt.broker_url", "tcp://localhost:1883")
	viper.SetDefault("mqtt.client_id", "aircraft-monitor")
	viper.SetDefault("mqtt.sensor_topic", "aircraft/+/sensors/+")

	// Static thresholds per sensor type. High-side limits for temperature
	// and vibration, low-side for pressure and fuel.
	viper.SetDefault("thresholds.engine_temperature.warning_high", 85.0)
	viper.SetDefault("thresholds.engine_temperature.critical_high", 95.0)
	viper.SetDefault("thresholds.oil_pressure.warning_low", 25.0)
	viper.SetDefault("thresholds.oil_pressure.critical_low", 15.0)
	viper.SetDefault("thresholds.hydraulic_pressure.warning_low", 2800.0)
	viper.SetDefault("thresholds.vibration.warning_high", 4.5)
	viper.SetDefault("thresholds.vibration.critical_high", 7.1)
	viper.SetDefault("thresholds.fuel_level.warning_low", 20.0)
	viper.SetDefault("thresholds.fuel_level.critical_low", 10.0)

	viper.SetDefault("anomaly.min_readings", 30)
	viper.SetDefault("anomaly.baseline_window", 100)
	viper.SetDefault("anomaly.zscore_threshold", 3.5)
	viper.SetDefault("anomaly.trend_window", 10)
	viper.SetDefault("anomaly.trend_factor", 0.5)

	viper.SetDefault("maintenance.a_check_hours", 500.0)
	viper.SetDefault("maintenance.b_check_hours", 2000.0)
	viper.SetDefault("maintenance.c_check_hours", 6000.0)
	viper.SetDefault("maintenance.d_check_hours", 25000.0)
	viper.SetDefault("maintenance.advance_warning_days", 7.0)
	viper.SetDefault("maintenance.daily_utilization_hours", 8.0)
	viper.SetDefault("maintenance.check_interval", "1h")

	viper.SetDefault("notifications.send_timeout", "5s")
	viper.SetDefault("notifications.queue_size", 64)

	viper.SetDefault("auth.jwt_secret", "change-me")
	viper.SetDefault("auth.jwt_expiration_minutes", 60)
}
