package config

import (
	"github.com/spf13/viper"

	"placemark-api/internal/models"
)

// Config holds the tunable parameters of the application, read from an
// app.env file or from environment variables.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	DBSource      string `mapstructure:"DB_SOURCE"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`

	GeocodeCachePath string `mapstructure:"GEOCODE_CACHE_PATH"`

	// MQTTBroker is optional; when empty the device position feed is off and
	// only client-reported positions are available.
	MQTTBroker   string `mapstructure:"MQTT_BROKER"`
	MQTTClientID string `mapstructure:"MQTT_CLIENT_ID"`
	MQTTTopic    string `mapstructure:"MQTT_TOPIC"`

	// Fallback region centroid used when no other location signal resolves.
	FallbackLatitude  float64 `mapstructure:"FALLBACK_LATITUDE"`
	FallbackLongitude float64 `mapstructure:"FALLBACK_LONGITUDE"`

	// CaptureTitle is the title given to places produced by the camera flow.
	CaptureTitle string `mapstructure:"CAPTURE_TITLE"`
}

// FallbackRegion returns the configured default coordinate.
func (c Config) FallbackRegion() models.Coordinate {
	return models.Coordinate{
		Latitude:  c.FallbackLatitude,
		Longitude: c.FallbackLongitude,
	}
}

// LoadConfig reads configuration from the given directory, with environment
// variables taking precedence over file values.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
