package config

import "time"

// TrackerConfig is the root configuration for a tracker instance.
type TrackerConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	Logging  LoggingConfig  `yaml:"logging"`
	Orbit    OrbitConfig    `yaml:"orbit"`
	Objects  []ObjectConfig `yaml:"objects"`
	Poller   PollerConfig   `yaml:"poller"`
	API      APIConfig      `yaml:"api"`
	Store    StoreConfig    `yaml:"store"`
	Publish  PublishConfig  `yaml:"publish"`
	Server   ServerConfig   `yaml:"server"`
}

// InstanceConfig identifies this tracker.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// OrbitConfig holds the sphere used for the ground-track distance proxy.
type OrbitConfig struct {
	EarthRadiusKM float64 `yaml:"earth_radius_km"`
}

// ObjectConfig describes one tracked object. Each object has its own
// trajectory and its own orbit radius (earth radius + altitude).
type ObjectConfig struct {
	ID         string     `yaml:"id"`
	AltitudeKM float64    `yaml:"altitude_km"`
	Feed       FeedConfig `yaml:"feed"`
}

// FeedConfig selects where positions come from.
type FeedConfig struct {
	Type     string `yaml:"type"` // http, tle, nmea
	URL      string `yaml:"url"`
	TLELine1 string `yaml:"tle_line1"`
	TLELine2 string `yaml:"tle_line2"`
	Path     string `yaml:"path"`
	Loop     bool   `yaml:"loop"`
}

// PollerConfig holds tick scheduling settings.
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

// APIConfig holds HTTP feed client settings.
type APIConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// StoreConfig selects where trajectories are kept between ticks.
type StoreConfig struct {
	Type     string   `yaml:"type"` // memory, file, postgres
	Dir      string   `yaml:"dir"`
	Database DBConfig `yaml:"database"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// PublishConfig holds update fan-out settings. Empty broker/url disables a sink.
type PublishConfig struct {
	BufferSize int        `yaml:"buffer_size"`
	MQTT       MQTTConfig `yaml:"mqtt"`
	NATS       NATSConfig `yaml:"nats"`
}

// MQTTConfig holds MQTT publisher settings.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
	Retain      bool   `yaml:"retain"`
}

// NATSConfig holds NATS publisher settings.
type NATSConfig struct {
	URL           string        `yaml:"url"`
	SubjectPrefix string        `yaml:"subject_prefix"`
	MaxReconnects int           `yaml:"max_reconnects"`
	ReconnectWait time.Duration `yaml:"reconnect_wait"`
}

// ServerConfig holds the display/metrics HTTP server settings.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}
