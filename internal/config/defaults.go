package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultInstanceID      = "orbit-tracker"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultEarthRadiusKM   = 6371.0
	DefaultAltitudeKM      = 408.0
	DefaultObjectID        = "iss"
	DefaultFeedType        = "http"
	DefaultFeedURL         = "http://api.open-notify.org/iss-now.json"
	DefaultPollInterval    = 10 * time.Second
	DefaultPollConcurrency = 4
	DefaultPollTimeout     = 8 * time.Second
	DefaultAPITimeout      = 5 * time.Second
	DefaultMaxRetries      = 2
	DefaultRetryBackoff    = 500 * time.Millisecond
	DefaultStoreType       = "memory"
	DefaultStoreDir        = "data/trajectories"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 4
	DefaultMinConns        = 1
	DefaultBufferSize      = 256
	DefaultMQTTClientID    = "orbit-tracker"
	DefaultTopicPrefix     = "orbit"
	DefaultSubjectPrefix   = "orbit"
	DefaultMaxReconnects   = 10
	DefaultReconnectWait   = 2 * time.Second
	DefaultServerPort      = 8080
)

func (c *TrackerConfig) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = DefaultInstanceID
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	if c.Orbit.EarthRadiusKM == 0 {
		c.Orbit.EarthRadiusKM = DefaultEarthRadiusKM
	}

	// Track the ISS when nothing is configured.
	if len(c.Objects) == 0 {
		c.Objects = []ObjectConfig{{ID: DefaultObjectID}}
	}
	for i := range c.Objects {
		applyObjectDefaults(&c.Objects[i])
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}

	// API defaults
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}

	// Store defaults
	if c.Store.Type == "" {
		c.Store.Type = DefaultStoreType
	}
	if c.Store.Dir == "" {
		c.Store.Dir = DefaultStoreDir
	}
	applyDBDefaults(&c.Store.Database)

	// Publish defaults
	if c.Publish.BufferSize == 0 {
		c.Publish.BufferSize = DefaultBufferSize
	}
	if c.Publish.MQTT.ClientID == "" {
		c.Publish.MQTT.ClientID = DefaultMQTTClientID
	}
	if c.Publish.MQTT.TopicPrefix == "" {
		c.Publish.MQTT.TopicPrefix = DefaultTopicPrefix
	}
	if c.Publish.NATS.SubjectPrefix == "" {
		c.Publish.NATS.SubjectPrefix = DefaultSubjectPrefix
	}
	if c.Publish.NATS.MaxReconnects == 0 {
		c.Publish.NATS.MaxReconnects = DefaultMaxReconnects
	}
	if c.Publish.NATS.ReconnectWait == 0 {
		c.Publish.NATS.ReconnectWait = DefaultReconnectWait
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
}

func applyObjectDefaults(o *ObjectConfig) {
	if o.AltitudeKM == 0 {
		o.AltitudeKM = DefaultAltitudeKM
	}
	if o.Feed.Type == "" {
		o.Feed.Type = DefaultFeedType
	}
	if o.Feed.Type == "http" && o.Feed.URL == "" {
		o.Feed.URL = DefaultFeedURL
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
