package config

import (
	"errors"
	"fmt"
	"regexp"
)

// objectIDPattern keeps ids safe for file names, MQTT topics and NATS subjects.
var objectIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validate checks that all required fields are set and values are valid.
func (c *TrackerConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Orbit.EarthRadiusKM <= 0 {
		return errors.New("orbit.earth_radius_km must be > 0")
	}

	if len(c.Objects) == 0 {
		return errors.New("objects must not be empty")
	}
	seen := make(map[string]bool, len(c.Objects))
	for i := range c.Objects {
		prefix := fmt.Sprintf("objects[%d]", i)
		if err := c.Objects[i].validate(prefix); err != nil {
			return err
		}
		if seen[c.Objects[i].ID] {
			return fmt.Errorf("%s.id %q is duplicated", prefix, c.Objects[i].ID)
		}
		seen[c.Objects[i].ID] = true
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be > 0")
	}
	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}
	if c.Poller.Timeout <= 0 {
		return errors.New("poller.timeout must be > 0")
	}

	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	switch c.Store.Type {
	case "memory":
	case "file":
		if c.Store.Dir == "" {
			return errors.New("store.dir is required for file store")
		}
	case "postgres":
		if err := c.Store.Database.validate("store.database"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("store.type must be memory, file or postgres, got %q", c.Store.Type)
	}

	if c.Publish.BufferSize < 1 {
		return errors.New("publish.buffer_size must be >= 1")
	}
	if c.Publish.MQTT.QoS > 2 {
		return fmt.Errorf("publish.mqtt.qos must be 0, 1 or 2, got %d", c.Publish.MQTT.QoS)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	return nil
}

func (o *ObjectConfig) validate(prefix string) error {
	if !objectIDPattern.MatchString(o.ID) {
		return fmt.Errorf("%s.id must match %s, got %q", prefix, objectIDPattern, o.ID)
	}
	if o.AltitudeKM < 0 {
		return fmt.Errorf("%s.altitude_km must be >= 0", prefix)
	}

	switch o.Feed.Type {
	case "http":
		if o.Feed.URL == "" {
			return fmt.Errorf("%s.feed.url is required", prefix)
		}
	case "tle":
		if o.Feed.TLELine1 == "" || o.Feed.TLELine2 == "" {
			return fmt.Errorf("%s.feed.tle_line1 and tle_line2 are required", prefix)
		}
	case "nmea":
		if o.Feed.Path == "" {
			return fmt.Errorf("%s.feed.path is required", prefix)
		}
	default:
		return fmt.Errorf("%s.feed.type must be http, tle or nmea, got %q", prefix, o.Feed.Type)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
