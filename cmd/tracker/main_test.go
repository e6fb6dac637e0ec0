package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rickgao/orbit-tracker/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.LoggingConfig
		wantDebug  bool
		wantPrefix string
	}{
		{"text info", config.LoggingConfig{Level: "info", Format: "text"}, false, "time="},
		{"json debug", config.LoggingConfig{Level: "debug", Format: "json"}, true, "{"},
		{"bad level falls back to info", config.LoggingConfig{Level: "loud", Format: "text"}, false, "time="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(tt.cfg, &buf)

			if got := logger.Enabled(context.Background(), slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			logger.Info("hello", "object", "iss")
			if !strings.HasPrefix(buf.String(), tt.wantPrefix) {
				t.Errorf("output = %q, want prefix %q", buf.String(), tt.wantPrefix)
			}
		})
	}
}

func TestBuildObjects(t *testing.T) {
	cfg := &config.TrackerConfig{
		Orbit: config.OrbitConfig{EarthRadiusKM: 6371},
		Objects: []config.ObjectConfig{
			{ID: "iss", AltitudeKM: 408, Feed: config.FeedConfig{Type: "http", URL: "http://localhost/iss-now.json"}},
			{ID: "hubble", AltitudeKM: 535, Feed: config.FeedConfig{Type: "http", URL: "http://localhost/hubble.json"}},
		},
	}

	objects, err := buildObjects(cfg, slog.Default())
	if err != nil {
		t.Fatalf("buildObjects() error = %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("len = %d, want 2", len(objects))
	}
	if got := objects[0].Estimator.RadiusKM(); got != 6779 {
		t.Errorf("iss radius = %v, want 6779", got)
	}
	if got := objects[1].Estimator.RadiusKM(); got != 6906 {
		t.Errorf("hubble radius = %v, want 6906", got)
	}

	cfg.Objects[1].Feed = config.FeedConfig{Type: "ftp"}
	if _, err := buildObjects(cfg, slog.Default()); err == nil {
		t.Error("buildObjects() expected error for unknown feed type")
	}
}
