// tracker samples orbiting objects on a fixed interval, keeps their
// trajectories and serves status, trajectories and live updates over HTTP.
// Usage: go run ./cmd/tracker --config configs/tracker.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/orbit-tracker/internal/config"
	"github.com/rickgao/orbit-tracker/internal/display"
	"github.com/rickgao/orbit-tracker/internal/feed"
	"github.com/rickgao/orbit-tracker/internal/metrics"
	"github.com/rickgao/orbit-tracker/internal/poller"
	"github.com/rickgao/orbit-tracker/internal/publish"
	"github.com/rickgao/orbit-tracker/internal/store"
	"github.com/rickgao/orbit-tracker/internal/trajectory"
	"github.com/rickgao/orbit-tracker/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/tracker.yaml", "path to config file")
	envFile := flag.String("env-file", ".env", "optional KEY=VALUE file loaded before the config")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		slog.Error("tracker failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Logging, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting tracker",
		"version", version.Version,
		"commit", version.Commit,
		"config", configPath,
		"instance_id", cfg.Instance.ID,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	st, closeStore, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	objects, err := buildObjects(cfg, logger)
	if err != nil {
		return err
	}

	collector, err := metrics.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	hub := display.NewHub(display.DefaultHubConfig(), nil, logger)
	publishers := []publish.Publisher{hub}
	publishers = append(publishers, connectPublishers(ctx, cfg.Publish, logger)...)

	dispatcher := publish.NewDispatcher(publish.Config{
		BufferSize:     cfg.Publish.BufferSize,
		PublishTimeout: publish.DefaultConfig().PublishTimeout,
	}, publishers, collector, logger)
	if err := dispatcher.Start(ctx); err != nil {
		return fmt.Errorf("start dispatcher: %w", err)
	}

	p := poller.New(poller.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		Timeout:     cfg.Poller.Timeout,
	}, objects, st, dispatcher, collector, logger)

	ids := make([]string, 0, len(objects))
	for _, o := range objects {
		ids = append(ids, o.ID)
	}
	serverOpts := []display.ServerOption{
		display.WithHub(hub),
		display.WithMetrics(collector.Handler()),
		display.WithLogger(logger),
	}
	if pinger, ok := st.(display.Pinger); ok {
		serverOpts = append(serverOpts, display.WithPinger(pinger))
	}
	server := display.NewServer(cfg.Server, ids, st, serverOpts...)

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}

	logger.Info("tracker running",
		"objects", ids,
		"interval", cfg.Poller.Interval,
		"status_url", fmt.Sprintf("http://localhost:%d/api/objects", cfg.Server.Port),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// Wait for a signal or a server failure.
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := p.Stop(shutdownCtx); err != nil {
			logger.Warn("poller stop timed out", "error", err)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http server shutdown failed", "error", err)
		}
		if err := dispatcher.Stop(shutdownCtx); err != nil {
			logger.Warn("dispatcher stop timed out", "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("tracker stopped")
	return nil
}

// buildObjects creates a feed source and estimator per configured object.
func buildObjects(cfg *config.TrackerConfig, logger *slog.Logger) ([]poller.Object, error) {
	objects := make([]poller.Object, 0, len(cfg.Objects))
	for _, oc := range cfg.Objects {
		src, err := feed.New(oc.Feed, cfg.API, logger.With("object", oc.ID))
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", oc.ID, err)
		}
		radius := trajectory.OrbitRadius(cfg.Orbit.EarthRadiusKM, oc.AltitudeKM)
		objects = append(objects, poller.Object{
			ID:        oc.ID,
			Source:    src,
			Estimator: trajectory.NewEstimator(radius),
		})
		logger.Info("tracking object",
			"object", oc.ID,
			"feed", oc.Feed.Type,
			"orbit_radius_km", radius,
		)
	}
	return objects, nil
}

// connectPublishers connects the configured brokers. A broker that cannot
// be reached is logged and left out; sampling does not depend on it.
func connectPublishers(ctx context.Context, cfg config.PublishConfig, logger *slog.Logger) []publish.Publisher {
	var out []publish.Publisher

	if cfg.MQTT.Broker != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		p, err := publish.ConnectMQTT(connectCtx, cfg.MQTT, logger)
		cancel()
		if err != nil {
			logger.Error("mqtt publisher disabled", "error", err)
		} else {
			out = append(out, p)
		}
	}

	if cfg.NATS.URL != "" {
		p, err := publish.ConnectNATS(cfg.NATS, logger)
		if err != nil {
			logger.Error("nats publisher disabled", "error", err)
		} else {
			out = append(out, p)
		}
	}

	return out
}

// newLogger builds the slog logger described by cfg.
func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
