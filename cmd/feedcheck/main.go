// feedcheck fetches one sample from a feed and prints its status line.
// Usage:
//
//	go run ./cmd/feedcheck --url http://api.open-notify.org/iss-now.json
//	go run ./cmd/feedcheck --config configs/tracker.yaml --object iss
//	go run ./cmd/feedcheck --config configs/tracker.yaml --object iss --samples 3 --wait 5s
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rickgao/orbit-tracker/internal/config"
	"github.com/rickgao/orbit-tracker/internal/display"
	"github.com/rickgao/orbit-tracker/internal/feed"
	"github.com/rickgao/orbit-tracker/internal/model"
	"github.com/rickgao/orbit-tracker/internal/sampler"
	"github.com/rickgao/orbit-tracker/internal/trajectory"
)

func main() {
	configPath := flag.String("config", "", "path to tracker config (optional)")
	objectID := flag.String("object", config.DefaultObjectID, "object id from the config")
	url := flag.String("url", "", "feed URL, overrides the config")
	samples := flag.Int("samples", 1, "number of samples to take")
	wait := flag.Duration("wait", 5*time.Second, "delay between samples")
	verbose := flag.Bool("verbose", false, "print raw payloads")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	obj, apiCfg, radius, err := resolveObject(*configPath, *objectID, *url)
	if err != nil {
		logger.Error("failed to resolve feed", "error", err)
		os.Exit(1)
	}

	src, err := feed.New(obj.Feed, apiCfg, logger)
	if err != nil {
		logger.Error("failed to build feed", "error", err)
		os.Exit(1)
	}

	est := trajectory.NewEstimator(radius)
	var traj model.Trajectory

	for i := 0; i < *samples; i++ {
		if i > 0 {
			time.Sleep(*wait)
		}

		ctx, cancel := context.WithTimeout(context.Background(), apiCfg.Timeout*time.Duration(apiCfg.MaxRetries+2))
		payload, err := src.Fetch(ctx)
		cancel()
		if err != nil {
			logger.Error("fetch failed", "error", err)
			os.Exit(1)
		}

		if *verbose {
			raw, _ := json.Marshal(payload)
			fmt.Println(string(raw))
		}

		s, err := sampler.Parse(payload)
		if err != nil {
			logger.Error("payload rejected", "error", err)
			os.Exit(1)
		}

		next, _, err := est.Append(traj, s)
		if err != nil {
			logger.Warn("sample skipped", "error", err)
			continue
		}
		traj = next

		status, _ := display.FormatStatus(traj)
		fmt.Printf("%s: %s\n", obj.ID, status)
	}
}

// resolveObject picks the feed to check: a config object, a bare URL, or
// the default ISS feed.
func resolveObject(configPath, objectID, url string) (config.ObjectConfig, config.APIConfig, float64, error) {
	apiCfg := config.APIConfig{
		Timeout:      config.DefaultAPITimeout,
		MaxRetries:   config.DefaultMaxRetries,
		RetryBackoff: config.DefaultRetryBackoff,
	}
	obj := config.ObjectConfig{
		ID:         objectID,
		AltitudeKM: config.DefaultAltitudeKM,
		Feed:       config.FeedConfig{Type: feed.TypeHTTP, URL: config.DefaultFeedURL},
	}
	earth := config.DefaultEarthRadiusKM

	if configPath != "" {
		cfg, err := config.LoadAndValidate(configPath)
		if err != nil {
			return obj, apiCfg, 0, err
		}
		found := false
		for _, oc := range cfg.Objects {
			if oc.ID == objectID {
				obj, found = oc, true
				break
			}
		}
		if !found {
			return obj, apiCfg, 0, fmt.Errorf("object %q not in %s", objectID, configPath)
		}
		apiCfg = cfg.API
		earth = cfg.Orbit.EarthRadiusKM
	}

	if url != "" {
		obj.Feed = config.FeedConfig{Type: feed.TypeHTTP, URL: url}
	}

	return obj, apiCfg, trajectory.OrbitRadius(earth, obj.AltitudeKM), nil
}
