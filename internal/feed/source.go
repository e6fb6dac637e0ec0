package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rickgao/orbit-tracker/internal/api"
	"github.com/rickgao/orbit-tracker/internal/config"
	"github.com/rickgao/orbit-tracker/internal/orbit"
	"github.com/rickgao/orbit-tracker/internal/sampler"
)

// Source yields one raw payload per call.
type Source interface {
	Fetch(ctx context.Context) (sampler.Payload, error)
}

// SourceFunc is a function adapter for Source.
type SourceFunc func(ctx context.Context) (sampler.Payload, error)

func (f SourceFunc) Fetch(ctx context.Context) (sampler.Payload, error) {
	return f(ctx)
}

// Feed types accepted in configuration.
const (
	TypeHTTP = "http"
	TypeTLE  = "tle"
	TypeNMEA = "nmea"
)

// New builds the source described by cfg.
func New(cfg config.FeedConfig, apiCfg config.APIConfig, logger *slog.Logger) (Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Type {
	case TypeHTTP, "":
		url := cfg.URL
		if url == "" {
			url = api.DefaultFeedURL
		}
		return api.NewClient(url,
			api.WithLogger(logger),
			api.WithTimeout(apiCfg.Timeout),
			api.WithRetries(apiCfg.MaxRetries, apiCfg.RetryBackoff),
		), nil
	case TypeTLE:
		src, err := orbit.NewTLESource(cfg.TLELine1, cfg.TLELine2)
		if err != nil {
			return nil, fmt.Errorf("tle source: %w", err)
		}
		return src, nil
	case TypeNMEA:
		src, err := OpenNMEAReplay(cfg.Path, cfg.Loop)
		if err != nil {
			return nil, fmt.Errorf("nmea source: %w", err)
		}
		logger.Info("nmea replay loaded", "path", cfg.Path, "fixes", src.Len())
		return src, nil
	default:
		return nil, fmt.Errorf("unknown feed type %q", cfg.Type)
	}
}
