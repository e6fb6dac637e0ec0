package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/orbit-tracker/internal/display"
	"github.com/rickgao/orbit-tracker/internal/feed"
	"github.com/rickgao/orbit-tracker/internal/metrics"
	"github.com/rickgao/orbit-tracker/internal/publish"
	"github.com/rickgao/orbit-tracker/internal/sampler"
	"github.com/rickgao/orbit-tracker/internal/store"
	"github.com/rickgao/orbit-tracker/internal/trajectory"
)

// Errors used to classify failed ticks.
var (
	ErrFetch = errors.New("fetch failed")
	ErrStore = errors.New("store failed")
)

// Object is one tracked body with its feed and orbit geometry.
type Object struct {
	ID        string
	Source    feed.Source
	Estimator trajectory.Estimator
}

// UpdateSink receives accepted samples. Enqueue must not block.
type UpdateSink interface {
	Enqueue(u publish.Update)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Tick interval (default: 10s)
	Concurrency int           // Max objects ticked at once (default: 4)
	Timeout     time.Duration // Per-object fetch timeout (default: 8s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    10 * time.Second,
		Concurrency: 4,
		Timeout:     8 * time.Second,
	}
}

// Poller periodically samples every tracked object.
type Poller struct {
	cfg     Config
	objects []Object
	store   store.Store
	sink    UpdateSink
	metrics *metrics.Collector
	logger  *slog.Logger

	ticks atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller. sink and m may be nil.
func New(cfg Config, objects []Object, st store.Store, sink UpdateSink, m *metrics.Collector, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Poller{
		cfg:     cfg,
		objects: objects,
		store:   st,
		sink:    sink,
		metrics: m,
		logger:  logger,
	}
}

// Start begins the tick loop. The first tick runs immediately.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("poller started",
		"interval", p.cfg.Interval,
		"objects", len(p.objects),
		"concurrency", p.cfg.Concurrency,
	)
	return nil
}

// Stop cancels the loop and waits for the current tick to finish.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("poller stopped", "ticks", p.ticks.Load())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ticks returns the number of completed tick cycles.
func (p *Poller) Ticks() int64 {
	return p.ticks.Load()
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.TickAll(p.ctx)

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.TickAll(p.ctx)
		}
	}
}

// TickAll samples every object once, at most Concurrency at a time.
// Failures are logged and counted, never returned.
func (p *Poller) TickAll(ctx context.Context) {
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)

	var accepted, skipped atomic.Int64
	for _, obj := range p.objects {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if _, err := p.Tick(ctx, obj); err != nil {
				skipped.Add(1)
				return nil
			}
			accepted.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	p.ticks.Add(1)
	p.logger.Debug("tick complete",
		"objects", len(p.objects),
		"accepted", accepted.Load(),
		"skipped", skipped.Load(),
		"duration", time.Since(start),
	)
}

// Tick runs the pipeline for one object. On error the stored trajectory is
// unchanged; the error is already logged and counted.
func (p *Poller) Tick(ctx context.Context, obj Object) (publish.Update, error) {
	tickID := uuid.New()
	logger := p.logger.With("object", obj.ID, "tick_id", tickID)

	u, err := p.tick(ctx, obj, tickID)
	result := classify(err)
	if err != nil {
		p.metrics.Tick(obj.ID, result)
		switch result {
		case metrics.ResultMalformed, metrics.ResultNonPositiveInterval:
			logger.Warn("sample rejected", "result", result, "err", err)
		default:
			logger.Error("tick failed", "result", result, "err", err)
		}
		return publish.Update{}, err
	}

	p.metrics.Accepted(obj.ID, u.Sample.Speed, u.Length)
	logger.Info("sample accepted",
		"latitude", u.Sample.Latitude,
		"longitude", u.Sample.Longitude,
		"timestamp", u.Sample.Timestamp,
		"speed", u.Sample.Speed,
		"length", u.Length,
	)
	if p.sink != nil {
		p.sink.Enqueue(u)
	}
	return u, nil
}

func (p *Poller) tick(ctx context.Context, obj Object, tickID uuid.UUID) (publish.Update, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	start := time.Now()
	payload, err := obj.Source.Fetch(fetchCtx)
	cancel()
	p.metrics.ObserveFetch(obj.ID, time.Since(start))
	if err != nil {
		return publish.Update{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	sample, err := sampler.Parse(payload)
	if err != nil {
		return publish.Update{}, err
	}

	traj, err := p.store.Load(ctx, obj.ID)
	if err != nil {
		return publish.Update{}, fmt.Errorf("%w: load: %w", ErrStore, err)
	}

	next, _, err := obj.Estimator.Append(traj, sample)
	if err != nil {
		return publish.Update{}, err
	}

	if err := p.store.Save(ctx, obj.ID, next); err != nil {
		return publish.Update{}, fmt.Errorf("%w: save: %w", ErrStore, err)
	}

	latest, err := trajectory.Latest(next)
	if err != nil {
		return publish.Update{}, err
	}
	status, err := display.FormatStatus(next)
	if err != nil {
		return publish.Update{}, err
	}

	return publish.Update{
		TickID: tickID,
		Object: obj.ID,
		Sample: latest,
		Length: next.Len(),
		Status: status,
	}, nil
}

// classify maps a tick error to a metrics result label.
func classify(err error) string {
	var malformed *sampler.MalformedSampleError
	var interval *trajectory.NonPositiveIntervalError
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.As(err, &malformed):
		return metrics.ResultMalformed
	case errors.As(err, &interval):
		return metrics.ResultNonPositiveInterval
	case errors.Is(err, ErrStore):
		return metrics.ResultStoreError
	default:
		return metrics.ResultFetchError
	}
}
