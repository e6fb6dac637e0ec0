package publish

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DropCounter is notified of each dropped update.
type DropCounter interface {
	Dropped()
}

// Config holds dispatcher configuration.
type Config struct {
	BufferSize     int           // Max pending updates (default: 256)
	PublishTimeout time.Duration // Per-publisher deadline (default: 5s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:     256,
		PublishTimeout: 5 * time.Second,
	}
}

// Dispatcher queues updates and delivers them to all publishers in order.
type Dispatcher struct {
	cfg        Config
	publishers []Publisher
	drops      DropCounter
	logger     *slog.Logger

	mu    sync.Mutex
	queue chan Update

	dropped   atomic.Int64
	delivered atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher. drops may be nil.
func NewDispatcher(cfg Config, publishers []Publisher, drops DropCounter, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 1
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultConfig().PublishTimeout
	}
	return &Dispatcher{
		cfg:        cfg,
		publishers: publishers,
		drops:      drops,
		logger:     logger,
		queue:      make(chan Update, cfg.BufferSize),
	}
}

// Enqueue adds u without blocking. When the queue is full the oldest pending
// update is discarded to make room.
func (d *Dispatcher) Enqueue(u Update) {
	if len(d.publishers) == 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for {
		select {
		case d.queue <- u:
			return
		default:
		}

		select {
		case old := <-d.queue:
			d.dropped.Add(1)
			if d.drops != nil {
				d.drops.Dropped()
			}
			d.logger.Warn("publish queue full, dropping update",
				"object", old.Object,
				"tick_id", old.TickID,
			)
		default:
		}
	}
}

// Start begins delivering queued updates.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go d.run()

	names := make([]string, 0, len(d.publishers))
	for _, p := range d.publishers {
		names = append(names, p.Name())
	}
	d.logger.Info("dispatcher started",
		"publishers", names,
		"buffer_size", d.cfg.BufferSize,
	)
	return nil
}

// Stop delivers what is still queued, then closes all publishers. If ctx
// ends while a delivery is in flight, the publishers are closed once it
// returns, not before.
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.drain(ctx)
		d.closePublishers()
		d.logger.Info("dispatcher stopped",
			"delivered", d.delivered.Load(),
			"dropped", d.dropped.Load(),
		)
		return nil
	case <-ctx.Done():
		d.logger.Warn("dispatcher stop timed out, closing publishers after in-flight delivery",
			"delivered", d.delivered.Load(),
			"dropped", d.dropped.Load(),
		)
		go func() {
			<-done
			d.closePublishers()
		}()
		return ctx.Err()
	}
}

func (d *Dispatcher) closePublishers() {
	for _, p := range d.publishers {
		if err := p.Close(); err != nil {
			d.logger.Warn("close publisher failed", "publisher", p.Name(), "err", err)
		}
	}
}

// Dropped returns how many updates were discarded.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Delivered returns how many updates reached every publisher.
func (d *Dispatcher) Delivered() int64 {
	return d.delivered.Load()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		case u := <-d.queue:
			d.deliver(d.ctx, u)
		}
	}
}

// drain delivers remaining updates until the queue is empty or ctx ends.
func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-d.queue:
			d.deliver(ctx, u)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, u Update) {
	ok := true
	for _, p := range d.publishers {
		pctx, cancel := context.WithTimeout(ctx, d.cfg.PublishTimeout)
		err := p.Publish(pctx, u)
		cancel()
		if err != nil {
			ok = false
			d.logger.Warn("publish failed",
				"publisher", p.Name(),
				"object", u.Object,
				"tick_id", u.TickID,
				"err", err,
			)
		}
	}
	if ok {
		d.delivered.Add(1)
	}
}
