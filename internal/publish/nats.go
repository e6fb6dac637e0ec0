package publish

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/rickgao/orbit-tracker/internal/config"
)

// natsConn is the subset of *nats.Conn used here.
type natsConn interface {
	Publish(subj string, data []byte) error
	Close()
}

// NATSPublisher publishes each update to <prefix>.<object>.position.
type NATSPublisher struct {
	conn   natsConn
	prefix string
}

// ConnectNATS dials the configured server with reconnect handling.
func ConnectNATS(cfg config.NATSConfig, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("nats disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("nats connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", cfg.URL, err)
	}
	return NewNATSPublisher(nc, cfg.SubjectPrefix), nil
}

// NewNATSPublisher wraps an open connection.
func NewNATSPublisher(conn natsConn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Subject returns the subject updates for object are published on.
func (p *NATSPublisher) Subject(object string) string {
	return p.prefix + "." + object + ".position"
}

func (p *NATSPublisher) Name() string { return "nats" }

func (p *NATSPublisher) Publish(_ context.Context, u Update) error {
	payload, err := u.Marshal()
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}
	if err := p.conn.Publish(p.Subject(u.Object), payload); err != nil {
		return fmt.Errorf("nats publish %s: %w", p.Subject(u.Object), err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}
