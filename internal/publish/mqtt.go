package publish

import (
	"context"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/rickgao/orbit-tracker/internal/config"
)

// mqttClient is the subset of mqtt.Client used here.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher publishes each update to <prefix>/<object>/position.
type MQTTPublisher struct {
	client mqttClient
	cfg    config.MQTTConfig
	logger *slog.Logger
}

// ConnectMQTT connects to the configured broker.
func ConnectMQTT(ctx context.Context, cfg config.MQTTConfig, logger *slog.Logger) (*MQTTPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warn("mqtt connection lost", "broker", cfg.Broker, "err", err)
		}).
		SetOnConnectHandler(func(_ mqtt.Client) {
			logger.Info("mqtt connected", "broker", cfg.Broker)
		})

	client := mqtt.NewClient(opts)
	if err := waitToken(ctx, client.Connect()); err != nil {
		return nil, fmt.Errorf("connect mqtt %s: %w", cfg.Broker, err)
	}
	return NewMQTTPublisher(client, cfg, logger), nil
}

// NewMQTTPublisher wraps an already connected client.
func NewMQTTPublisher(client mqttClient, cfg config.MQTTConfig, logger *slog.Logger) *MQTTPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &MQTTPublisher{client: client, cfg: cfg, logger: logger}
}

// Topic returns the topic updates for object are published on.
func (p *MQTTPublisher) Topic(object string) string {
	return p.cfg.TopicPrefix + "/" + object + "/position"
}

func (p *MQTTPublisher) Name() string { return "mqtt" }

func (p *MQTTPublisher) Publish(ctx context.Context, u Update) error {
	payload, err := u.Marshal()
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}
	if err := waitToken(ctx, p.client.Publish(p.Topic(u.Object), p.cfg.QoS, p.cfg.Retain, payload)); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", p.Topic(u.Object), err)
	}
	p.logger.Debug("published update", "topic", p.Topic(u.Object), "tick_id", u.TickID)
	return nil
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}

// waitToken waits for a paho token or ctx, whichever finishes first.
func waitToken(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

