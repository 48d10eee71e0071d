package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/board-system/board-api/internal/core/domain"
)

const (
	dialAttempts  = 6
	dialBackoff   = 5 * time.Second
	exchangeTopic = "topic"
)

// Config captures the RabbitMQ connection settings.
type Config struct {
	URL      string
	Exchange string
}

// amqpChannel is the subset of *amqp.Channel the publisher needs.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes domain events to a topic exchange, routed by event type.
type RabbitPublisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	log      zerolog.Logger
}

type eventMessage struct {
	Type       string            `json:"type"`
	Key        string            `json:"key"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewRabbitPublisher dials RabbitMQ, retrying for up to thirty seconds, and
// declares the durable exchange.
func NewRabbitPublisher(cfg Config, log zerolog.Logger) (*RabbitPublisher, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(cfg.URL)
		if err == nil {
			break
		}
		log.Warn().Err(err).Msgf("failed to connect to RabbitMQ, retrying in 5s... (%d/%d)", i+1, dialAttempts)
		time.Sleep(dialBackoff)
	}
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, exchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &RabbitPublisher{conn: conn, channel: ch, exchange: cfg.Exchange, log: log}, nil
}

// Publish sends e as a persistent JSON message with the event type as routing key.
func (p *RabbitPublisher) Publish(ctx context.Context, e domain.Event) error {
	body, err := json.Marshal(eventMessage{
		Type:       string(e.Type),
		Key:        e.Key,
		Attributes: e.Attributes,
		OccurredAt: e.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, string(e.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}

	p.log.Debug().Str("type", string(e.Type)).Str("key", e.Key).Msg("event published")
	return nil
}

// Close closes the channel and connection.
func (p *RabbitPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
