package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ is a sink that announces record additions and deletions on an exchange.
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	err = ch.QueueBind(
		q.Name,
		cfg.RoutingKey,
		cfg.Exchange,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger.With("sink", "rabbitmq"),
	}, nil
}

const (
	ActionAdd    = "add"
	ActionDelete = "delete"
)

// RecordMessage is published for every record sent to or removed from the sink.
type RecordMessage struct {
	Action     string    `json:"action"`
	Identifier string    `json:"identifier"`
	Payload    string    `json:"payload,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func (r *RabbitMQ) Upload(ctx context.Context, identifier string, payload []byte) error {
	return r.publish(ctx, RecordMessage{
		Action:     ActionAdd,
		Identifier: identifier,
		Payload:    string(payload),
		Timestamp:  time.Now().UTC(),
	})
}

func (r *RabbitMQ) Delete(ctx context.Context, identifier string) error {
	return r.publish(ctx, RecordMessage{
		Action:     ActionDelete,
		Identifier: identifier,
		Timestamp:  time.Now().UTC(),
	})
}

func (r *RabbitMQ) publish(ctx context.Context, msg RecordMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    msg.Identifier,
			Type:         msg.Action,
			Body:         body,
			Timestamp:    msg.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s %s: %w", msg.Action, msg.Identifier, err)
	}

	r.logger.Debug("published record",
		"identifier", msg.Identifier,
		"action", msg.Action,
	)

	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
