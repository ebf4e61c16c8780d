// Package events publishes order events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
)

// OrderCreated is the message body for a new order.
type OrderCreated struct {
	OrderID   string            `json:"orderId"`
	UserID    string            `json:"userId"`
	Total     float64           `json:"total"`
	Items     []models.LineItem `json:"items"`
	CreatedAt time.Time         `json:"createdAt"`
}

func NewOrderCreated(o *models.Order) OrderCreated {
	return OrderCreated{
		OrderID:   o.ID.Hex(),
		UserID:    o.UserID.Hex(),
		Total:     o.Total,
		Items:     o.Items,
		CreatedAt: o.CreatedAt,
	}
}

// channel is the slice of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	conn  *amqp.Connection
	ch    channel
	queue string
}

// Dial connects to the broker and declares a durable queue.
func Dial(uri, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	slog.Info("RabbitMQ connected", "queue", q.Name)
	return &Publisher{conn: conn, ch: ch, queue: q.Name}, nil
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, o *models.Order) error {
	body, err := json.Marshal(NewOrderCreated(o))
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    o.ID.Hex(),
		Type:         "order.created",
		Timestamp:    o.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		slog.Warn("Error closing rabbitmq channel", "error", err)
	}
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// Discard drops every event. It is used when no broker is configured.
type Discard struct{}

func (Discard) PublishOrderCreated(context.Context, *models.Order) error { return nil }
