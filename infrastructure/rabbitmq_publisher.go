package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/villagenews/video-service/domain"
)

// RabbitMQPublisher emits video lifecycle events to a durable queue
// consumed by the moderation and notification side.
type RabbitMQPublisher struct {
	conn  *amqp.Connection
	queue string
}

// NewRabbitMQPublisher declares the durable queue once and returns a
// publisher bound to it.
func NewRabbitMQPublisher(conn *amqp.Connection, queue string) (*RabbitMQPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &RabbitMQPublisher{conn: conn, queue: queue}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event domain.VideoEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

var _ domain.EventPublisher = (*RabbitMQPublisher)(nil)
