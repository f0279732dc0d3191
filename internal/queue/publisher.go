package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	TicketsIssuedQueue  = "tickets.issued"
	TicketRedeemedQueue = "ticket.redeemed"
)

// Publisher publishes domain events to RabbitMQ. Publish failures are
// returned so callers can log and continue; the main request flow never
// depends on the broker.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher connects to the broker and declares the queues it uses
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Durable so messages survive broker restarts.
	for _, name := range []string{TicketsIssuedQueue, TicketRedeemedQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

// PublishTicketsIssued publishes a TicketsIssuedEvent
func (p *Publisher) PublishTicketsIssued(ctx context.Context, event TicketsIssuedEvent) error {
	return p.publish(ctx, TicketsIssuedQueue, event)
}

// PublishTicketRedeemed publishes a TicketRedeemedEvent
func (p *Publisher) PublishTicketRedeemed(ctx context.Context, event TicketRedeemedEvent) error {
	return p.publish(ctx, TicketRedeemedQueue, event)
}

func (p *Publisher) publish(ctx context.Context, queueName string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := p.ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}

	return nil
}

// Close releases the channel and connection
func (p *Publisher) Close() error {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
