package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends allocation events to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev AllocationEvent) error
}

// NopPublisher drops every event.  It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AllocationEvent) error { return nil }

// DefaultDialTimeout bounds the TCP connect and AMQP handshake of a publish.
const DefaultDialTimeout = 2 * time.Second

// RabbitPublisher publishes persistent JSON messages to AllocationsQueue
// through the default exchange.  A connection is opened per publish and
// closed before returning.
type RabbitPublisher struct {
	URL         string
	Queue       string
	DialTimeout time.Duration
}

// NewRabbitPublisher returns a publisher for url.
func NewRabbitPublisher(url string) *RabbitPublisher {
	return &RabbitPublisher{URL: url, Queue: AllocationsQueue, DialTimeout: DefaultDialTimeout}
}

// dial connects to url, failing once timeout elapses without a completed
// handshake.
func dial(url string, timeout time.Duration) (*amqp.Connection, error) {
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
}

// Publish dials the broker, declares the queue and sends ev.
func (p *RabbitPublisher) Publish(ctx context.Context, ev AllocationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	conn, err := dial(p.URL, p.DialTimeout)
	if err != nil {
		return errors.Wrap(err, "rabbitmq dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "rabbitmq channel")
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, p.Queue); err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         ev.Type,
		MessageId:    ev.AllocationID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, msg); err != nil {
		return errors.Wrap(err, "rabbitmq publish")
	}
	return nil
}

func declare(ch *amqp.Channel, queue string) error {
	// durable, not auto-deleted, not exclusive
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "queue declare")
	}
	return nil
}
