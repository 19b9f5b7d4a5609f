package mail

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Consumer drains the notification queue and sends emails. It runs in
// its own goroutine and stops when the context is cancelled.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	sender  Sender
	logger  zerolog.Logger
}

// NewConsumer connects to RabbitMQ and declares the notification queue.
func NewConsumer(url, queue string, sender Sender, logger zerolog.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return &Consumer{
		conn:    conn,
		channel: ch,
		queue:   queue,
		sender:  sender,
		logger:  logger.With().Str("component", "mail-consumer").Logger(),
	}, nil
}

// Run consumes events until the context is cancelled. Messages that fail
// to decode are dropped; delivery failures are requeued once by the broker.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume queue %s: %w", c.queue, err)
	}

	c.logger.Info().Str("queue", c.queue).Msg("mail consumer started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("rabbitmq delivery channel closed")
			}
			c.handle(delivery)
		}
	}
}

func (c *Consumer) handle(delivery amqp.Delivery) {
	var event Event
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		c.logger.Error().Err(err).Msg("failed to decode mail event, dropping")
		delivery.Nack(false, false)
		return
	}

	subject, body := render(event)
	if err := c.sender.Send(event.Recipient, subject, body); err != nil {
		c.logger.Error().Err(err).
			Str("kind", event.Kind).
			Str("recipient", event.Recipient).
			Msg("failed to send mail")
		delivery.Nack(false, !delivery.Redelivered)
		return
	}

	c.logger.Info().Str("kind", event.Kind).Str("recipient", event.Recipient).Msg("mail sent")
	delivery.Ack(false)
}

// Close shuts down the channel and connection.
func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func render(event Event) (subject, body string) {
	switch event.Kind {
	case EventWelcome:
		subject = "Welcome to Fashion Shop"
		body = fmt.Sprintf("Hi %s,\n\nYour account has been created. Happy shopping!\n", event.Name)
	case EventOrderConfirmation:
		subject = fmt.Sprintf("Order %s confirmed", event.OrderNum)
		body = fmt.Sprintf("Hi %s,\n\nWe received your order %s with a total of %.0f. We will notify you when it ships.\n",
			event.Name, event.OrderNum, event.Total)
	default:
		subject = "Notification"
		body = "You have a new notification from Fashion Shop.\n"
	}
	return subject, body
}
