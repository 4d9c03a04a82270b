package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// AMQPNotifier propagates change events through a topic exchange so that
// every device subscribed to the household sees them. One published event
// fans out to one queue per subscriber.
type AMQPNotifier struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()

		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPNotifier{conn: conn, channel: channel, exchange: exchange}, nil
}

func (n *AMQPNotifier) Close() error {
	if err := n.channel.Close(); err != nil {
		return err
	}

	return n.conn.Close()
}

func (n *AMQPNotifier) Publish(ctx context.Context, ev Event) {
	ev.Scope = ev.scopeOrDefault()

	body, err := json.Marshal(ev)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal change event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = n.channel.PublishWithContext(
		ctx,
		n.exchange, // exchange
		ev.Scope,   // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		// Best effort: subscribers fall back to their own refresh cycle.
		slog.WarnContext(ctx, "failed to publish change event",
			"error", err, "scope", ev.Scope, "collection", ev.Collection)
	}
}

func (n *AMQPNotifier) Subscribe(scope string, fn func(Event)) func() {
	if scope == "" {
		scope = DefaultScope
	}

	done := make(chan struct{})

	go func() {
		if err := n.consume(scope, fn, done); err != nil {
			slog.Warn("change event subscription ended", "error", err, "scope", scope)
		}
	}()

	return func() { close(done) }
}

func (n *AMQPNotifier) consume(scope string, fn func(Event), done <-chan struct{}) error {
	// Each subscriber gets its own exclusive queue so that every device
	// receives every event.
	channel, err := n.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer channel.Close()

	queue, err := channel.QueueDeclare(
		"",    // name (server generated)
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := channel.QueueBind(queue.Name, scope, n.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := channel.Consume(
		queue.Name, // queue
		"",         // consumer
		true,       // auto-ack: at-least-once hints, loss is tolerated
		true,       // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}

			var ev Event
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				slog.Warn("discarding malformed change event", "error", err)
				continue
			}

			fn(ev)
		case <-done:
			return nil
		}
	}
}
