// Package notify publishes storefront events to RabbitMQ.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"petrugs-storefront/internal/domain"
	"petrugs-storefront/internal/logging"
)

const (
	DefaultExchange   = "storefront.contact"
	ContactCreatedKey = "contact.created"
	publishTimeout    = 10 * time.Second
)

// Publisher sends contact events to a durable topic exchange. A single
// channel is shared, so publishes are serialized.
type Publisher struct {
	exchange string
	logger   *slog.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Dial connects to url and declares exchange if missing.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	p := &Publisher{
		exchange: exchange,
		logger:   logging.OrDiscard(logger).With("component", "notify", "exchange", exchange),
		conn:     conn,
		channel:  ch,
	}
	p.logger.Info("rabbitmq publisher ready")
	return p, nil
}

// ContactCreated publishes m with routing key contact.created.
func (p *Publisher) ContactCreated(ctx context.Context, m domain.ContactMessage, traceID string) error {
	msg, err := encodeContactEvent(m, traceID, time.Now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil || p.conn == nil || p.conn.IsClosed() {
		return errors.New("rabbitmq publisher closed")
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.channel.PublishWithContext(ctx, p.exchange, ContactCreatedKey, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", ContactCreatedKey, err)
	}
	p.logger.Debug("published contact event", "id", m.ID)
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
		p.channel = nil
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
		p.conn = nil
	}
	return errors.Join(errs...)
}

func encodeContactEvent(m domain.ContactMessage, traceID string, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal contact message: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    m.ID,
		Timestamp:    now,
		Type:         ContactCreatedKey,
		Body:         body,
		Headers:      amqp.Table{},
	}
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}
	return msg, nil
}
