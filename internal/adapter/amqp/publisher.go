package amqp

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/simaogato/wealthflow-insights/internal/domain"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel the publisher needs
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends summary events to a durable topic exchange
type Publisher struct {
	conn       *amqp091.Connection
	channel    channel
	exchange   string
	routingKey string
	now        func() time.Time
}

// NewPublisher dials url and declares the exchange
func NewPublisher(url, exchange, routingKey string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := newPublisher(ch, exchange, routingKey)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	p.conn = conn

	return p, nil
}

func newPublisher(ch channel, exchange, routingKey string) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Publisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		now:        time.Now,
	}, nil
}

// PublishSummaryCreated publishes a SummaryCreatedMessage for summary
func (p *Publisher) PublishSummaryCreated(ctx context.Context, summary *domain.MonthlySummary) error {
	now := p.now()
	msg := NewSummaryCreatedMessage(summary, now)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    summary.ID.String(),
			Timestamp:    now,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("summary_id", summary.ID.String()).
		Str("user_id", summary.UserID.String()).
		Str("period", summary.Period().String()).
		Str("exchange", p.exchange).
		Msg("published summary created event")

	return nil
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
