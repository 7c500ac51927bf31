package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/application/feedback"
)

const (
	DefaultExchange = "course.feedback"

	RoutingUserRegistered    = "user.registered"
	RoutingUserBlocked       = "user.blocked"
	RoutingFeedbackSubmitted = "feedback.submitted"

	confirmWait = 2 * time.Second
)

// Publisher sends domain events to a durable topic exchange with publisher
// confirms. One channel is shared and guarded by mu.
type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	now       func() time.Time
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{url: url, exchange: exchange, now: time.Now}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetConn()
	return nil
}

func (p *Publisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	return p.publishJSON(ctx, RoutingUserRegistered, evt)
}

func (p *Publisher) PublishUserBlocked(ctx context.Context, evt auth.UserBlockedEvent) error {
	return p.publishJSON(ctx, RoutingUserBlocked, evt)
}

func (p *Publisher) PublishFeedbackSubmitted(ctx context.Context, evt feedback.FeedbackSubmittedEvent) error {
	return p.publishJSON(ctx, RoutingFeedbackSubmitted, evt)
}

type envelope struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func encode(routingKey string, at time.Time, payload any) ([]byte, error) {
	body, err := json.Marshal(envelope{Event: routingKey, OccurredAt: at.UTC(), Data: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", routingKey, err)
	}
	return body, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("confirm mode: %w", err)
	}

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) ensureConnected() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
		return nil
	}
	return p.connect()
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, payload any) error {
	body, err := encode(routingKey, p.now(), payload)
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	// Drop confirms left over from a publish that timed out.
drain:
	for {
		select {
		case <-p.confirmCh:
		default:
			break drain
		}
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now(),
		Type:         routingKey,
		Body:         body,
	}); err != nil {
		p.resetConn()
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	select {
	case conf, ok := <-p.confirmCh:
		if !ok {
			p.resetConn()
			return fmt.Errorf("rabbitmq channel closed: key=%s", routingKey)
		}
		if !conf.Ack {
			return fmt.Errorf("rabbitmq nack: key=%s deliveryTag=%d", routingKey, conf.DeliveryTag)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("rabbitmq confirm %s: %w", routingKey, ctx.Err())
	}
}

func (p *Publisher) resetConn() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
