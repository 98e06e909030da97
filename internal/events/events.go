// Package events publishes reservation lifecycle events to RabbitMQ so other
// systems (kitchen display, analytics) can follow along. Publishing is best
// effort: errors are logged and returned, and callers are free to ignore them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/daralachab/reservation-api/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Type string

const (
	ReservationCreated        Type = "reservation.created"
	ReservationStatusChanged  Type = "reservation.status_changed"
	ReservationPersonsChanged Type = "reservation.persons_changed"
	ReservationDeleted        Type = "reservation.deleted"
)

type ReservationEvent struct {
	Type          Type          `json:"type"`
	ReservationID string        `json:"reservation_id"`
	Status        models.Status `json:"status,omitempty"`
	Persons       int           `json:"persons,omitempty"`
	Date          string        `json:"date,omitempty"`
	Time          string        `json:"time,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// NewReservationEvent snapshots r for the given event type.
func NewReservationEvent(t Type, r models.Reservation, now time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          t,
		ReservationID: r.ID,
		Status:        r.Status,
		Persons:       r.Persons,
		Date:          r.Date,
		Time:          r.Time,
		OccurredAt:    now.UTC(),
	}
}

type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// dialer opens a channel and returns a func that closes the connection. It
// must give up once ctx is done.
type dialer func(ctx context.Context, url string) (channel, func() error, error)

// dialAMQP bounds the TCP connect and the AMQP handshake by ctx's deadline.
// The client clears the deadline once the connection is open.
func dialAMQP(ctx context.Context, url string) (channel, func() error, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			var d net.Dialer
			c, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			if deadline, ok := ctx.Deadline(); ok {
				if err := c.SetDeadline(deadline); err != nil {
					_ = c.Close()
					return nil, err
				}
			}
			return c, nil
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, conn.Close, nil
}

type Publisher struct {
	url     string
	queue   string
	timeout time.Duration
	dial    dialer
	log     *zap.Logger
}

// NewPublisher returns a publisher for the durable queue. An empty url
// yields a disabled publisher whose Publish is a no-op.
func NewPublisher(url, queue string, log *zap.Logger) *Publisher {
	return &Publisher{
		url:     url,
		queue:   queue,
		timeout: 5 * time.Second,
		dial:    dialAMQP,
		log:     log.Named("events"),
	}
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.url != ""
}

// Publish sends ev as a persistent JSON message on the default exchange,
// routed by queue name. Dialing and publishing together take at most the
// publisher's timeout.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
	if !p.Enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("failed to marshal event", zap.String("type", string(ev.Type)), zap.Error(err))
		return err
	}

	ch, closeConn, err := p.dial(ctx, p.url)
	if err != nil {
		p.log.Warn("rabbitmq unavailable, event dropped", zap.String("type", string(ev.Type)), zap.Error(err))
		return err
	}
	defer func() {
		_ = ch.Close()
		_ = closeConn()
	}()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.log.Warn("queue declare failed", zap.String("queue", p.queue), zap.Error(err))
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         string(ev.Type),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.log.Warn("publish failed", zap.String("type", string(ev.Type)), zap.Error(err))
		return err
	}

	p.log.Debug("event published", zap.String("type", string(ev.Type)), zap.String("reservation_id", ev.ReservationID))
	return nil
}
