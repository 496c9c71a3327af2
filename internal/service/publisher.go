package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/game-slot-booking/internal/config"
	"github.com/iliyamo/game-slot-booking/internal/queue"
)

// EventPublisher announces admitted bookings to downstream consumers.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, event queue.BookingCreatedEvent) error
}

// NopPublisher drops every event.  It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) PublishBookingCreated(context.Context, queue.BookingCreatedEvent) error {
	return nil
}

// RabbitPublisher publishes events to a durable RabbitMQ queue.  Each call
// dials its own connection; admission volume is a few requests a minute.
type RabbitPublisher struct {
	cfg config.EventsConfig
	log *logrus.Logger
}

// NewPublisher returns a RabbitPublisher when events are enabled and a
// NopPublisher otherwise.
func NewPublisher(cfg config.EventsConfig, log *logrus.Logger) EventPublisher {
	if !cfg.Enabled {
		return NopPublisher{}
	}
	return &RabbitPublisher{cfg: cfg, log: log}
}

// PublishBookingCreated sends event as a persistent JSON message.  Errors
// are logged and returned so the caller can choose to ignore them.
func (p *RabbitPublisher) PublishBookingCreated(ctx context.Context, event queue.BookingCreatedEvent) error {
	entry := p.log.WithFields(logrus.Fields{"queue": p.cfg.Queue, "booking_id": event.BookingID})

	conn, err := amqp.DialConfig(p.cfg.URL, amqp.Config{Dial: amqp.DefaultDial(2 * time.Second)})
	if err != nil {
		entry.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		entry.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
		entry.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, pub); err != nil {
		entry.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}
