package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

const (
	confirmedQueueName = "booking.confirmed"
	cancelledQueueName = "booking.cancelled"
)

// Notifier publishes booking lifecycle events to RabbitMQ. It is the
// best-effort side channel for outbound notifications: every failure
// is logged and swallowed, so a broker outage can never affect the
// outcome of the booking operation that triggered the event.
type Notifier struct {
	url string
}

// NewNotifier returns a Notifier that dials the given AMQP URL per
// publish.
func NewNotifier(url string) *Notifier { return &Notifier{url: url} }

// TripSummary renders the human-readable one-line description of a
// booked trip used in notifications.
func TripSummary(rec *model.BookingRecord) string {
	return fmt.Sprintf("%s (%s) from %s to %s on %s at %s",
		rec.TrainName, rec.TrainNumber, rec.Origin, rec.Destination,
		rec.ServiceDate, rec.DepartureTime)
}

// BookingConfirmed publishes a BookingConfirmedEvent. Errors are
// logged, never returned.
func (n *Notifier) BookingConfirmed(ctx context.Context, rec *model.BookingRecord) {
	ev := BookingConfirmedEvent{
		BookingID:     rec.ID,
		PNR:           rec.PNR,
		PassengerName: rec.PassengerName,
		Recipient:     rec.PassengerEmail,
		SeatCount:     rec.SeatCount,
		TotalAmount:   rec.TotalAmount,
		TripSummary:   TripSummary(rec),
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := n.publish(ctx, confirmedQueueName, ev); err != nil {
		log.Printf("notifier: publish confirmation for booking %d failed: %v", rec.ID, err)
	}
}

// BookingCancelled publishes a BookingCancelledEvent. Errors are
// logged, never returned.
func (n *Notifier) BookingCancelled(ctx context.Context, rec *model.BookingRecord) {
	ev := BookingCancelledEvent{
		BookingID:     rec.ID,
		PNR:           rec.PNR,
		PassengerName: rec.PassengerName,
		Recipient:     rec.PassengerEmail,
		CancelledAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := n.publish(ctx, cancelledQueueName, ev); err != nil {
		log.Printf("notifier: publish cancellation for booking %d failed: %v", rec.ID, err)
	}
}

// publish declares the queue (idempotent, durable) and sends one
// persistent JSON message to it over a fresh connection.
func (n *Notifier) publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(n.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
