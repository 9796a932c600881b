// Package queue also contains the background consumer that turns
// booking lifecycle events into passenger notifications. Real delivery
// is an external concern; the consumer renders the message text and
// appends it to logs/notifications.log.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const notificationLogPath = "notifications.log"

// StartNotificationConsumer connects to RabbitMQ, declares the
// booking.confirmed and booking.cancelled queues (durable), and starts
// consuming both. The function runs a reconnect loop with exponential
// backoff and never returns under normal operation; processing errors
// are logged and the offending message rejected without requeue so the
// consumer keeps moving.
func StartNotificationConsumer(url string) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("notification-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("notification-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("notification-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{confirmedQueueName, cancelledQueueName} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	confirmed, err := ch.Consume(confirmedQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", confirmedQueueName, err)
	}
	cancelled, err := ch.Consume(cancelledQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", cancelledQueueName, err)
	}

	for {
		var d amqp.Delivery
		var ok bool
		var render func([]byte) (string, error)
		select {
		case d, ok = <-confirmed:
			render = renderConfirmation
		case d, ok = <-cancelled:
			render = renderCancellation
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		text, err := render(d.Body)
		if err == nil {
			err = appendNotification(text)
		}
		if err != nil {
			log.Printf("notification-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
}

// renderConfirmation builds the confirmation message a mail sender
// would deliver for the event payload.
func renderConfirmation(body []byte) (string, error) {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}
	return fmt.Sprintf(
		"To: %s\nSubject: Booking Confirmation - PNR: %s\n\n"+
			"Dear %s,\n\n"+
			"Your train booking has been confirmed!\n\n"+
			"PNR Number: %s\n"+
			"Train Details: %s\n"+
			"Seats: %d\n"+
			"Total Amount: %.2f\n\n"+
			"Please keep this PNR number for future reference.\n",
		ev.Recipient, ev.PNR, ev.PassengerName, ev.PNR, ev.TripSummary, ev.SeatCount, ev.TotalAmount,
	), nil
}

// renderCancellation builds the cancellation message for the event
// payload.
func renderCancellation(body []byte) (string, error) {
	var ev BookingCancelledEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}
	return fmt.Sprintf(
		"To: %s\nSubject: Booking Cancellation - PNR: %s\n\n"+
			"Dear %s,\n\n"+
			"Your train booking with PNR %s has been cancelled successfully.\n\n"+
			"If you have any questions, please contact our customer service.\n",
		ev.Recipient, ev.PNR, ev.PassengerName, ev.PNR,
	), nil
}

func appendNotification(text string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", notificationLogPath)
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(text + "\n---\n"); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
