package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// StartAuditConsumer connects to RabbitMQ, declares the event queue
// (durable), and starts consuming. Each event is appended to the audit
// log file in a single-line, human-friendly format. The function runs
// a reconnect loop and never returns on broker failures; it keeps
// retrying with backoff and rejects messages it cannot process so the
// engine continues operating. Run it on its own goroutine.
func StartAuditConsumer(url, queue, logPath string, log *logrus.Logger) error {
	if log == nil {
		log = logrus.StandardLogger()
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.WithError(err).Warnf("audit-consumer: failed to dial broker; retrying in %s", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, queue, logPath); err != nil {
			log.WithError(err).Warn("audit-consumer: consume loop ended; reconnecting")
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, queue, logPath string) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := appendAuditLine(d.Body, logPath); err != nil {
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func appendAuditLine(body []byte, logPath string) error {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatAuditLine(ev) + "\n"); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatAuditLine renders one event as the single audit log line the
// consumer appends.
func FormatAuditLine(ev Event) string {
	line := fmt.Sprintf("[%s] %s | event_id=%s | reservation_id=%d | client_id=%d | accommodation_id=%d | room_id=%d",
		ev.OccurredAt.Format(time.RFC3339), ev.Kind(), ev.ID, ev.ReservationID, ev.ClientID, ev.AccommodationID, ev.RoomID)
	if ev.Error != "" {
		line += fmt.Sprintf(" | error=%q", ev.Error)
	}
	return line
}
