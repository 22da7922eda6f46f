package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AMQPSink publishes events to a durable RabbitMQ queue. Messages are
// marked persistent so they survive broker restarts. The sink keeps
// one connection and channel open, dials lazily on first use and drops
// the pair on any failure so the next publish redials; it attempts to
// be robust and to never panic, logging and returning errors so the
// caller can choose to ignore them.
type AMQPSink struct {
	url   string
	queue string
	log   *logrus.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPSink returns a sink for the given broker URL and queue name.
// No connection is made until the first publish.
func NewAMQPSink(url, queue string, log *logrus.Logger) *AMQPSink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AMQPSink{url: url, queue: queue, log: log}
}

// Publish implements Sink.
func (s *AMQPSink) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		s.log.WithError(err).Warn("rabbitmq: marshal event failed")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ch, err := s.channelLocked()
	if err != nil {
		s.log.WithError(err).Warn("rabbitmq: channel unavailable")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		s.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		s.log.WithError(err).Warn("rabbitmq: publish failed")
		s.dropLocked()
		return err
	}
	return nil
}

// Close releases the connection. Further publishes redial.
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.ch = nil
	return err
}

// channelLocked returns the open channel, dialing and declaring the
// queue when needed. The caller must hold the mutex.
func (s *AMQPSink) channelLocked() (*amqp.Channel, error) {
	if s.ch != nil {
		return s.ch, nil
	}
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	// Ensure the queue exists (idempotent). Durable so messages survive
	// broker restarts.
	if _, err := ch.QueueDeclare(
		s.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	s.conn = conn
	s.ch = ch
	return ch, nil
}

// dropLocked discards the connection pair after a failure. The caller
// must hold the mutex.
func (s *AMQPSink) dropLocked() {
	if s.ch != nil {
		_ = s.ch.Close()
		s.ch = nil
	}
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}
