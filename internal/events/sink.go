package events

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Sink carries events somewhere useful. Publish must be safe for
// concurrent use and should return quickly; the engine treats a
// publish failure as a telemetry gap, not an operation failure.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// NopSink discards every event. It stands in when telemetry is
// disabled so the engine never needs a nil check.
type NopSink struct{}

// Publish implements Sink.
func (NopSink) Publish(context.Context, Event) error { return nil }

// LogSink writes every event to the structured log.
type LogSink struct {
	log *logrus.Logger
}

// NewLogSink returns a sink writing to log, or to the standard logger
// when log is nil.
func NewLogSink(log *logrus.Logger) *LogSink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogSink{log: log}
}

// Publish implements Sink. Failed events log at warning level so
// operators can alert on them without parsing payloads.
func (s *LogSink) Publish(_ context.Context, ev Event) error {
	entry := s.log.WithFields(logrus.Fields{
		"event_id":         ev.ID,
		"kind":             ev.Kind(),
		"reservation_id":   ev.ReservationID,
		"client_id":        ev.ClientID,
		"accommodation_id": ev.AccommodationID,
		"room_id":          ev.RoomID,
	})
	for k, v := range ev.Details {
		entry = entry.WithField(k, v)
	}
	if ev.Phase == PhaseFailed {
		entry.WithField("error", ev.Error).Warn("booking event")
		return nil
	}
	entry.Info("booking event")
	return nil
}

// MultiSink fans every event out to all of its sinks. Each sink sees
// every event even when an earlier one fails; the failures come back
// joined.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink returns a sink publishing to every given sink in order.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Publish implements Sink.
func (s *MultiSink) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
