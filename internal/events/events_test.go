package events

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type recordingSink struct {
	events []Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, ev Event) error {
	s.events = append(s.events, ev)
	return s.err
}

func TestNewEventHasIdentityAndTime(t *testing.T) {
	ev := New(OpReservationCreate, PhaseAttempt)
	if ev.ID == "" {
		t.Fatalf("event id must be set")
	}
	if ev.OccurredAt.IsZero() {
		t.Fatalf("event time must be set")
	}
	if ev.OccurredAt.Location() != time.UTC {
		t.Fatalf("event time must be UTC, got %s", ev.OccurredAt.Location())
	}

	other := New(OpReservationCreate, PhaseAttempt)
	if other.ID == ev.ID {
		t.Fatalf("event ids must be unique")
	}
}

func TestEventKind(t *testing.T) {
	cases := []struct {
		op    Op
		phase Phase
		want  string
	}{
		{OpReservationCreate, PhaseAttempt, "reservation.create.attempt"},
		{OpReservationCancel, PhaseFailed, "reservation.cancel.failed"},
		{OpPaymentRecord, PhaseSucceeded, "payment.record.succeeded"},
	}
	for _, tc := range cases {
		if got := New(tc.op, tc.phase).Kind(); got != tc.want {
			t.Fatalf("Kind(%s, %s) = %q, want %q", tc.op, tc.phase, got, tc.want)
		}
	}
}

func TestMultiSinkFansOutPastFailures(t *testing.T) {
	boom := errors.New("broker down")
	failing := &recordingSink{err: boom}
	healthy := &recordingSink{}
	multi := NewMultiSink(failing, healthy)

	ev := New(OpReservationCreate, PhaseSucceeded)
	err := multi.Publish(context.Background(), ev)
	if !errors.Is(err, boom) {
		t.Fatalf("fan-out must surface the sink error, got %v", err)
	}
	if len(failing.events) != 1 || len(healthy.events) != 1 {
		t.Fatalf("every sink must see the event: %d / %d", len(failing.events), len(healthy.events))
	}
	if healthy.events[0].ID != ev.ID {
		t.Fatalf("sink received a different event")
	}
}

func TestNopSinkAcceptsEverything(t *testing.T) {
	if err := (NopSink{}).Publish(context.Background(), New(OpPaymentRecord, PhaseFailed)); err != nil {
		t.Fatalf("NopSink.Publish: %v", err)
	}
}

func TestFormatAuditLine(t *testing.T) {
	ev := Event{
		ID:              "ev-1",
		Op:              OpReservationCreate,
		Phase:           PhaseSucceeded,
		OccurredAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		ReservationID:   5,
		ClientID:        7,
		AccommodationID: 2,
		RoomID:          3,
	}
	line := FormatAuditLine(ev)
	for _, want := range []string{
		"[2026-08-01T12:00:00Z]",
		"reservation.create.succeeded",
		"event_id=ev-1",
		"reservation_id=5",
		"client_id=7",
		"accommodation_id=2",
		"room_id=3",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("audit line missing %q: %s", want, line)
		}
	}
	if strings.Contains(line, "error=") {
		t.Fatalf("successful event must not carry an error field: %s", line)
	}

	ev.Phase = PhaseFailed
	ev.Error = "room is booked"
	line = FormatAuditLine(ev)
	if !strings.Contains(line, `error="room is booked"`) {
		t.Fatalf("failed event must carry the error: %s", line)
	}
}

func TestAppendAuditLine(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "reservations.log")

	ev := New(OpReservationCheckIn, PhaseSucceeded)
	ev.ReservationID = 9
	body, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := appendAuditLine(body, logPath); err != nil {
		t.Fatalf("appendAuditLine: %v", err)
	}
	if err := appendAuditLine([]byte("{not json"), logPath); err == nil {
		t.Fatalf("malformed payload must be rejected")
	}
	if err := appendAuditLine(body, logPath); err != nil {
		t.Fatalf("second append: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("log has %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "reservation.checkin.succeeded") {
		t.Fatalf("unexpected first line: %s", lines[0])
	}
}
