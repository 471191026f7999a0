package sim

import (
	"errors"
	"testing"
)

type recordingWriter struct {
	events []Event
	batch  int
	admin  bool
	closed bool
	closes int
	err    error
}

func (r *recordingWriter) WriteEvent(ev Event) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingWriter) SetAdminStatus(active bool) { r.admin = active }

func (r *recordingWriter) Close() error {
	r.closed = true
	r.closes++
	return nil
}

type batchRecordingWriter struct{ recordingWriter }

func (b *batchRecordingWriter) WriteEvents(evs []Event) error {
	b.batch++
	b.events = append(b.events, evs...)
	return nil
}

func TestMultiWriterFanOut(t *testing.T) {
	a, b := &recordingWriter{}, &batchRecordingWriter{}
	mw := NewMultiWriter(a, nil, b)
	if err := mw.WriteEvent(Event{EventType: EventSessionStart}); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if err := mw.WriteEvents([]Event{{EventType: EventSystemState}, {EventType: EventSessionEnd}}); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if len(a.events) != 3 || len(b.events) != 3 {
		t.Fatalf("expected 3 events each, got %d and %d", len(a.events), len(b.events))
	}
	if b.batch != 1 {
		t.Fatalf("expected batch path to be used once, got %d", b.batch)
	}
}

func TestMultiWriterStopsAtFirstError(t *testing.T) {
	failing := &recordingWriter{err: errors.New("boom")}
	after := &recordingWriter{}
	mw := NewMultiWriter(failing, after)
	if err := mw.WriteEvent(Event{EventType: EventSessionStart}); err == nil {
		t.Fatalf("expected error")
	}
	if len(after.events) != 0 {
		t.Fatalf("writers after a failure should not receive the event")
	}
}

func TestMultiWriterAdminStatusAndClose(t *testing.T) {
	a := &recordingWriter{}
	mw := NewMultiWriter()
	mw.Add(a)
	mw.SetAdminStatus(true)
	if !a.admin {
		t.Fatalf("admin status not forwarded")
	}
	if err := mw.Close(); err != nil || !a.closed {
		t.Fatalf("close not forwarded: %v", err)
	}
}
