package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type memorySink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (m *memorySink) Log(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return m.err
}

func TestDispatcherDeliversOnClose(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(sink)

	id := uint(7)
	d.Dispatch(Event{Action: "appointment_created", Entity: "appointment", EntityID: &id})
	d.Dispatch(Event{Action: "appointment_updated", Entity: "appointment", EntityID: &id})
	d.Close()

	if len(sink.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(sink.events))
	}
	if sink.events[0].Action != "appointment_created" {
		t.Fatalf("expected appointment_created first, got %s", sink.events[0].Action)
	}

	// second close is a no-op
	d.Close()
}

func TestDispatcherSinkErrorsAreSwallowed(t *testing.T) {
	sink := &memorySink{err: errors.New("db down")}
	d := NewDispatcher(sink)
	d.Dispatch(Event{Action: "payment_refunded"})
	d.Close()

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(sink.events))
	}
}

func TestNilDispatcher(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}

func TestDispatchAfterCloseIsDropped(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(sink)
	d.Close()

	d.Dispatch(Event{Action: "estimate_deleted"})

	if len(sink.events) != 0 {
		t.Fatalf("expected no events after close, got %d", len(sink.events))
	}
}

func TestDispatchRacingClose(t *testing.T) {
	d := NewDispatcher(&memorySink{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d.Dispatch(Event{Action: "appointment_updated"})
			}
		}()
	}
	d.Close()
	wg.Wait()
}
