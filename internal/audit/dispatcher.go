package audit

import (
	"context"
	"log"
	"sync"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Sink persists one event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sink  Sink
	queue chan Event
	done  sync.WaitGroup
	once  sync.Once

	// mu guards closed; senders hold the read lock while sending
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
	}

	d.done.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.done.Done()
	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			log.Printf("[audit] %s %s failed: %v", ev.Action, ev.Entity, err)
		}
	}
}

// Dispatch queues ev without blocking. A full queue drops the event; audit
// never fails a request. Safe on a nil or closed Dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Printf("[audit] dispatcher closed, dropping %s", ev.Action)
		return
	}
	select {
	case d.queue <- ev:
	default:
		log.Printf("[audit] queue full, dropping %s", ev.Action)
	}
}

// Close drains queued events and stops the worker.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
		d.done.Wait()
	})
}
