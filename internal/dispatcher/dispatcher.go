// Package dispatcher drains a domainevent.Queue to exhaustion, routing each
// event to the handler registered for its Kind.
package dispatcher

import (
	"sync"
	"sync/atomic"

	"github.com/sup-codac/oac-tree-gui/internal/domainevent"
)

// Handler processes a single domain event. Handlers run synchronously on
// the goroutine that called Drain.
type Handler func(event domainevent.Event)

// Dispatcher is a callback table keyed by domainevent.Kind, grounded on the
// same registration idiom as a publish/subscribe event bus but reshaped to
// "drain-to-exhaustion" semantics: instead of fanning an event out to every
// subscriber the moment it is posted, Drain pops the events queued when
// it begins and invokes the one registered handler per event kind.
//
// Dispatcher is not reentrant: if a handler posts new events onto the
// queue it is draining, those events are left for the next call to Drain
// rather than being picked up by the current one. This keeps dispatch
// order well-defined and bounds the work done per Drain call.
type Dispatcher struct {
	queue *domainevent.Queue

	mu       sync.RWMutex
	handlers map[domainevent.Kind]Handler

	draining atomic.Bool
}

// New constructs a Dispatcher that drains queue.
func New(queue *domainevent.Queue) *Dispatcher {
	return &Dispatcher{
		queue:    queue,
		handlers: make(map[domainevent.Kind]Handler),
	}
}

// On registers handler for the given event kind, replacing any handler
// previously registered for that kind. Registration is safe to call
// concurrently with Drain.
func (d *Dispatcher) On(kind domainevent.Kind, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = handler
}

// Drain pops the events that are queued when it begins, one at a time,
// invoking the handler registered for each event's Kind. Events pushed
// while it runs, including by a handler, are left for the next call.
// Events with no registered handler, and the Empty sentinel, are silently
// skipped.
//
// Drain returns immediately, doing nothing, if a Drain call is already in
// progress on another goroutine or reentrantly from within a handler.
// Callers relying on every currently-queued event being processed should
// not call Drain concurrently with itself; the job service calls it from
// a single consumer goroutine.
func (d *Dispatcher) Drain() {
	if !d.draining.CompareAndSwap(false, true) {
		return
	}
	defer d.draining.Store(false)

	for n := d.queue.Size(); n > 0; n-- {
		event, ok := d.queue.Pop()
		if !ok {
			return
		}
		if !domainevent.IsValid(event) {
			continue
		}
		d.mu.RLock()
		handler := d.handlers[event.Kind()]
		d.mu.RUnlock()
		if handler != nil {
			handler(event)
		}
	}
}
