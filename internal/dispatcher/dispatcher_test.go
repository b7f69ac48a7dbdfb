package dispatcher

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sup-codac/oac-tree-gui/internal/domainevent"
)

func TestDispatcher_DrainsAllRegisteredKinds(t *testing.T) {
	q := domainevent.NewQueue(nil)
	d := New(q)

	var jobStates []domainevent.JobStateChanged
	d.On(domainevent.KindJobStateChanged, func(e domainevent.Event) {
		jobStates = append(jobStates, e.(domainevent.JobStateChanged))
	})

	var hits []uint32
	d.On(domainevent.KindBreakpointHit, func(e domainevent.Event) {
		hits = append(hits, e.(domainevent.BreakpointHit).Index)
	})

	q.Push(domainevent.JobStateChanged{State: 1})
	q.Push(domainevent.BreakpointHit{Index: 7})
	q.Push(domainevent.Empty{})
	q.Push(domainevent.JobStateChanged{State: 2})

	d.Drain()

	require.Len(t, jobStates, 2)
	assert.Equal(t, []uint32{7}, hits)
	assert.Equal(t, 0, q.Size())
}

func TestDispatcher_UnregisteredKindIsSkipped(t *testing.T) {
	q := domainevent.NewQueue(nil)
	d := New(q)
	q.Push(domainevent.BreakpointHit{Index: 1})
	assert.NotPanics(t, func() { d.Drain() })
}

// TestDispatcher_HandlerPostDoesNotRecurse verifies that events posted
// synchronously from within a handler are left for the next Drain call
// rather than being drained by the current, already-in-progress call.
func TestDispatcher_HandlerPostDoesNotRecurse(t *testing.T) {
	q := domainevent.NewQueue(nil)
	d := New(q)

	var calls int
	d.On(domainevent.KindBreakpointHit, func(e domainevent.Event) {
		calls++
		if calls == 1 {
			q.Push(domainevent.BreakpointHit{Index: 2})
		}
	})

	q.Push(domainevent.BreakpointHit{Index: 1})
	d.Drain()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, q.Size())

	d.Drain()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, q.Size())
}

func TestDispatcher_ConcurrentDrainIsNotReentrant(t *testing.T) {
	q := domainevent.NewQueue(nil)
	d := New(q)

	var mu sync.Mutex
	var entered int
	var maxConcurrent int
	d.On(domainevent.KindBreakpointHit, func(domainevent.Event) {
		mu.Lock()
		entered++
		if entered > maxConcurrent {
			maxConcurrent = entered
		}
		mu.Unlock()

		d.Drain() // reentrant call from within a handler must be a no-op

		mu.Lock()
		entered--
		mu.Unlock()
	})

	for i := 0; i < 10; i++ {
		q.Push(domainevent.BreakpointHit{Index: uint32(i)})
	}
	d.Drain()

	assert.Equal(t, 1, maxConcurrent)
}
