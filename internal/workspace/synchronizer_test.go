package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sup-codac/oac-tree-gui/internal/domainevent"
	"github.com/sup-codac/oac-tree-gui/internal/jobservice"
	"github.com/sup-codac/oac-tree-gui/internal/model"
	"github.com/sup-codac/oac-tree-gui/internal/procedure"
)

func newTestDomain(t *testing.T) *procedure.Tree {
	t.Helper()
	b := procedure.NewBuilder("ws")
	b.Variable("x", model.NewInt64(1))
	b.Variable("y", model.NewInt64(2))
	seq := b.Sequence()
	return b.Build(seq)
}

func TestSynchronizer_StartReplaysInitialValues(t *testing.T) {
	tree := newTestDomain(t)
	dom := procedure.NewWorkspace(tree)
	svc := jobservice.New()

	var updates []domainevent.VariableUpdated
	svc.On(domainevent.KindVariableUpdated, func(e domainevent.Event) {
		updates = append(updates, e.(domainevent.VariableUpdated))
	})

	sync := New(dom, svc.JobInfoIO())
	sync.Start()
	svc.Drain()

	require.Len(t, updates, 2)
	for _, u := range updates {
		assert.True(t, u.Connected)
	}
}

func TestSynchronizer_DomainChangePropagatesToNotifier(t *testing.T) {
	tree := newTestDomain(t)
	dom := procedure.NewWorkspace(tree)
	svc := jobservice.New()

	var last domainevent.VariableUpdated
	svc.On(domainevent.KindVariableUpdated, func(e domainevent.Event) {
		last = e.(domainevent.VariableUpdated)
	})

	sync := New(dom, svc.JobInfoIO())
	sync.Start()
	svc.Drain()

	require.NoError(t, dom.SetByName("x", model.NewInt64(42)))
	svc.Drain()

	n, _ := last.Value.Int64()
	assert.Equal(t, int64(42), n)
	assert.True(t, last.Connected)
}

func TestSynchronizer_SetFromUIWritesDomainAndRoundTrips(t *testing.T) {
	tree := newTestDomain(t)
	dom := procedure.NewWorkspace(tree)
	svc := jobservice.New()

	var last domainevent.VariableUpdated
	svc.On(domainevent.KindVariableUpdated, func(e domainevent.Event) {
		last = e.(domainevent.VariableUpdated)
	})

	sync := New(dom, svc.JobInfoIO())
	sync.Start()
	svc.Drain()

	require.NoError(t, sync.SetFromUI("y", model.NewInt64(7)))
	svc.Drain()

	n, _ := last.Value.Int64()
	assert.Equal(t, int64(7), n)

	v, ok := dom.ValueByName("y")
	require.True(t, ok)
	n2, _ := v.Int64()
	assert.Equal(t, int64(7), n2)
}

func TestSynchronizer_ShutdownMarksVariablesUnavailable(t *testing.T) {
	tree := newTestDomain(t)
	dom := procedure.NewWorkspace(tree)
	svc := jobservice.New()

	var events []domainevent.VariableUpdated
	svc.On(domainevent.KindVariableUpdated, func(e domainevent.Event) {
		events = append(events, e.(domainevent.VariableUpdated))
	})

	sync := New(dom, svc.JobInfoIO())
	sync.Start()
	svc.Drain()

	sync.Shutdown()
	svc.Drain()

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.False(t, last.Connected)
	assert.False(t, dom.IsSuccessfullySetup())
}
