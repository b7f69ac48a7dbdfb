package procedure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sup-codac/oac-tree-gui/internal/model"
)

func TestWorkspace_SetValueNotifiesCallbacks(t *testing.T) {
	tree := newFixtureTree()
	w := NewWorkspace(tree)

	var got []uint32
	g := w.GetCallbackGuard()
	w.RegisterGenericCallback(func(idx uint32, value model.AnyValue, connected bool) {
		got = append(got, idx)
	}, g)

	idx, ok := w.IndexOf("x")
	require.True(t, ok)
	require.NoError(t, w.SetValue(idx, model.NewInt64(9)))

	assert.Equal(t, []uint32{idx}, got)
	v, ok := w.ValueByName("x")
	require.True(t, ok)
	n, _ := v.Int64()
	assert.Equal(t, int64(9), n)
}

func TestWorkspace_SetValueOutOfRangeErrors(t *testing.T) {
	w := NewWorkspace(newFixtureTree())
	assert.Error(t, w.SetValue(999, model.NewInt64(1)))
}

func TestWorkspace_ShutdownMarksUnavailableAndNotifies(t *testing.T) {
	w := NewWorkspace(newFixtureTree())
	var connected []bool
	g := w.GetCallbackGuard()
	w.RegisterGenericCallback(func(idx uint32, value model.AnyValue, c bool) {
		connected = append(connected, c)
	}, g)

	assert.True(t, w.IsSuccessfullySetup())
	w.Shutdown()

	require.Len(t, connected, 1)
	assert.False(t, connected[0])
}

func TestWorkspace_SetByNameUnknownErrors(t *testing.T) {
	w := NewWorkspace(newFixtureTree())
	assert.Error(t, w.SetByName("nope", model.NewInt64(1)))
}
