package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sup-codac/oac-tree-gui/internal/engine"
)

func TestEngine_WorkflowTicksAndSignals(t *testing.T) {
	eng := New()
	ctx := context.Background()

	require.NoError(t, eng.RegisterActivity(ctx, engine.ActivityDefinition{
		Name: "tick",
		Handler: func(_ context.Context, input any) (any, error) {
			return input.(int) + 1, nil
		},
	}))

	require.NoError(t, eng.RegisterWorkflow(ctx, engine.WorkflowDefinition{
		Name: "procedure",
		Handler: func(wfCtx engine.WorkflowContext, input any) (any, error) {
			var total int
			for i := 0; i < 3; i++ {
				var next int
				if err := wfCtx.ExecuteActivity(wfCtx.Context(), engine.ActivityRequest{
					Name:  "tick",
					Input: total,
				}, &next); err != nil {
					return nil, err
				}
				total = next
			}

			pauseCh := wfCtx.SignalChannel("pause")
			var reason string
			if err := pauseCh.Receive(wfCtx.Context(), &reason); err != nil {
				return nil, err
			}
			return total, nil
		},
	}))

	handle, err := eng.StartWorkflow(ctx, engine.WorkflowStartRequest{
		ID:       "job-1",
		Workflow: "procedure",
		Input:    0,
	})
	require.NoError(t, err)

	require.NoError(t, handle.Signal(ctx, "pause", "requested"))

	var result int
	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, handle.Wait(waitCtx, &result))
	assert.Equal(t, 3, result)
}

func TestEngine_DuplicateRegistrationFails(t *testing.T) {
	eng := New()
	ctx := context.Background()
	def := engine.WorkflowDefinition{Name: "dup", Handler: func(engine.WorkflowContext, any) (any, error) { return nil, nil }}
	require.NoError(t, eng.RegisterWorkflow(ctx, def))
	assert.Error(t, eng.RegisterWorkflow(ctx, def))
}

func TestEngine_UnregisteredWorkflowFails(t *testing.T) {
	eng := New()
	_, err := eng.StartWorkflow(context.Background(), engine.WorkflowStartRequest{ID: "x", Workflow: "missing"})
	assert.Error(t, err)
}
