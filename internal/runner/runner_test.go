package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sup-codac/oac-tree-gui/internal/model"
	"github.com/sup-codac/oac-tree-gui/internal/procedure"
)

func newTestTree(t *testing.T) *procedure.Tree {
	t.Helper()
	b := procedure.NewBuilder("test")
	b.Variable("x", model.NewInt64(1))
	b.Variable("y", model.NewInt64(0))
	wait := b.Wait(1)
	msg := b.Message("hello")
	cp := b.Copy("x", "y")
	seq := b.Sequence(wait, msg, cp)
	return b.Build(seq)
}

func TestLocalRunner_RunsToSuccess(t *testing.T) {
	r := NewLocalRunner(newTestTree(t), "job-1")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, r.Start(ctx))
	state := r.WaitForFinished(ctx)
	assert.Equal(t, model.JobStateSucceeded, state)

	v, ok := r.Workspace().ValueByName("y")
	require.True(t, ok)
	n, _ := v.Int64()
	assert.Equal(t, int64(1), n)
}

func TestLocalRunner_BreakpointPausesThenSteps(t *testing.T) {
	b := procedure.NewBuilder("bp")
	wait := b.Wait(1)
	msg := b.Message("after breakpoint")
	seq := b.Sequence(wait, msg)
	tree := b.Build(seq)

	r := NewLocalRunner(tree, "job-bp")
	require.NoError(t, r.SetBreakpoint(context.Background(), msg))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Start(ctx))

	require.True(t, r.WaitForState(ctx, model.JobStatePaused))
	assert.True(t, r.IsBusy())

	require.NoError(t, r.Step(ctx))
	state := r.WaitForFinished(ctx)
	assert.Equal(t, model.JobStateSucceeded, state)
}

func TestLocalRunner_StopHaltsJob(t *testing.T) {
	b := procedure.NewBuilder("halt")
	wait1 := b.Wait(50)
	wait2 := b.Wait(50)
	seq := b.Sequence(wait1, wait2)
	tree := b.Build(seq)

	r := NewLocalRunner(tree, "job-halt")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Start(ctx))

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, r.Stop(ctx))

	state := r.WaitForFinished(ctx)
	assert.Equal(t, model.JobStateHalted, state)
}

func TestLocalRunner_InputInstructionAnsweredByConsumer(t *testing.T) {
	b := procedure.NewBuilder("input")
	b.Variable("x", model.NewInt64(0))
	in := b.Input("x", "enter a number")
	seq := b.Sequence(in)
	tree := b.Build(seq)

	r := NewLocalRunner(tree, "job-input")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Start(ctx))

	go func() {
		for {
			if _, ok := r.JobInfoIO().PendingUserValueRequest(); ok {
				r.JobInfoIO().AnswerUserValue(model.NewInt64(42))
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	state := r.WaitForFinished(ctx)
	require.Equal(t, model.JobStateSucceeded, state)

	v, ok := r.Workspace().ValueByName("x")
	require.True(t, ok)
	n, _ := v.Int64()
	assert.Equal(t, int64(42), n)
}

func TestLocalRunner_JobInfoReportsStructure(t *testing.T) {
	r := NewLocalRunner(newTestTree(t), "job-info")
	info := r.JobInfo()
	assert.Equal(t, "test", info.Name)
	assert.Len(t, info.Variables, 2)
	assert.Len(t, info.Instructions, 4)
}
