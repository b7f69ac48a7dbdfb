package jobhandler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sup-codac/oac-tree-gui/internal/model"
	"github.com/sup-codac/oac-tree-gui/internal/procedure"
	"github.com/sup-codac/oac-tree-gui/internal/runner"
)

// drainUntil polls Drain until pred is satisfied or the deadline passes,
// returning whether pred ended up true.
func drainUntil(h *Handler, deadline time.Time, pred func() bool) bool {
	for !pred() && time.Now().Before(deadline) {
		h.Drain()
		time.Sleep(time.Millisecond)
	}
	h.Drain()
	return pred()
}

// S1: happy path wait. Submit Sequence{ Wait(50ms) }, start, and within the
// deadline the runner reaches Succeeded with the Wait instruction's status
// sequence ending at Success and no error entries in the log.
func TestScenario_S1_HappyPathWait(t *testing.T) {
	b := procedure.NewBuilder("s1")
	wait := b.Wait(50)
	tree := b.Build(b.Sequence(wait))

	h := New("s1", runner.NewLocalRunner(tree, "s1-job"))
	defer h.Close()

	require.NoError(t, h.Start(context.Background()))
	ok := drainUntil(h, time.Now().Add(500*time.Millisecond), func() bool {
		return h.JobItem().Status == model.RunnerStatusCompleted
	})
	require.True(t, ok, "runner did not reach Succeeded")

	assert.Equal(t, model.InstructionStatusSuccess, h.JobItem().Instructions[wait].Status)
	for _, e := range h.JobItem().Log.Records() {
		assert.Less(t, e.Severity, model.SeverityError)
	}
}

// S2: copy variable. var0=42, var1=0, Copy(var0->var1). After completion a
// VariableUpdated was dispatched for var1 and its mirrored value is 42.
func TestScenario_S2_CopyVariable(t *testing.T) {
	b := procedure.NewBuilder("s2")
	b.Variable("var0", model.NewInt64(42))
	b.Variable("var1", model.NewInt64(0))
	const varOneIdx = uint32(1) // second declared variable
	cp := b.Copy("var0", "var1")
	tree := b.Build(b.Sequence(cp))

	h := New("s2", runner.NewLocalRunner(tree, "s2-job"))
	defer h.Close()

	require.NoError(t, h.Start(context.Background()))
	ok := drainUntil(h, time.Now().Add(500*time.Millisecond), func() bool {
		return h.JobItem().Status == model.RunnerStatusCompleted
	})
	require.True(t, ok)

	v1 := h.JobItem().Variables[varOneIdx]
	require.NotNil(t, v1)
	assert.True(t, v1.Available)
	n, ok := v1.Value.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(42), n)
}

// S3: step through two messages. A WaitForRelease pause is engaged while a
// leading Wait instruction is still in flight, so the controller is
// guaranteed to be in WaitForRelease mode before the first Message ticks.
// After two Step calls both messages land in the log in order and the
// runner completes.
func TestScenario_S3_StepThroughTwoMessages(t *testing.T) {
	b := procedure.NewBuilder("s3")
	lead := b.Wait(50)
	first := b.Message("a")
	second := b.Message("b")
	tree := b.Build(b.Sequence(lead, first, second))

	h := New("s3", runner.NewLocalRunner(tree, "s3-job"))
	defer h.Close()

	require.NoError(t, h.Start(context.Background()))
	require.NoError(t, h.Pause(context.Background()))

	ok := drainUntil(h, time.Now().Add(2*time.Second), func() bool {
		return h.JobItem().Status == model.RunnerStatusPaused
	})
	require.True(t, ok, "runner did not reach Paused")
	assert.Empty(t, h.JobItem().Log.Records())

	require.NoError(t, h.Step(context.Background()))
	ok = drainUntil(h, time.Now().Add(time.Second), func() bool {
		return len(h.JobItem().Log.Records()) >= 1
	})
	require.True(t, ok)

	require.NoError(t, h.Step(context.Background()))
	ok = drainUntil(h, time.Now().Add(time.Second), func() bool {
		return h.JobItem().Status == model.RunnerStatusCompleted
	})
	require.True(t, ok)

	records := h.JobItem().Log.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Message)
	assert.Equal(t, "b", records[1].Message)
}

// S4: stop a long-running job. Sequence{ Wait(10s) }. Shortly after start
// the runner is busy; Stop lands it in Halted well inside the 10s wait.
func TestScenario_S4_StopLongJob(t *testing.T) {
	b := procedure.NewBuilder("s4")
	wait := b.Wait(10_000)
	tree := b.Build(b.Sequence(wait))

	r := runner.NewLocalRunner(tree, "s4-job")
	h := New("s4", r)
	defer h.Close()

	require.NoError(t, h.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)
	h.Drain()
	assert.True(t, r.IsBusy())

	require.NoError(t, h.Stop(context.Background()))
	ok := drainUntil(h, time.Now().Add(500*time.Millisecond), func() bool {
		return h.JobItem().Status == model.RunnerStatusStopped
	})
	require.True(t, ok, "runner did not halt")
	assert.False(t, r.IsBusy())
}

// S5: user input. Input(target=var0), answered with 7. After completion
// var0 mirrors the supplied value and the runner succeeded.
func TestScenario_S5_UserInput(t *testing.T) {
	b := procedure.NewBuilder("s5")
	b.Variable("var0", model.NewInt64(0))
	const varIdx = uint32(0) // only declared variable
	in := b.Input("var0", "enter a number")
	tree := b.Build(b.Sequence(in))

	r := runner.NewLocalRunner(tree, "s5-job")
	h := New("s5", r)
	defer h.Close()

	go func() {
		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			if _, ok := r.JobInfoIO().PendingUserValueRequest(); ok {
				r.JobInfoIO().AnswerUserValue(model.NewInt64(7))
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	require.NoError(t, h.Start(context.Background()))
	ok := drainUntil(h, time.Now().Add(time.Second), func() bool {
		return h.JobItem().Status == model.RunnerStatusCompleted
	})
	require.True(t, ok)

	v := h.JobItem().Variables[varIdx]
	require.NotNil(t, v)
	n, ok := v.Value.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(7), n)
}

// S6: breakpoint hit. Sequence{ Wait(5ms), Wait(5ms) } with a breakpoint on
// the second Wait. The runner pauses with the breakpoint flagged on that
// instruction item; a single Step completes the run.
func TestScenario_S6_BreakpointHit(t *testing.T) {
	b := procedure.NewBuilder("s6")
	first := b.Wait(5)
	second := b.Wait(5)
	tree := b.Build(b.Sequence(first, second))

	h := New("s6", runner.NewLocalRunner(tree, "s6-job"))
	defer h.Close()

	require.NoError(t, h.OnToggleBreakpointRequest(context.Background(), second))
	require.NoError(t, h.Start(context.Background()))

	ok := drainUntil(h, time.Now().Add(time.Second), func() bool {
		return h.JobItem().Status == model.RunnerStatusPaused
	})
	require.True(t, ok, "runner did not pause at breakpoint")
	assert.Equal(t, model.BreakpointStatusSet, h.JobItem().Instructions[second].BreakpointStatus)

	require.NoError(t, h.Step(context.Background()))
	ok = drainUntil(h, time.Now().Add(time.Second), func() bool {
		return h.JobItem().Status == model.RunnerStatusCompleted
	})
	require.True(t, ok)
}
