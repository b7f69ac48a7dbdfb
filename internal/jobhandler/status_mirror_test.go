package jobhandler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sup-codac/oac-tree-gui/internal/model"
	"github.com/sup-codac/oac-tree-gui/internal/procedure"
	"github.com/sup-codac/oac-tree-gui/internal/runner"
)

// Invariant 4, at the Handler level: after every Drain of a full run the
// item's status is a value RunnerStatusFromJobState produces, the run
// passes through Running, and it ends Completed.
func TestHandler_StatusMirrorsEveryJobStateTransition(t *testing.T) {
	b := procedure.NewBuilder("mirror")
	wait := b.Wait(1)
	tree := b.Build(b.Sequence(wait))

	h := New("mirror", runner.NewLocalRunner(tree, "mirror-job"))
	defer h.Close()

	require.NoError(t, h.Start(context.Background()))

	seen := map[model.RunnerStatus]bool{h.JobItem().Status: true}
	deadline := time.Now().Add(time.Second)
	for h.JobItem().Status != model.RunnerStatusCompleted && time.Now().Before(deadline) {
		h.Drain()
		seen[h.JobItem().Status] = true
		if h.JobItem().Status != model.RunnerStatusUndefined && !validRunnerStatus(h.JobItem().Status) {
			t.Fatalf("item status %v is not a value RunnerStatusFromJobState ever produces", h.JobItem().Status)
		}
		time.Sleep(time.Millisecond)
	}
	h.Drain()
	require.Equal(t, model.RunnerStatusCompleted, h.JobItem().Status)
	require.True(t, seen[model.RunnerStatusRunning], "expected to observe an intermediate Running status")
}

func validRunnerStatus(s model.RunnerStatus) bool {
	for _, js := range []model.JobState{
		model.JobStateUndefined, model.JobStateInitial, model.JobStateRunning,
		model.JobStatePaused, model.JobStateStepping, model.JobStateSucceeded,
		model.JobStateFailed, model.JobStateHalted,
	} {
		if model.RunnerStatusFromJobState(js) == s {
			return true
		}
	}
	return false
}
