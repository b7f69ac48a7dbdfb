package model

import "testing"

// Invariant 5: is_busy() and is_finished() are never simultaneously true,
// for every JobState the engine can report.
func TestJobState_BusyAndFinishedPartition(t *testing.T) {
	states := []JobState{
		JobStateUndefined,
		JobStateInitial,
		JobStateRunning,
		JobStatePaused,
		JobStateStepping,
		JobStateSucceeded,
		JobStateFailed,
		JobStateHalted,
	}
	for _, s := range states {
		if s.IsBusy() && s.IsFinished() {
			t.Errorf("JobState %v (%s) is both busy and finished", s, s)
		}
	}
}

// Invariant 4: RunnerStatusFromJobState is the total mapping
// map_engine_to_runner_status referenced in the invariant. The two
// vocabularies are not name-preserving: Failed and Halted both collapse
// onto RunnerStatusStopped, and RunnerStatusCanceling has no JobState
// equivalent at all (it is handler-side bookkeeping around an in-flight
// Stop). The mapping is still total: no state falls through to Undefined
// except JobStateUndefined itself.
func TestRunnerStatusFromJobState_IsCompleteMirror(t *testing.T) {
	cases := []struct {
		state JobState
		want  RunnerStatus
	}{
		{JobStateUndefined, RunnerStatusUndefined},
		{JobStateInitial, RunnerStatusIdle},
		{JobStateRunning, RunnerStatusRunning},
		{JobStatePaused, RunnerStatusPaused},
		{JobStateStepping, RunnerStatusStepping},
		{JobStateSucceeded, RunnerStatusCompleted},
		{JobStateFailed, RunnerStatusStopped},
		{JobStateHalted, RunnerStatusStopped},
	}
	for _, c := range cases {
		got := RunnerStatusFromJobState(c.state)
		if got != c.want {
			t.Errorf("RunnerStatusFromJobState(%s) = %s, want %s", c.state, got, c.want)
		}
		if c.state != JobStateUndefined && got == RunnerStatusUndefined {
			t.Errorf("RunnerStatusFromJobState(%s) fell through to Undefined", c.state)
		}
	}
}
