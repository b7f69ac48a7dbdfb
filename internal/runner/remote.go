package runner

import (
	"github.com/sup-codac/oac-tree-gui/internal/engine"
	"github.com/sup-codac/oac-tree-gui/internal/procedure"
)

// RemoteRunner drives a procedure.Tree over a durable, replay-safe
// engine.Engine backend (internal/engine/temporal), identified by
// (TaskQueue, WorkflowID) — the Go equivalent of the underlying remote
// job manager's (manager, job_index) addressing. Stop is delivered as an
// engine signal; Pause and Step act directly on the runner's flow
// controller. JobInfo is a local snapshot of
// the procedure's static structure rather than a round trip, since the
// structure never changes once a job starts.
//
// Callers are responsible for constructing and sharing the
// engine.Engine: a single Temporal-backed engine typically serves every
// job in a cmd/jobmanagerd process, not one engine per job.
type RemoteRunner struct {
	*engineRunner
}

// NewRemoteRunner constructs a RemoteRunner for tree, addressed by
// (taskQueue, workflowID) on eng.
func NewRemoteRunner(eng engine.Engine, tree *procedure.Tree, workflowID, taskQueue string) *RemoteRunner {
	return &RemoteRunner{engineRunner: newEngineRunner(eng, tree, workflowID, taskQueue)}
}

// TaskQueue reports the Temporal task queue this job's workflow and
// activity were registered on.
func (r *RemoteRunner) TaskQueue() string {
	return r.taskQueue
}

// WorkflowID reports the Temporal workflow ID identifying this job.
func (r *RemoteRunner) WorkflowID() string {
	return r.workflowID
}
