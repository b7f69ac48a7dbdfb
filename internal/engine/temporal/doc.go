// Package temporal adapts engine.Engine onto the Temporal SDK, giving
// RemoteRunner a durable, replay-safe backend: a job's procedure tree
// becomes a workflow, each instruction tick becomes an activity, and the
// runner's halt request becomes a workflow signal.
//
// Unlike internal/engine/inmem, a Temporal-backed job survives worker
// restarts: Temporal replays the workflow's event history to
// reconstruct in-flight state rather than keeping it in process memory.
package temporal
