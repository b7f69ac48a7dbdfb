package runner

import (
	"github.com/sup-codac/oac-tree-gui/internal/engine/inmem"
	"github.com/sup-codac/oac-tree-gui/internal/procedure"
)

// LocalRunner drives a procedure.Tree over the in-process, goroutine-per-
// job engine (internal/engine/inmem). It is not durable: a process
// restart loses the job, matching inmem.New's documented limitation.
type LocalRunner struct {
	*engineRunner
}

// NewLocalRunner constructs a LocalRunner for tree, identified by id
// (unique among concurrently running local jobs).
func NewLocalRunner(tree *procedure.Tree, id string) *LocalRunner {
	return &LocalRunner{engineRunner: newEngineRunner(inmem.New(), tree, id, "local")}
}
