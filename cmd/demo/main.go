// Command demo drives a single procedure to completion in-process,
// printing each job log line to stdout as it is appended, then the final
// status of every instruction and the final value of every variable. It
// exercises runner.LocalRunner, jobhandler.Handler, and
// internal/workspace end to end without a Temporal deployment.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sup-codac/oac-tree-gui/internal/config"
	"github.com/sup-codac/oac-tree-gui/internal/jobhandler"
	"github.com/sup-codac/oac-tree-gui/internal/model"
	"github.com/sup-codac/oac-tree-gui/internal/procedure"
	"github.com/sup-codac/oac-tree-gui/internal/runner"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("OAC_TREE_CONFIG"))
	if err != nil {
		return err
	}

	tree := buildDemoProcedure()

	r := runner.NewLocalRunner(tree, "demo-job")
	r.SetTickTimeout(cfg.Engine.TickTimeout)

	h := jobhandler.New(tree.Name, r)
	defer h.Close()

	printed := 0
	h.JobItem().Log.OnAppended(func() {
		for _, e := range h.JobItem().Log.Records()[printed:] {
			fmt.Printf("[%s] %s: %s\n", e.Severity, e.Source, e.Message)
		}
		printed = h.JobItem().Log.Size()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	go answerInputRequests(ctx, r)

	if err := h.Start(ctx); err != nil {
		return err
	}

	for !r.IsFinished() {
		h.Drain()
		time.Sleep(10 * time.Millisecond)
	}
	h.Drain()

	fmt.Printf("job finished with status: %s\n", h.JobItem().Status)
	for idx := uint32(0); idx < uint32(len(h.JobItem().Instructions)); idx++ {
		if item, ok := h.JobItem().Instructions[idx]; ok {
			fmt.Printf("  instruction %d (%s): %s\n", item.Index, item.Type, item.Status)
		}
	}
	for _, v := range h.JobItem().Variables {
		fmt.Printf("  variable %q = %s\n", v.Name, v.Value.Describe())
	}
	return nil
}

// answerInputRequests supplies a canned answer to the demo procedure's
// single Input instruction as soon as it becomes pending, standing in
// for a GUI dialog.
func answerInputRequests(ctx context.Context, r *runner.LocalRunner) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, ok := r.JobInfoIO().PendingUserValueRequest(); ok {
			r.JobInfoIO().AnswerUserValue(model.NewInt64(7))
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// buildDemoProcedure assembles a small fixture procedure in lieu of a
// shipped .xml file: greet, ask for a number, wait briefly, copy the
// number unchanged into a second variable, then log that it finished.
func buildDemoProcedure() *procedure.Tree {
	b := procedure.NewBuilder("demo")
	b.Variable("input", model.NewInt64(0))
	b.Variable("doubled", model.NewInt64(0))

	greet := b.Message("starting demo procedure")
	ask := b.Input("input", "enter a number")
	wait := b.Wait(100)
	echo := b.Copy("input", "doubled")
	done := b.Message("demo procedure finished")

	seq := b.Sequence(greet, ask, wait, echo, done)
	return b.Build(seq)
}
