// Command jobmanagerd hosts jobs over a Temporal task queue: every
// procedure found under a directory of .xml sources is loaded, and a
// jobmanager.Manager creates a RemoteRunner-backed handler for each
// against a shared Temporal-backed engine.Engine. The process then blocks
// until SIGINT or SIGTERM; it does not start jobs itself and does not
// receive commands over the queue.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/client"

	"github.com/sup-codac/oac-tree-gui/internal/config"
	temporalengine "github.com/sup-codac/oac-tree-gui/internal/engine/temporal"
	"github.com/sup-codac/oac-tree-gui/internal/jobmanager"
	"github.com/sup-codac/oac-tree-gui/internal/procedure"
	"github.com/sup-codac/oac-tree-gui/internal/runner"
	"github.com/sup-codac/oac-tree-gui/internal/telemetry"
)

func main() {
	procedureDir := flag.String("procedures", "procedures", "directory of .xml procedure sources to host")
	configPath := flag.String("config", os.Getenv("OAC_TREE_CONFIG"), "path to a YAML config file")
	flag.Parse()

	if err := run(*procedureDir, *configPath); err != nil {
		log.Fatal(err)
	}
}

func run(procedureDir, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := telemetry.NewClueLogger()

	eng, err := temporalengine.New(temporalengine.Options{
		ClientOptions: &client.Options{
			HostPort:  cfg.Engine.TemporalHostPort,
			Namespace: cfg.Engine.TemporalNamespace,
		},
		WorkerOptions: temporalengine.WorkerOptions{
			TaskQueue: cfg.Engine.RemoteTaskQueue,
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	trees, err := procedure.LoadDir(procedureDir)
	if err != nil {
		return err
	}

	mgr := jobmanager.New(
		jobmanager.WithLogger(logger),
		jobmanager.WithRunnerFactory(func(tree *procedure.Tree, workflowID string) runner.Runner {
			return runner.NewRemoteRunner(eng, tree, workflowID, cfg.Engine.RemoteTaskQueue)
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, tree := range trees {
		mgr.SetCurrentProcedure(tree)
		logger.Info(ctx, "procedure registered", "name", tree.Name)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	logger.Info(ctx, "job manager daemon ready", "task_queue", cfg.Engine.RemoteTaskQueue, "procedures", len(trees))
	<-stop
	logger.Info(ctx, "job manager daemon shutting down")
	return nil
}
