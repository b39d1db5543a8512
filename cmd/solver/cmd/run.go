package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/g2dcsp/solver/internal/collector"
	"github.com/g2dcsp/solver/internal/collector/messages"
	"github.com/g2dcsp/solver/internal/history"
	"github.com/g2dcsp/solver/internal/search"
	"github.com/g2dcsp/solver/pkg/compression"
	"github.com/g2dcsp/solver/pkg/config"
	pkgerrors "github.com/g2dcsp/solver/pkg/errors"
	"github.com/g2dcsp/solver/pkg/geometry"
	"github.com/g2dcsp/solver/pkg/instance"
	"github.com/g2dcsp/solver/pkg/parallel"
	"github.com/g2dcsp/solver/pkg/problem"
	"github.com/g2dcsp/solver/pkg/solution"
	"github.com/g2dcsp/solver/pkg/storage"
	"github.com/g2dcsp/solver/pkg/writer"
)

var compressOutput bool

var runCmd = &cobra.Command{
	Use:   "run <instance.json> <config.yaml> <output.json>",
	Short: "Solve a cutting stock instance and write the resulting plan",
	Args:  cobra.ExactArgs(3),
	RunE:  runSolve,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&compressOutput, "compress", false, "also write a zstd-compressed copy of the output as <output>.zst")

	binName := BinName()
	runCmd.Example = `  ` + binName + ` run instance.json config.yaml output.json`
}

func runSolve(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	instPath, configPath, outPath := args[0], args[1], args[2]

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	comparator, err := geometry.ComparatorKind(cfg.Solver.CostComparator).Resolve()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConfigError, "invalid cost comparator", err)
	}

	instFile, err := os.Open(instPath)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInputMalformed, "failed to open instance file", err)
	}
	defer instFile.Close()

	inst, jsonInst, err := instance.Load(instFile, cfg.Solver.RotationAllowed)
	if err != nil {
		return err
	}

	log.Info("=== G2DCSP Solver ===")
	log.Info("Instance:      %s (%d part types, %d sheet types)", inst.Name, len(inst.PartTypes), len(inst.SheetTypes))
	log.Info("Threads:       %d", cfg.Solver.NThreads)
	log.Info("Max run time:  %ds", cfg.Solver.MaxRunTimeS)
	log.Info("Comparator:    %s", cfg.Solver.CostComparator)
	log.Info("")

	startTime := time.Now()
	deadline := startTime.Add(time.Duration(cfg.Solver.MaxRunTimeS) * time.Second)

	outbox := make(chan messages.WorkerReport, 256)
	workers := make([]*search.Worker, cfg.Solver.NThreads)
	handles := make([]collector.WorkerHandle, cfg.Solver.NThreads)

	for i := 0; i < cfg.Solver.NThreads; i++ {
		w := search.New(search.Options{
			ID:              i,
			Seed:            startTime.UnixNano() + int64(i),
			RuinFractionMin: cfg.Solver.RuinFractionMin,
			RuinFractionMax: cfg.Solver.RuinFractionMax,
			Comparator:      comparator,
			ReportEvery:     2 * time.Second,
		}, inst, outbox, nil, log)
		workers[i] = w
		handles[i] = collector.WorkerHandle{ID: i, Inbox: w.Inbox()}
	}

	coll := collector.New(handles, outbox, comparator, deadline.Sub(startTime), nil, log)

	heartbeat := parallel.NewProgressTracker(int64(cfg.Solver.MaxRunTimeS), func(elapsed, total int64) {
		log.Info("heartbeat: %ds / %ds elapsed", elapsed, total)
	}, 5*time.Second)
	heartbeatCtx, cancelHeartbeat := context.WithCancel(context.Background())
	heartbeat.Start(heartbeatCtx)
	defer cancelHeartbeat()
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-heartbeatCtx.Done():
				return
			case <-ticker.C:
				heartbeat.Add(1)
			}
		}
	}()

	stop := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("interrupt received, shutting down with best solution found so far")
		close(stop)
	}()

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w *search.Worker) {
			defer wg.Done()
			w.Run(deadline)
		}(w)
	}

	best := coll.Run(stop)
	wg.Wait()
	runTime := time.Since(startTime)

	if best == nil {
		return pkgerrors.New(pkgerrors.CodeInstanceInfeasible, "no solution found, not even an incomplete one")
	}

	out := solution.Build(jsonInst, best, inst.TotalPartArea(), runTime.Milliseconds(), configPath)

	prettyWriter := writer.NewPrettyJSONWriter[*solution.JSONSolution]()
	if err := prettyWriter.WriteToFile(out, outPath); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnknown, "failed to write output", err)
	}

	if compressOutput {
		if err := writeCompressedCopy(out, outPath); err != nil {
			log.Warn("failed to write compressed output copy: %v", err)
		}
	}

	if cfg.Storage.Enabled {
		if err := uploadPlan(cfg, outPath); err != nil {
			log.Warn("failed to upload output plan to object storage: %v", err)
		}
	}

	log.Info("")
	log.Info("=== Solve Complete ===")
	log.Info("Complete:       %t", best.Complete)
	log.Info("Material cost:  %d", best.Cost.MaterialCost)
	log.Info("Run time:       %dms", runTime.Milliseconds())
	log.Info("Output:         %s", outPath)

	if cfg.History.Enabled {
		if err := recordHistory(cfg, inst.Name, best, runTime); err != nil {
			log.Warn("failed to record run history: %v", err)
		}
	}

	return nil
}

func writeCompressedCopy(out *solution.JSONSolution, outPath string) error {
	raw, err := json.Marshal(out)
	if err != nil {
		return err
	}
	comp, err := compression.NewZstdCompressor(compression.LevelDefault)
	if err != nil {
		return err
	}
	defer comp.Close()
	compressed, err := comp.Compress(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath+".zst", compressed, 0644)
}

// uploadPlan pushes the solved plan at outPath to the configured COS bucket,
// under cfg.Storage.KeyPrefix joined with the output file's base name.
func uploadPlan(cfg *config.Config, outPath string) error {
	store, err := storage.NewCOSStorage(&storage.COSConfig{
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		SecretID:  cfg.Storage.SecretID,
		SecretKey: cfg.Storage.SecretKey,
		Domain:    cfg.Storage.Domain,
		Scheme:    cfg.Storage.Scheme,
	})
	if err != nil {
		return err
	}

	key := filepath.Join(cfg.Storage.KeyPrefix, filepath.Base(outPath))
	f, err := os.Open(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return store.UploadPlan(context.Background(), key, f)
}

func recordHistory(cfg *config.Config, instanceName string, sol *problem.Solution, runTime time.Duration) error {
	store, err := history.Open(cfg.History.Driver, cfg.History.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshot, err := json.Marshal(cfg.Solver)
	if err != nil {
		return err
	}

	rec := &history.RunRecord{
		InstanceName:     instanceName,
		Complete:         sol.Complete,
		MaterialCost:     sol.Cost.MaterialCost,
		PartAreaExcluded: sol.Cost.PartAreaExcluded,
		RunTimeMS:        runTime.Milliseconds(),
		NThreads:         cfg.Solver.NThreads,
		CostComparator:   cfg.Solver.CostComparator,
		ConfigSnapshot:   string(snapshot),
	}
	return store.Record(context.Background(), rec)
}
