package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/g2dcsp/solver/internal/history"
	"github.com/g2dcsp/solver/pkg/config"
)

var (
	historyLimit int
	cfgPath      string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the run-history store (spec.md §9 supplemented feature)",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent recorded runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run_id>",
	Short: "Show one recorded run in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list")
	historyCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to solver config file")
}

func openHistoryStore() (*history.Store, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("history is disabled in config (set history.enabled: true)")
	}
	return history.Open(cfg.History.Driver, cfg.History.DSN)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.List(context.Background(), historyLimit)
	if err != nil {
		return err
	}

	log := GetLogger()
	log.Info("%-5s %-24s %-9s %-14s %-8s %s", "ID", "INSTANCE", "COMPLETE", "MATERIAL_COST", "THREADS", "CREATED_AT")
	for _, r := range recs {
		log.Info("%-5d %-24s %-9t %-14d %-8d %s", r.ID, r.InstanceName, r.Complete, r.MaterialCost, r.NThreads, r.CreatedAt.Format("2006-01-02T15:04:05"))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var id int64
	if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	rec, err := store.Get(context.Background(), id)
	if err != nil {
		return err
	}

	log := GetLogger()
	log.Info("run %d", rec.ID)
	log.Info("  instance:           %s", rec.InstanceName)
	log.Info("  complete:           %t", rec.Complete)
	log.Info("  material_cost:      %d", rec.MaterialCost)
	log.Info("  part_area_excluded: %d", rec.PartAreaExcluded)
	log.Info("  run_time_ms:        %d", rec.RunTimeMS)
	log.Info("  n_threads:          %d", rec.NThreads)
	log.Info("  cost_comparator:    %s", rec.CostComparator)
	log.Info("  created_at:         %s", rec.CreatedAt.Format("2006-01-02T15:04:05"))
	return nil
}
