package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cubelab/cubegym/internal/retention"
	"github.com/cubelab/cubegym/internal/storage"
)

var (
	pruneOlderThan int
	pruneKeep      int
	pruneSchedule  string
	pruneOnce      bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Prune stored episodes",
	Long: `Delete episodes by age and by count. Limits default to the retention
section of the configuration file; a limit of zero disables it.

With --schedule (or retention.schedule in the configuration), prune keeps
running on a cron schedule until interrupted.

Examples:
  cubegym prune --older-than 30
  cubegym prune --keep 1000
  cubegym prune --schedule "0 3 * * *"`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().IntVar(&pruneOlderThan, "older-than", -1, "Delete episodes older than this many days")
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", -1, "Keep only this many newest episodes")
	pruneCmd.Flags().StringVar(&pruneSchedule, "schedule", "", "Cron schedule for periodic pruning")
	pruneCmd.Flags().BoolVar(&pruneOnce, "once", false, "Prune once and exit, ignoring any schedule")
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if pruneOlderThan >= 0 {
		cfg.Retention.MaxAgeDays = pruneOlderThan
	}
	if pruneKeep >= 0 {
		cfg.Retention.MaxEpisodes = pruneKeep
	}
	if pruneSchedule != "" {
		cfg.Retention.Schedule = pruneSchedule
	}
	if pruneOnce {
		cfg.Retention.Schedule = ""
	}

	applyLogConfig(cfg)

	if cfg.Retention.MaxAgeDays == 0 && cfg.Retention.MaxEpisodes == 0 {
		return fmt.Errorf("nothing to prune: set --older-than and/or --keep")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	pruner := retention.NewPruner(storage.NewEpisodeRepository(db),
		cfg.Retention.MaxAgeDays, cfg.Retention.MaxEpisodes, log)

	if cfg.Retention.Schedule == "" {
		deleted, err := pruner.Prune()
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d episodes\n", deleted)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := retention.NewScheduler(pruner, cfg.Retention.Schedule, log)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	fmt.Printf("Retention scheduler running (schedule %q)\n", cfg.Retention.Schedule)
	if next := scheduler.NextRun(); next != nil {
		fmt.Printf("Next prune: %s\n", next.Format("2006-01-02 15:04:05"))
	}
	fmt.Println("Press Ctrl+C to stop")

	<-ctx.Done()
	scheduler.Stop()
	fmt.Println("\nRetention scheduler stopped")
	return nil
}
