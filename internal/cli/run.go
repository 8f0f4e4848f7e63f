package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cubelab/cubegym"
	"github.com/cubelab/cubegym/internal/config"
	"github.com/cubelab/cubegym/internal/metrics"
	"github.com/cubelab/cubegym/internal/runner"
	"github.com/cubelab/cubegym/internal/storage"
)

var (
	runEpisodes      int
	runScrambleMoves int
	runStepBudget    int
	runSeed          int64
	runPolicyName    string
	runNoRecord      bool
	runMetricsAddr   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run episodes against a policy",
	Long: `Run one or more episodes against a built-in policy, recording every
step to the episode database.

Flags override the configuration file. Recording can be disabled with
--no-record for throwaway runs.

Examples:
  cubegym run --episodes 10
  cubegym run --episodes 100 --scramble-moves 5 --step-budget 50
  cubegym run --seed 42 --no-record
  cubegym run --metrics-addr :9351`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runEpisodes, "episodes", 0, "Number of episodes to run")
	runCmd.Flags().IntVar(&runScrambleMoves, "scramble-moves", -1, "Scramble length at each reset")
	runCmd.Flags().IntVar(&runStepBudget, "step-budget", 0, "Step budget per episode")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "Seed for scrambles and the policy (0 = time-based)")
	runCmd.Flags().StringVar(&runPolicyName, "policy", "", "Policy that picks actions (random)")
	runCmd.Flags().BoolVar(&runNoRecord, "no-record", false, "Skip recording to the episode database")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Flags win over the configuration file.
	if runEpisodes > 0 {
		cfg.Run.Episodes = runEpisodes
	}
	if runScrambleMoves >= 0 {
		cfg.Run.ScrambleMoves = runScrambleMoves
	}
	if runStepBudget > 0 {
		cfg.Run.StepBudget = runStepBudget
	}
	if runSeed != 0 {
		cfg.Run.Seed = runSeed
	}
	if runPolicyName != "" {
		cfg.Run.Policy = runPolicyName
	}
	if runNoRecord {
		cfg.Run.Record = false
	}
	if runMetricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddress = runMetricsAddr
	}

	applyLogConfig(cfg)

	policy, err := buildPolicy(cfg.Run.Policy, cfg.Run.Seed)
	if err != nil {
		return err
	}

	hooks := runner.Hooks{}

	// Recording hooks buffer each episode's steps and flush on episode end.
	var db *storage.DB
	if cfg.Run.Record {
		db, err = openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		hooks = recordingHooks(db, cfg)
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
		srv := collector.Serve(cfg.Metrics.ListenAddress, cfg.Metrics.Path, log)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()

		hooks = withMetrics(hooks, collector)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(runner.Config{
		Episodes:      cfg.Run.Episodes,
		ScrambleMoves: cfg.Run.ScrambleMoves,
		StepBudget:    cfg.Run.StepBudget,
		Seed:          cfg.Run.Seed,
	}, policy, hooks, log)

	result, runErr := r.Run(ctx)

	printRunSummary(result, cfg, db)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			fmt.Println("\nRun interrupted.")
			return nil
		}
		return runErr
	}

	return nil
}

// buildPolicy resolves a policy by name. Seed 0 means time-based.
func buildPolicy(name string, seed int64) (runner.Policy, error) {
	switch name {
	case "random":
		var rng *rand.Rand
		if seed != 0 {
			rng = rand.New(rand.NewSource(seed))
		}
		return runner.NewRandomPolicy(rng), nil
	default:
		return nil, fmt.Errorf("unknown policy %q (available: random)", name)
	}
}

// recordingHooks persists episodes and their steps as the runner produces
// them. Storage failures are logged, not fatal to the run.
func recordingHooks(db *storage.DB, cfg *config.Config) runner.Hooks {
	episodes := storage.NewEpisodeRepository(db)
	steps := storage.NewStepRepository(db)

	var currentID string
	var buffer []storage.StepRecord

	var seed *int64
	if cfg.Run.Seed != 0 {
		seed = &cfg.Run.Seed
	}

	return runner.Hooks{
		EpisodeStarted: func(episode int, scramble []cubegym.Move, state [cubegym.NumFacelets]cubegym.Color) {
			buffer = buffer[:0]

			id, err := episodes.Create(cfg.Run.Policy, seed, len(scramble), cubegym.FormatMoves(scramble), cfg.Run.StepBudget)
			if err != nil {
				log.WithError(err).Error("failed to record episode start")
				currentID = ""
				return
			}
			currentID = id
		},

		StepTaken: func(ev runner.StepEvent) {
			if currentID == "" {
				return
			}
			buffer = append(buffer, storage.StepRecord{
				EpisodeID:  currentID,
				StepIndex:  ev.Index,
				Action:     ev.Action,
				Notation:   ev.Move.Notation(),
				Reward:     ev.Result.Reward,
				Misplaced:  ev.Misplaced,
				Terminated: ev.Result.Terminated,
				Truncated:  ev.Result.Truncated,
				State:      cubegym.EncodeState(ev.Result.State),
			})
		},

		EpisodeEnded: func(res runner.EpisodeResult) {
			if currentID == "" {
				return
			}
			if err := steps.CreateBatch(buffer); err != nil {
				log.WithError(err).Error("failed to record steps")
			}
			if err := episodes.Finish(currentID, outcomeFor(res), res.Steps, res.TotalReward); err != nil {
				log.WithError(err).Error("failed to record episode end")
			}
			currentID = ""
		},
	}
}

// withMetrics layers metric updates on top of existing hooks.
func withMetrics(hooks runner.Hooks, collector *metrics.Collector) runner.Hooks {
	stepTaken := hooks.StepTaken
	episodeEnded := hooks.EpisodeEnded

	hooks.StepTaken = func(ev runner.StepEvent) {
		collector.RecordStep()
		if stepTaken != nil {
			stepTaken(ev)
		}
	}
	hooks.EpisodeEnded = func(res runner.EpisodeResult) {
		collector.RecordEpisode(outcomeFor(res), res.Steps, res.TotalReward)
		if episodeEnded != nil {
			episodeEnded(res)
		}
	}

	return hooks
}

func outcomeFor(res runner.EpisodeResult) string {
	switch {
	case res.Solved:
		return storage.OutcomeSolved
	case res.Aborted:
		return storage.OutcomeAborted
	default:
		return storage.OutcomeTruncated
	}
}

func printRunSummary(result runner.Result, cfg *config.Config, db *storage.DB) {
	episodes := len(result.Episodes)
	if episodes == 0 {
		fmt.Println("No episodes completed.")
		return
	}

	fmt.Printf("Run complete: %d episodes in %s\n", episodes, formatDuration(result.Duration))
	fmt.Printf("  Solved:    %d (%.1f%%)\n", result.Solved, 100*float64(result.Solved)/float64(episodes))
	fmt.Printf("  Truncated: %d\n", result.Truncated)
	if result.Aborted > 0 {
		fmt.Printf("  Aborted:   %d\n", result.Aborted)
	}
	fmt.Printf("  Steps:     %d\n", result.TotalSteps)

	if db != nil {
		fmt.Printf("\nEpisodes recorded to %s\n", db.Path())
		fmt.Println("Inspect with: cubegym episode list")
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}
