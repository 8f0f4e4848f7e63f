package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cubelab/cubegym"
	"github.com/cubelab/cubegym/internal/analysis"
	"github.com/cubelab/cubegym/internal/storage"
)

var (
	episodeListLimit  int
	episodeShowLast   bool
	episodeStatsLimit int
)

var episodeCmd = &cobra.Command{
	Use:   "episode",
	Short: "Inspect recorded episodes",
	Long:  `Commands for listing, inspecting, and aggregating recorded episodes.`,
}

var episodeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent episodes",
	Long:  `Display a list of recent episodes with their outcomes.`,
	RunE:  runEpisodeList,
}

var episodeShowCmd = &cobra.Command{
	Use:   "show [episode-id]",
	Short: "Show details of an episode",
	Long: `Display detailed information about a specific episode including:
- Episode metadata (policy, seed, scramble, outcome)
- The full action sequence
- The final cube state

Use --last to show the most recent episode.`,
	RunE: runEpisodeShow,
}

var episodeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate statistics over recent episodes",
	Long: `Aggregate recent episodes into solve rates, step and reward statistics,
action usage, and repeated action sequences.`,
	RunE: runEpisodeStats,
}

func init() {
	rootCmd.AddCommand(episodeCmd)

	episodeCmd.AddCommand(episodeListCmd)
	episodeListCmd.Flags().IntVar(&episodeListLimit, "limit", 20, "Maximum number of episodes to display")

	episodeCmd.AddCommand(episodeShowCmd)
	episodeShowCmd.Flags().BoolVar(&episodeShowLast, "last", false, "Show the most recent episode")

	episodeCmd.AddCommand(episodeStatsCmd)
	episodeStatsCmd.Flags().IntVar(&episodeStatsLimit, "limit", 100, "Number of recent episodes to aggregate")
}

func runEpisodeList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	episodeRepo := storage.NewEpisodeRepository(db)
	episodes, err := episodeRepo.List(episodeListLimit)
	if err != nil {
		return fmt.Errorf("failed to list episodes: %w", err)
	}

	if len(episodes) == 0 {
		fmt.Println("No episodes recorded yet")
		fmt.Println("Run episodes with: cubegym run")
		return nil
	}

	fmt.Printf("Recent episodes (showing %d):\n", len(episodes))
	fmt.Println()
	fmt.Printf("%-36s  %-20s  %-9s  %5s  %8s  %s\n", "ID", "Started", "Outcome", "Steps", "Reward", "Scramble")
	fmt.Println("------------------------------------  --------------------  ---------  -----  --------  --------")

	for _, e := range episodes {
		scramble := e.Scramble
		if len(scramble) > 30 {
			scramble = scramble[:27] + "..."
		}

		status := ""
		if e.EndedAt == nil {
			status = " (running)"
		}

		fmt.Printf("%-36s  %-20s  %-9s  %5d  %8.2f  %s%s\n",
			e.EpisodeID,
			e.StartedAt.Format("2006-01-02 15:04:05"),
			e.Outcome,
			e.Steps,
			e.TotalReward,
			scramble,
			status,
		)
	}

	return nil
}

func runEpisodeShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	episodeRepo := storage.NewEpisodeRepository(db)
	stepRepo := storage.NewStepRepository(db)

	episode, err := resolveEpisode(episodeRepo, args, episodeShowLast)
	if err != nil {
		return err
	}

	steps, err := stepRepo.GetByEpisode(episode.EpisodeID)
	if err != nil {
		return fmt.Errorf("failed to get steps: %w", err)
	}

	fmt.Println("Episode Details")
	fmt.Println("===============")
	fmt.Println()

	fmt.Printf("ID:      %s\n", episode.EpisodeID)
	fmt.Printf("Started: %s\n", episode.StartedAt.Format("2006-01-02 15:04:05"))
	if episode.EndedAt != nil {
		fmt.Printf("Ended:   %s (%s)\n",
			episode.EndedAt.Format("2006-01-02 15:04:05"),
			formatDuration(episode.EndedAt.Sub(episode.StartedAt)))
	}
	fmt.Printf("Policy:  %s\n", episode.Policy)
	if episode.Seed != nil {
		fmt.Printf("Seed:    %d\n", *episode.Seed)
	}
	fmt.Printf("Outcome: %s\n", episode.Outcome)
	fmt.Printf("Budget:  %d\n", episode.StepBudget)
	fmt.Println()

	fmt.Printf("Scramble (%d moves)\n", episode.ScrambleLen)
	fmt.Println("------------------")
	printNotationLines(strings.Fields(episode.Scramble))
	fmt.Println()

	fmt.Printf("Steps (%d, total reward %.2f)\n", episode.Steps, episode.TotalReward)
	fmt.Println("----------------------------")
	if len(steps) == 0 {
		fmt.Println("(none recorded)")
	} else {
		line := make([]string, len(steps))
		for i, s := range steps {
			line[i] = s.Notation
		}
		printNotationLines(line)

		trace := analysis.TraceEpisode(steps)
		fmt.Println()
		fmt.Printf("Misplaced: %d at start, %d at end, %d at best\n",
			trace.FirstMisplaced, trace.LastMisplaced, trace.BestMisplaced)
	}
	fmt.Println()

	cube, err := finalCube(episode, steps)
	if err != nil {
		return err
	}
	fmt.Println("Final state")
	fmt.Println("-----------")
	fmt.Println(cube.String())

	return nil
}

func runEpisodeStats(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	episodeRepo := storage.NewEpisodeRepository(db)
	stepRepo := storage.NewStepRepository(db)

	episodes, err := episodeRepo.List(episodeStatsLimit)
	if err != nil {
		return fmt.Errorf("failed to list episodes: %w", err)
	}

	if len(episodes) == 0 {
		fmt.Println("No episodes recorded yet")
		fmt.Println("Run episodes with: cubegym run")
		return nil
	}

	summary := analysis.Summarize(episodes)

	var allSteps []storage.StepRecord
	var reports []*analysis.NGramReport
	for _, e := range episodes {
		steps, err := stepRepo.GetByEpisode(e.EpisodeID)
		if err != nil {
			return fmt.Errorf("failed to get steps: %w", err)
		}
		allSteps = append(allSteps, steps...)
		reports = append(reports, analysis.MineNGrams(steps, 2, 4, 5))
	}

	fmt.Println("Episode Statistics")
	fmt.Println("==================")
	fmt.Println()

	fmt.Printf("Episodes:  %d\n", summary.Episodes)
	fmt.Printf("Solved:    %d (%.1f%%)\n", summary.Solved, summary.SolveRate*100)
	fmt.Printf("Truncated: %d\n", summary.Truncated)
	if summary.Aborted > 0 {
		fmt.Printf("Aborted:   %d\n", summary.Aborted)
	}
	fmt.Println()

	fmt.Println("Steps")
	fmt.Println("-----")
	fmt.Printf("Total: %d\n", summary.TotalSteps)
	fmt.Printf("Mean:  %.1f\n", summary.MeanSteps)
	fmt.Printf("Range: %d to %d\n", summary.MinSteps, summary.MaxSteps)
	if summary.Solved > 0 {
		fmt.Printf("Mean steps to solve: %.1f\n", summary.MeanSolveSteps)
	}
	fmt.Println()

	fmt.Println("Reward")
	fmt.Println("------")
	fmt.Printf("Mean:  %.2f\n", summary.MeanReward)
	fmt.Printf("Best:  %.2f\n", summary.BestReward)
	fmt.Printf("Worst: %.2f\n", summary.WorstReward)
	fmt.Println()

	if len(allSteps) > 0 {
		profile := analysis.AnalyzeActions(allSteps)

		fmt.Println("Action Usage")
		fmt.Println("------------")
		for _, m := range cubegym.AllMoves {
			fmt.Printf("  %-3s %6d\n", m.Notation(), profile.ActionCounts[m.Notation()])
		}
		fmt.Printf("Clockwise %d, counter-clockwise %d\n", profile.Clockwise, profile.CounterClockwise)
		fmt.Println()
	}

	merged := analysis.MineNGramsAcrossEpisodes(reports, 2, 4, 5)
	printed := false
	for n := 2; n <= 4; n++ {
		ngrams := merged.TopNGrams[n]
		if len(ngrams) == 0 {
			continue
		}
		if !printed {
			fmt.Println("Repeated Sequences")
			fmt.Println("------------------")
			printed = true
		}
		for _, ng := range ngrams {
			fmt.Printf("  %-24s x%d\n", strings.Join(ng.Sequence, " "), ng.Count)
		}
	}

	return nil
}

// resolveEpisode finds the episode named by the args or, with last set, the
// most recent one.
func resolveEpisode(repo *storage.EpisodeRepository, args []string, last bool) (*storage.Episode, error) {
	if last {
		episode, err := repo.GetLast()
		if err != nil {
			return nil, fmt.Errorf("failed to get latest episode: %w", err)
		}
		if episode == nil {
			return nil, fmt.Errorf("no episodes found")
		}
		return episode, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("please provide an episode ID or use --last")
	}

	episode, err := repo.Get(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}
	if episode == nil {
		return nil, fmt.Errorf("episode not found: %s", args[0])
	}
	return episode, nil
}

// finalCube reconstructs the cube after the last recorded step, or after
// just the scramble when no steps were recorded.
func finalCube(episode *storage.Episode, steps []storage.StepRecord) (*cubegym.Cube, error) {
	if len(steps) > 0 {
		state, err := cubegym.DecodeState(steps[len(steps)-1].State)
		if err != nil {
			return nil, fmt.Errorf("failed to decode final state: %w", err)
		}
		return cubegym.CubeFromState(state), nil
	}

	cube := cubegym.New()
	if episode.Scramble != "" {
		moves, err := cubegym.ParseMoves(episode.Scramble)
		if err != nil {
			return nil, fmt.Errorf("failed to parse scramble: %w", err)
		}
		if err := cube.ApplyMoves(moves); err != nil {
			return nil, fmt.Errorf("failed to replay scramble: %w", err)
		}
	}
	return cube, nil
}

// printNotationLines groups notation tokens into lines of ~60 chars.
func printNotationLines(tokens []string) {
	if len(tokens) == 0 {
		fmt.Println("(none)")
		return
	}

	var line string
	for i, tok := range tokens {
		if len(line)+len(tok)+1 > 60 {
			fmt.Println(line)
			line = tok
		} else if line == "" {
			line = tok
		} else {
			line += " " + tok
		}

		if i == len(tokens)-1 && line != "" {
			fmt.Println(line)
		}
	}
}
