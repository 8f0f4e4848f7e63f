package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cubelab/cubegym/internal/export"
	"github.com/cubelab/cubegym/internal/storage"
)

var (
	exportEpisodeID string
	exportLast      bool
	exportAll       bool
	exportFormat    string
	exportOutput    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export episode data",
	Long:  `Export episode data in formats offline training pipelines consume.`,
}

var exportStepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Export episode steps as transition rows",
	Long: `Export recorded steps as flat (state, action, reward, next state)
transition rows.

Examples:
  cubegym export steps --last
  cubegym export steps --id <episode_id> --format json
  cubegym export steps --all --format csv -o transitions.csv
  cubegym export steps --all --format parquet -o transitions.parquet`,
	RunE: runExportSteps,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.AddCommand(exportStepsCmd)
	exportStepsCmd.Flags().StringVar(&exportEpisodeID, "id", "", "Episode ID to export")
	exportStepsCmd.Flags().BoolVar(&exportLast, "last", false, "Export the last episode")
	exportStepsCmd.Flags().BoolVar(&exportAll, "all", false, "Export every recorded episode")
	exportStepsCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json, csv, parquet)")
	exportStepsCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExportSteps(cmd *cobra.Command, args []string) error {
	if exportEpisodeID == "" && !exportLast && !exportAll {
		return fmt.Errorf("specify --id, --last, or --all")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	episodeRepo := storage.NewEpisodeRepository(db)
	stepRepo := storage.NewStepRepository(db)

	episodes, err := exportEpisodes(episodeRepo)
	if err != nil {
		return err
	}

	var rows []export.TransitionRow
	for _, e := range episodes {
		steps, err := stepRepo.GetByEpisode(e.EpisodeID)
		if err != nil {
			return fmt.Errorf("failed to get steps: %w", err)
		}
		episodeRows, err := export.Rows(&e, steps)
		if err != nil {
			return err
		}
		rows = append(rows, episodeRows...)
	}

	if len(rows) == 0 {
		return fmt.Errorf("no steps found")
	}

	// Format output
	var output []byte

	switch strings.ToLower(exportFormat) {
	case "txt":
		var notations []string
		for _, r := range rows {
			notations = append(notations, r.Notation)
		}
		output = []byte(strings.Join(notations, " "))

	case "json":
		var buf bytes.Buffer
		if err := export.WriteJSON(&buf, rows); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		output = buf.Bytes()

	case "csv":
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, rows); err != nil {
			return fmt.Errorf("failed to encode CSV: %w", err)
		}
		output = buf.Bytes()

	case "parquet":
		if exportOutput == "" {
			return fmt.Errorf("parquet export requires --output")
		}
		if err := export.WriteParquet(exportOutput, rows); err != nil {
			return err
		}
		fmt.Printf("Exported %d transitions to %s\n", len(rows), exportOutput)
		return nil

	default:
		return fmt.Errorf("unknown format: %s (use txt, json, csv, or parquet)", exportFormat)
	}

	// Write output
	if exportOutput == "" {
		if _, err := os.Stdout.Write(output); err != nil {
			return err
		}
		if len(output) > 0 && output[len(output)-1] != '\n' {
			fmt.Println()
		}
		return nil
	}

	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if len(output) > 0 && output[len(output)-1] != '\n' {
		output = append(output, '\n')
	}
	if err := os.WriteFile(exportOutput, output, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Exported %d transitions to %s\n", len(rows), exportOutput)
	return nil
}

// exportEpisodes resolves which episodes to export, oldest first.
func exportEpisodes(repo *storage.EpisodeRepository) ([]storage.Episode, error) {
	if exportAll {
		count, err := repo.Count()
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, fmt.Errorf("no episodes found")
		}
		episodes, err := repo.List(count)
		if err != nil {
			return nil, err
		}
		// List returns newest first; training data reads oldest first.
		for i, j := 0, len(episodes)-1; i < j; i, j = i+1, j-1 {
			episodes[i], episodes[j] = episodes[j], episodes[i]
		}
		return episodes, nil
	}

	var args []string
	if exportEpisodeID != "" {
		args = []string{exportEpisodeID}
	}
	episode, err := resolveEpisode(repo, args, exportLast)
	if err != nil {
		return nil, err
	}
	return []storage.Episode{*episode}, nil
}
