package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cubelab/cubegym"
)

var applyScramble string

var applyCmd = &cobra.Command{
	Use:   "apply <moves>",
	Short: "Apply a move sequence to a cube",
	Long: `Apply a move sequence to a solved cube and print the result.

Moves use face-turn notation: U D F B R L, with ' for counter-clockwise
and 2 for a half turn.

Examples:
  cubegym apply "R U R' U'"
  cubegym apply R U2 F
  cubegym apply --scramble "F2 L D" "D' L' F2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVar(&applyScramble, "scramble", "", "Scramble to apply before the moves")
}

func runApply(cmd *cobra.Command, args []string) error {
	c := cubegym.New()

	if applyScramble != "" {
		moves, err := cubegym.ParseMoves(applyScramble)
		if err != nil {
			return fmt.Errorf("invalid scramble: %w", err)
		}
		if err := c.ApplyMoves(moves); err != nil {
			return err
		}
	}

	moves, err := cubegym.ParseMoves(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("invalid move sequence: %w", err)
	}
	if err := c.ApplyMoves(moves); err != nil {
		return err
	}

	fmt.Println(c.String())

	if c.IsSolved() {
		fmt.Println("Solved!")
		return nil
	}

	progress := c.Progress()
	fmt.Printf("Misplaced facelets: %d/%d\n", progress.Misplaced, cubegym.NumFacelets)
	fmt.Printf("Solved faces: %d/6\n", progress.SolvedFaces)

	return nil
}
