package cli

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/cubelab/cubegym"
)

var (
	scrambleLen  int
	scrambleSeed int64
	scrambleShow bool
)

var scrambleCmd = &cobra.Command{
	Use:   "scramble",
	Short: "Generate a scramble sequence",
	Long: `Generate a random scramble and print it in face-turn notation.

Examples:
  cubegym scramble
  cubegym scramble -n 25
  cubegym scramble --seed 42 --show`,
	RunE: runScramble,
}

func init() {
	rootCmd.AddCommand(scrambleCmd)

	scrambleCmd.Flags().IntVarP(&scrambleLen, "moves", "n", 20, "Number of scramble moves")
	scrambleCmd.Flags().Int64Var(&scrambleSeed, "seed", 0, "Seed for a reproducible scramble (0 = time-based)")
	scrambleCmd.Flags().BoolVar(&scrambleShow, "show", false, "Print the scrambled cube")
}

func runScramble(cmd *cobra.Command, args []string) error {
	var rng *rand.Rand
	if scrambleSeed != 0 {
		rng = rand.New(rand.NewSource(scrambleSeed))
	}

	c := cubegym.New()
	moves := c.Scramble(scrambleLen, rng)

	fmt.Println(cubegym.FormatMoves(moves))

	if scrambleShow {
		fmt.Println()
		fmt.Println(c.String())
	}

	return nil
}
