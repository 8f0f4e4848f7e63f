package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cubelab/cubegym"
)

var (
	playScrambleMoves int
	playStepBudget    int
	playSeed          int64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive practice mode",
	Long: `Start an interactive TUI that scrambles a cube and lets you turn faces
from the keyboard, scored exactly like an agent episode.

Keyboard shortcuts:
  u/d/f/b/r/l - Turn a face clockwise
  U/D/F/B/R/L - Turn a face counter-clockwise
  n           - New scramble
  q/Esc       - Quit`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().IntVarP(&playScrambleMoves, "moves", "n", -1, "Scramble length")
	playCmd.Flags().IntVar(&playStepBudget, "step-budget", 0, "Step budget before the episode truncates")
	playCmd.Flags().Int64Var(&playSeed, "seed", 0, "Scramble seed (0 = time-based)")
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	solvedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// faceletStyles colors each facelet letter in the rendered net.
var faceletStyles = map[cubegym.Color]lipgloss.Style{
	cubegym.White:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	cubegym.Yellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	cubegym.Green:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	cubegym.Blue:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	cubegym.Red:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	cubegym.Orange: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
}

// renderNet renders the cube as a colored text net, same layout as
// Cube.String: U on top, the L F R B band, then D.
func renderNet(c *cubegym.Cube) string {
	var b strings.Builder

	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		renderFaceRow(&b, c, cubegym.Up, row)
		b.WriteByte('\n')
	}

	for row := 0; row < 3; row++ {
		for _, f := range [4]cubegym.Face{cubegym.Left, cubegym.Front, cubegym.Right, cubegym.Back} {
			renderFaceRow(&b, c, f, row)
		}
		b.WriteByte('\n')
	}

	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		renderFaceRow(&b, c, cubegym.Down, row)
		b.WriteByte('\n')
	}

	return b.String()
}

func renderFaceRow(b *strings.Builder, c *cubegym.Cube, f cubegym.Face, row int) {
	for col := 0; col < 3; col++ {
		color := c.Facelet(f, row*3+col)
		b.WriteString(faceletStyles[color].Render(color.String()))
		b.WriteByte(' ')
	}
}

// Model
type playModel struct {
	env           *cubegym.Env
	scrambleMoves int

	moves []cubegym.Move
	total float64
	last  *cubegym.StepResult
	done  bool

	err      error
	quitting bool
}

func newPlayModel(scrambleMoves int, opts ...cubegym.Option) *playModel {
	env := cubegym.NewEnv(opts...)
	env.Reset(scrambleMoves)

	return &playModel{
		env:           env,
		scrambleMoves: scrambleMoves,
	}
}

func (m *playModel) Init() tea.Cmd {
	return nil
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "n":
			m.env.Reset(m.scrambleMoves)
			m.moves = nil
			m.total = 0
			m.last = nil
			m.done = false
			m.err = nil

		default:
			if m.done {
				break
			}
			move, ok := moveForKey(msg.String())
			if !ok {
				break
			}

			res, err := m.env.Step(cubegym.ActionForMove(move))
			if err != nil {
				m.err = err
				break
			}

			m.err = nil
			m.moves = append(m.moves, move)
			m.total += res.Reward
			m.last = &res
			m.done = res.Terminated || res.Truncated
		}
	}

	return m, nil
}

func (m *playModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	cube := m.env.Cube()

	var b strings.Builder

	b.WriteString(titleStyle.Render("Cube Gym"))
	b.WriteString("\n\n")

	b.WriteString(renderNet(cube))
	b.WriteString("\n")

	b.WriteString(statusStyle.Render(fmt.Sprintf(
		"Steps: %d/%d   Reward: %.2f   Misplaced: %d",
		m.env.Steps(), m.env.StepBudget(), m.total, cube.Misplaced())))
	b.WriteString("\n")

	if m.last != nil {
		b.WriteString(fmt.Sprintf("Last reward: %+.3f\n", m.last.Reward))
	}

	if m.done {
		if m.last != nil && m.last.Terminated {
			b.WriteString(solvedStyle.Render("SOLVED!"))
		} else {
			b.WriteString(errorStyle.Render("Out of steps"))
		}
		b.WriteString("\n")
		b.WriteString("Press 'n' for a new scramble\n")
	}

	// Recent moves
	if len(m.moves) > 0 {
		b.WriteString("Moves: ")
		start := 0
		if len(m.moves) > 20 {
			start = len(m.moves) - 20
			b.WriteString("... ")
		}
		var notations []string
		for i := start; i < len(m.moves); i++ {
			notations = append(notations, m.moves[i].Notation())
		}
		b.WriteString(moveStyle.Render(strings.Join(notations, " ")))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Keys: u/d/f/b/r/l=turn  shift=counter-clockwise  n=new scramble  q=quit"))
	b.WriteString("\n")

	return b.String()
}

// moveForKey maps a single-letter key to a face turn. Lowercase turns
// clockwise, uppercase counter-clockwise.
func moveForKey(key string) (cubegym.Move, bool) {
	if len(key) != 1 {
		return cubegym.Move{}, false
	}

	b := key[0]
	clockwise := b >= 'a' && b <= 'z'

	var face cubegym.Face
	switch b {
	case 'u', 'U':
		face = cubegym.Up
	case 'd', 'D':
		face = cubegym.Down
	case 'f', 'F':
		face = cubegym.Front
	case 'b', 'B':
		face = cubegym.Back
	case 'r', 'R':
		face = cubegym.Right
	case 'l', 'L':
		face = cubegym.Left
	default:
		return cubegym.Move{}, false
	}

	return cubegym.Move{Face: face, Clockwise: clockwise}, true
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	moves := cfg.Run.ScrambleMoves
	if playScrambleMoves >= 0 {
		moves = playScrambleMoves
	}
	budget := cfg.Run.StepBudget
	if playStepBudget > 0 {
		budget = playStepBudget
	}

	opts := []cubegym.Option{cubegym.WithStepBudget(budget)}
	if playSeed != 0 {
		opts = append(opts, cubegym.WithSeed(playSeed))
	}

	model := newPlayModel(moves, opts...)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
