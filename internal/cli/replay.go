package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cubelab/cubegym"
	"github.com/cubelab/cubegym/internal/storage"
)

var (
	replayLast  bool
	replaySpeed float64
	replayStep  bool
)

var episodeReplayCmd = &cobra.Command{
	Use:   "replay [episode-id]",
	Short: "Replay a recorded episode",
	Long: `Replay a previously recorded episode in a TUI, stepping through the
stored states either automatically or manually.

Usage:
  cubegym episode replay <episode-id>
  cubegym episode replay --last
  cubegym episode replay --last --speed 8
  cubegym episode replay --last --step`,
	RunE: runEpisodeReplay,
}

func init() {
	episodeCmd.AddCommand(episodeReplayCmd)
	episodeReplayCmd.Flags().BoolVar(&replayLast, "last", false, "Replay the most recent episode")
	episodeReplayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 2.0, "Playback speed in steps per second")
	episodeReplayCmd.Flags().BoolVarP(&replayStep, "step", "t", false, "Step through manually")
}

func runEpisodeReplay(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	episodeRepo := storage.NewEpisodeRepository(db)
	stepRepo := storage.NewStepRepository(db)

	episode, err := resolveEpisode(episodeRepo, args, replayLast)
	if err != nil {
		return err
	}

	steps, err := stepRepo.GetByEpisode(episode.EpisodeID)
	if err != nil {
		return fmt.Errorf("failed to get steps: %w", err)
	}
	if len(steps) == 0 {
		return fmt.Errorf("episode %s has no recorded steps", episode.EpisodeID)
	}

	model, err := newReplayModel(episode, steps, replaySpeed, replayStep)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("replay error: %w", err)
	}

	return nil
}

// Replay model
type replayModel struct {
	episode *storage.Episode
	steps   []storage.StepRecord
	states  []*cubegym.Cube // states[i] is the cube after i steps
	rewards []float64       // rewards[i] is the cumulative reward after i steps

	index    int
	speed    float64
	stepMode bool
	paused   bool
	quitting bool
}

// newReplayModel decodes every stored state up front so playback cannot hit
// a decode error mid-replay.
func newReplayModel(episode *storage.Episode, steps []storage.StepRecord, speed float64, stepMode bool) (*replayModel, error) {
	states := make([]*cubegym.Cube, len(steps)+1)
	rewards := make([]float64, len(steps)+1)

	initial := cubegym.New()
	if episode.Scramble != "" {
		moves, err := cubegym.ParseMoves(episode.Scramble)
		if err != nil {
			return nil, fmt.Errorf("failed to parse scramble: %w", err)
		}
		if err := initial.ApplyMoves(moves); err != nil {
			return nil, fmt.Errorf("failed to replay scramble: %w", err)
		}
	}
	states[0] = initial

	for i, s := range steps {
		state, err := cubegym.DecodeState(s.State)
		if err != nil {
			return nil, fmt.Errorf("failed to decode state at step %d: %w", s.StepIndex, err)
		}
		states[i+1] = cubegym.CubeFromState(state)
		rewards[i+1] = rewards[i] + s.Reward
	}

	return &replayModel{
		episode:  episode,
		steps:    steps,
		states:   states,
		rewards:  rewards,
		speed:    speed,
		stepMode: stepMode,
		paused:   stepMode, // Start paused in step mode
	}, nil
}

type replayTickMsg time.Time

func (m *replayModel) Init() tea.Cmd {
	if m.stepMode {
		return nil // Wait for user input in step mode
	}
	return m.scheduleNext()
}

func (m *replayModel) scheduleNext() tea.Cmd {
	if m.index >= len(m.steps) {
		return nil
	}

	delay := time.Duration(float64(time.Second) / m.speed)
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return replayTickMsg(t)
	})
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ", "n", "right":
			if m.stepMode || m.paused {
				if m.index < len(m.steps) {
					m.index++
				}
			} else {
				m.paused = true
			}

		case "left":
			if m.index > 0 {
				m.index--
			}

		case "p":
			m.paused = !m.paused
			if !m.paused && !m.stepMode {
				return m, m.scheduleNext()
			}

		case "r":
			m.index = 0
			m.paused = m.stepMode
			if !m.stepMode && !m.paused {
				return m, m.scheduleNext()
			}

		case "+", "=":
			m.speed *= 2
			if m.speed > 16 {
				m.speed = 16
			}

		case "-":
			m.speed /= 2
			if m.speed < 0.25 {
				m.speed = 0.25
			}
		}

	case replayTickMsg:
		if !m.paused && m.index < len(m.steps) {
			m.index++
			return m, m.scheduleNext()
		}
	}

	return m, nil
}

func (m *replayModel) View() string {
	if m.quitting {
		return "Replay ended.\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Episode Replay"))
	b.WriteString("\n\n")

	b.WriteString(statusStyle.Render(fmt.Sprintf("Episode: %s (%s)", m.episode.EpisodeID, m.episode.Outcome)))
	b.WriteString("\n")

	progress := fmt.Sprintf("Step %d/%d", m.index, len(m.steps))
	if m.paused {
		progress += " [PAUSED]"
	}
	if m.stepMode {
		progress += " [STEP MODE]"
	}
	b.WriteString(statusStyle.Render(progress))
	b.WriteString(fmt.Sprintf(" (%.1f steps/s)\n", m.speed))
	b.WriteString(fmt.Sprintf("Reward: %.2f\n", m.rewards[m.index]))
	b.WriteString("\n")

	b.WriteString(renderNet(m.states[m.index]))
	b.WriteString("\n")

	if m.index > 0 {
		s := m.steps[m.index-1]
		b.WriteString(fmt.Sprintf("Last move: %s (reward %+.3f, misplaced %d)\n", s.Notation, s.Reward, s.Misplaced))
	} else {
		b.WriteString(fmt.Sprintf("Scramble: %s\n", m.episode.Scramble))
	}

	// Recent moves
	if m.index > 0 {
		b.WriteString("Moves: ")
		start := 0
		if m.index > 20 {
			start = m.index - 20
			b.WriteString("... ")
		}
		var notations []string
		for i := start; i < m.index; i++ {
			notations = append(notations, m.steps[i].Notation)
		}
		b.WriteString(moveStyle.Render(strings.Join(notations, " ")))
		b.WriteString("\n")
	}

	if m.index == len(m.steps) {
		b.WriteString("\n")
		if m.episode.Outcome == storage.OutcomeSolved {
			b.WriteString(solvedStyle.Render("SOLVED!"))
		} else {
			b.WriteString(errorStyle.Render("Episode ended without a solve"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")

	help := "SPACE/n=next  left=back  p=pause  r=reset  +/-=speed  q=quit"
	if m.stepMode {
		help = "SPACE/n=next  left=back  r=reset  q=quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}
