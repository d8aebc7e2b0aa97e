package trainer

import (
	"fmt"

	"github.com/ekarna/policyrl/core"
)

// Environment yields states and rewards for the episode loop.
type Environment interface {
	Reset() (*core.State, error)
	// Step applies the action recorded on state and returns the successor
	// state, the reward and whether the episode ended.
	Step(state *core.State) (*core.State, float64, bool, error)
}

// Maze actions.
const (
	MoveUp = iota
	MoveDown
	MoveLeft
	MoveRight
)

// Maze is a small gridworld: four movement actions, a step penalty and a
// terminal goal reward. Walls are cells the agent cannot enter.
type Maze struct {
	Width  int
	Height int
	Start  [2]int
	Goal   [2]int
	Walls  map[[2]int]bool

	// StepReward is paid on every non-terminal step, GoalReward on
	// reaching the goal.
	StepReward float64
	GoalReward float64

	pos [2]int
}

// NewMaze builds an open W x H grid with the start in one corner and the
// goal in the opposite one.
func NewMaze(width, height int) (*Maze, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("maze must be at least 2x2, got %dx%d", width, height)
	}
	return &Maze{
		Width:      width,
		Height:     height,
		Goal:       [2]int{width - 1, height - 1},
		Walls:      make(map[[2]int]bool),
		StepReward: -0.01,
		GoalReward: 1.0,
	}, nil
}

var _ Environment = &Maze{}

func (m *Maze) Reset() (*core.State, error) {
	m.pos = m.Start
	return m.state(), nil
}

func (m *Maze) Step(state *core.State) (*core.State, float64, bool, error) {
	next, ok := m.move(m.pos, state.Action)
	if !ok {
		return nil, 0, false, fmt.Errorf("illegal action %d at %v", state.Action, m.pos)
	}
	m.pos = next
	if m.pos == m.Goal {
		return m.state(), m.GoalReward, true, nil
	}
	return m.state(), m.StepReward, false, nil
}

func (m *Maze) state() *core.State {
	legal := make([]int, 0, 4)
	for a := MoveUp; a <= MoveRight; a++ {
		if _, ok := m.move(m.pos, a); ok {
			legal = append(legal, a)
		}
	}
	features := []float64{float64(m.pos[0]), float64(m.pos[1])}
	return core.NewState(features, legal)
}

func (m *Maze) move(from [2]int, action int) ([2]int, bool) {
	to := from
	switch action {
	case MoveUp:
		to[1]--
	case MoveDown:
		to[1]++
	case MoveLeft:
		to[0]--
	case MoveRight:
		to[0]++
	default:
		return from, false
	}
	if to[0] < 0 || to[0] >= m.Width || to[1] < 0 || to[1] >= m.Height {
		return from, false
	}
	if m.Walls[to] {
		return from, false
	}
	return to, true
}
