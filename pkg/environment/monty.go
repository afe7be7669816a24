package environment

import (
	"fmt"
	"strconv"

	"github.com/boristopalov/montyhall/pkg/core"
)

// Monty is the game-state machine. It owns the door list, the hidden winning
// door and the turn tag; agents only ever see copies via GetState.
//
// Turn order: the user selects, the host reveals, the user selects, stands or
// switches, and so on until two doors remain closed after a user move.
type Monty struct {
	doorCount  int
	rng        Rand
	doors      []core.Door
	winning    int
	selected   int // -1 when nothing is selected
	lastAction actionType
}

var _ core.Environment = (*Monty)(nil)

// NewMonty creates an engine with doorCount doors and starts the first game.
func NewMonty(doorCount int, opts ...EnvOption) (*Monty, error) {
	if doorCount < MinDoors {
		return nil, core.WithMetadata(core.CodeInvalidArgument,
			fmt.Sprintf("door count must be at least %d, got %d", MinDoors, doorCount),
			map[string]string{"door_count": strconv.Itoa(doorCount)})
	}
	rng, err := resolveRand(opts)
	if err != nil {
		return nil, err
	}
	m := &Monty{
		doorCount: doorCount,
		rng:       rng,
	}
	m.Reset()
	return m, nil
}

// Reset draws a new winning door and closes every door.
func (m *Monty) Reset() {
	m.doors = make([]core.Door, m.doorCount)
	for i := range m.doors {
		m.doors[i] = core.Door{Index: i}
	}
	m.winning = m.rng.Intn(m.doorCount)
	m.selected = -1
	m.lastAction = noAction
}

func (m *Monty) SelectDoor(index int) (core.StepResult, error) {
	if index < 0 || index >= m.doorCount {
		return core.StepResult{}, core.WithMetadata(core.CodeInvalidArgument, "invalid door index",
			map[string]string{"door": strconv.Itoa(index)})
	}
	if m.doors[index].IsOpen {
		return core.StepResult{}, core.WithMetadata(core.CodeIllegalMove, "cannot select an open door",
			map[string]string{"door": strconv.Itoa(index)})
	}
	if m.lastAction == userAction {
		return core.StepResult{}, core.IllegalMove("cannot select a door after a user action")
	}
	m.selected = index
	m.lastAction = userAction
	return m.stepResult(core.Choose), nil
}

func (m *Monty) HostOpensDoor() error {
	if m.selected < 0 {
		return core.IllegalMove("no door selected")
	}
	if m.lastAction != userAction {
		return core.IllegalMove("cannot open a door after a host action")
	}
	if m.closedCount() <= 2 {
		return core.IllegalMove("cannot open a door when only two unopened doors remain")
	}

	candidates := make([]int, 0, m.doorCount)
	for _, d := range m.doors {
		if !d.IsOpen && d.Index != m.selected && d.Index != m.winning {
			candidates = append(candidates, d.Index)
		}
	}
	// more than two closed doors always leaves one that is neither selected nor winning
	open := candidates[m.rng.Intn(len(candidates))]
	m.doors[open].IsOpen = true
	m.lastAction = hostAction
	return nil
}

func (m *Monty) SwitchDoor() (core.StepResult, error) {
	if m.selected < 0 {
		return core.StepResult{}, core.IllegalMove("no door selected")
	}
	if m.lastAction == userAction {
		return core.StepResult{}, core.IllegalMove("cannot switch after a user action")
	}

	others := make([]int, 0, m.doorCount)
	for _, d := range m.doors {
		if !d.IsOpen && d.Index != m.selected {
			others = append(others, d.Index)
		}
	}
	if len(others) == 0 {
		return core.StepResult{}, core.IllegalMove("cannot switch doors when no other unopened door remains")
	}
	m.selected = others[m.rng.Intn(len(others))]
	m.lastAction = userAction
	return m.stepResult(core.Switch), nil
}

func (m *Monty) Stand() (core.StepResult, error) {
	if m.selected < 0 {
		return core.StepResult{}, core.IllegalMove("no door selected")
	}
	if m.lastAction == userAction {
		return core.StepResult{}, core.IllegalMove("cannot stand after a user action")
	}
	m.lastAction = userAction
	return m.stepResult(core.Stand), nil
}

// HasWon is only meaningful once the game has narrowed to two doors. Mid-turn,
// after a host reveal, it reports false.
func (m *Monty) HasWon() (bool, error) {
	if m.selected < 0 {
		return false, core.IllegalState("no door selected")
	}
	if m.lastAction != userAction {
		return false, nil
	}
	if m.closedCount() > 2 {
		return false, core.IllegalState("cannot check win state when more than two doors are closed")
	}
	return m.selected == m.winning, nil
}

// Done reports whether exactly two doors are closed and the user moved last.
func (m *Monty) Done() bool {
	return m.closedCount() == 2 && m.lastAction == userAction
}

func (m *Monty) GetState() core.GameState {
	state := core.GameState{
		AvailableDoors: make([]core.Door, 0, m.doorCount),
		OpenDoors:      make([]core.Door, 0, m.doorCount),
	}
	for _, d := range m.doors {
		if d.IsOpen {
			state.OpenDoors = append(state.OpenDoors, d)
		} else {
			state.AvailableDoors = append(state.AvailableDoors, d)
		}
	}
	if m.selected >= 0 {
		sel := m.doors[m.selected]
		state.SelectedDoor = &sel
	}
	return state
}

func (m *Monty) GetResult() (core.Result, error) {
	if !m.Done() {
		return core.Result{}, core.IllegalState("game not done")
	}
	won, err := m.HasWon()
	if err != nil {
		return core.Result{}, err
	}
	if won {
		return core.Result{Won: true, Score: core.WinScore}, nil
	}
	return core.Result{Won: false, Score: 0}, nil
}

func (m *Monty) closedCount() int {
	n := 0
	for _, d := range m.doors {
		if !d.IsOpen {
			n++
		}
	}
	return n
}

func (m *Monty) stepResult(action core.ActionKind) core.StepResult {
	delta := 0
	if m.Done() && m.selected == m.winning {
		delta = core.WinScore
	}
	return core.StepResult{Action: action, ScoreDelta: delta}
}
