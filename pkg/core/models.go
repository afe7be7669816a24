package core

import (
	"strconv"
	"strings"
	"time"
)

// WinScore is awarded when the final selection hides the prize.
const WinScore = 100

type Door struct {
	Index  int
	IsOpen bool
}

// GameState is the snapshot of a game handed to agents. The engine builds a
// fresh value on every call, so agents may keep or modify it freely.
type GameState struct {
	AvailableDoors []Door // closed doors, in index order
	SelectedDoor   *Door  // nil until the first selection
	OpenDoors      []Door // doors opened by the host, in index order
}

// HasSelection reports whether a door has been picked yet.
func (s GameState) HasSelection() bool {
	return s.SelectedDoor != nil
}

// Equal compares two states door by door.
func (s GameState) Equal(o GameState) bool {
	return s.Key() == o.Key()
}

// Key encodes the state structurally so it can index a map,
// e.g. "a=0,1|s=1|o=2".
func (s GameState) Key() string {
	var b strings.Builder
	b.WriteString("a=")
	writeDoors(&b, s.AvailableDoors)
	b.WriteString("|s=")
	if s.SelectedDoor != nil {
		b.WriteString(strconv.Itoa(s.SelectedDoor.Index))
	} else {
		b.WriteString("-")
	}
	b.WriteString("|o=")
	writeDoors(&b, s.OpenDoors)
	return b.String()
}

func writeDoors(b *strings.Builder, doors []Door) {
	for i, d := range doors {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(d.Index))
	}
}

type ActionKind string

const (
	Choose ActionKind = "select"
	Stand  ActionKind = "stay"
	Switch ActionKind = "switch"
)

// ActionRequest is what an agent asks the engine to do next.
type ActionRequest struct {
	Kind ActionKind
	Door int // only read for Choose
}

func ChooseDoor(index int) ActionRequest {
	return ActionRequest{Kind: Choose, Door: index}
}

func StandAction() ActionRequest {
	return ActionRequest{Kind: Stand}
}

func SwitchAction() ActionRequest {
	return ActionRequest{Kind: Switch}
}

// StepResult is emitted after every user move. ScoreDelta is non-zero only
// when the move ends the game with a win.
type StepResult struct {
	Action     ActionKind
	ScoreDelta int
}

// Result is the final outcome of one game.
type Result struct {
	Won   bool
	Score int
}

type ExperimentStatus struct {
	Running   bool
	StartTime time.Time
	EndTime   time.Time
	Errors    []error
}
