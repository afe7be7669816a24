package agent

import (
	"context"
	"math/rand"

	"github.com/boristopalov/montyhall/pkg/core"
)

// Stander keeps its first pick no matter what the host reveals.
type Stander struct {
	Base
	rng *rand.Rand
}

func NewStander(opts ...AgentOption) *Stander {
	params := buildParams(opts)
	return &Stander{Base: newBase("Stander", params), rng: params.Rand}
}

func (a *Stander) Act(ctx context.Context, obs core.GameState) (core.ActionRequest, error) {
	if !obs.HasSelection() {
		return chooseRandomDoor(a.rng, obs), nil
	}
	return core.StandAction(), nil
}

// Switcher switches after every reveal.
type Switcher struct {
	Base
	rng *rand.Rand
}

func NewSwitcher(opts ...AgentOption) *Switcher {
	params := buildParams(opts)
	return &Switcher{Base: newBase("AlwaysSwitch", params), rng: params.Rand}
}

func (a *Switcher) Act(ctx context.Context, obs core.GameState) (core.ActionRequest, error) {
	if !obs.HasSelection() {
		return chooseRandomDoor(a.rng, obs), nil
	}
	return core.SwitchAction(), nil
}

// Random flips a coin between standing and switching after every reveal.
type Random struct {
	Base
	rng *rand.Rand
}

func NewRandom(opts ...AgentOption) *Random {
	params := buildParams(opts)
	return &Random{Base: newBase("Random", params), rng: params.Rand}
}

func (a *Random) Act(ctx context.Context, obs core.GameState) (core.ActionRequest, error) {
	if !obs.HasSelection() {
		return chooseRandomDoor(a.rng, obs), nil
	}
	if a.rng.Float64() < 0.5 {
		return core.StandAction(), nil
	}
	return core.SwitchAction(), nil
}

// FixedDoor always asks for the same door, re-selecting it after every reveal.
// The host never opens a selected door, so the request stays legal.
type FixedDoor struct {
	Base
	door int
}

func NewFixedDoor(door int, opts ...AgentOption) *FixedDoor {
	params := buildParams(opts)
	return &FixedDoor{Base: newBase("Door2", params), door: door}
}

func (a *FixedDoor) Act(ctx context.Context, obs core.GameState) (core.ActionRequest, error) {
	return core.ChooseDoor(a.door), nil
}

// FirstSwitcher switches on the first reveal and stands on every later one.
type FirstSwitcher struct {
	Base
	rng      *rand.Rand
	switched bool
}

func NewFirstSwitcher(opts ...AgentOption) *FirstSwitcher {
	params := buildParams(opts)
	return &FirstSwitcher{Base: newBase("FirstSwitcher", params), rng: params.Rand}
}

func (a *FirstSwitcher) Reset() {
	a.switched = false
}

func (a *FirstSwitcher) Act(ctx context.Context, obs core.GameState) (core.ActionRequest, error) {
	if !obs.HasSelection() {
		return chooseRandomDoor(a.rng, obs), nil
	}
	if a.switched {
		return core.StandAction(), nil
	}
	a.switched = true
	return core.SwitchAction(), nil
}

// SmartSwitcher stands through the early reveals and switches only on the
// final decision, when two doors are left. With more than three doors this
// beats switching every time.
type SmartSwitcher struct {
	Base
	rng *rand.Rand
}

func NewSmartSwitcher(opts ...AgentOption) *SmartSwitcher {
	params := buildParams(opts)
	return &SmartSwitcher{Base: newBase("SmartSwitcher", params), rng: params.Rand}
}

func (a *SmartSwitcher) Act(ctx context.Context, obs core.GameState) (core.ActionRequest, error) {
	if !obs.HasSelection() {
		return chooseRandomDoor(a.rng, obs), nil
	}
	if len(obs.AvailableDoors) == 2 {
		return core.SwitchAction(), nil
	}
	return core.StandAction(), nil
}
