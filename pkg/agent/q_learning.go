package agent

import (
	"context"
	"math"
	"math/rand"

	"github.com/boristopalov/montyhall/pkg/core"
)

const (
	defaultAlpha          = 0.1
	defaultEpsilon        = 0.1
	defaultInitialEpsilon = 0.2
	defaultDecayRate      = 0.999
	minEpsilon            = 0.01
)

// QLearner is an epsilon-greedy tabular learner. Estimates are indexed by the
// structural key of the observed state, then by action.
type QLearner struct {
	Base
	rng     *rand.Rand
	qTable  map[string]map[core.ActionKind]float64
	alpha   float64
	epsilon float64
	lastKey string
}

func NewQLearner(opts ...AgentOption) *QLearner {
	params := buildParams(opts)
	return newQLearner("RLItsProbablyFine", params, defaultEpsilon)
}

func newQLearner(name string, params *AgentParams, epsilon float64) *QLearner {
	return &QLearner{
		Base:    newBase(name, params),
		rng:     params.Rand,
		qTable:  make(map[string]map[core.ActionKind]float64),
		alpha:   defaultAlpha,
		epsilon: epsilon,
	}
}

func (a *QLearner) Act(ctx context.Context, obs core.GameState) (core.ActionRequest, error) {
	a.lastKey = obs.Key()
	if !obs.HasSelection() {
		return chooseRandomDoor(a.rng, obs), nil
	}
	if a.rng.Float64() < a.epsilon {
		if a.rng.Intn(2) == 0 {
			return core.StandAction(), nil
		}
		return core.SwitchAction(), nil
	}
	if a.Estimate(obs, core.Switch) > a.Estimate(obs, core.Stand) {
		return core.SwitchAction(), nil
	}
	return core.StandAction(), nil
}

// ObserveStep moves the estimate for the last (state, action) pair toward the
// observed reward.
func (a *QLearner) ObserveStep(step core.StepResult) {
	if a.lastKey == "" {
		return
	}
	row, ok := a.qTable[a.lastKey]
	if !ok {
		row = make(map[core.ActionKind]float64)
		a.qTable[a.lastKey] = row
	}
	old := row[step.Action]
	row[step.Action] = old + a.alpha*(float64(step.ScoreDelta)-old)
}

// Reset forgets the last observation; learned estimates survive across games.
func (a *QLearner) Reset() {
	a.lastKey = ""
}

// Estimate returns the learned value of taking action in state.
func (a *QLearner) Estimate(state core.GameState, action core.ActionKind) float64 {
	return a.qTable[state.Key()][action]
}

func (a *QLearner) Epsilon() float64 {
	return a.epsilon
}

// States returns how many distinct states have estimates.
func (a *QLearner) States() int {
	return len(a.qTable)
}

// DecayingQLearner explores a lot early and less with every finished game.
type DecayingQLearner struct {
	*QLearner
	initialEpsilon float64
	decayRate      float64
	episodes       int
}

func NewDecayingQLearner(opts ...AgentOption) *DecayingQLearner {
	params := buildParams(opts)
	return &DecayingQLearner{
		QLearner:       newQLearner("RLItsProbablyFineDecayingEpsilon", params, defaultInitialEpsilon),
		initialEpsilon: defaultInitialEpsilon,
		decayRate:      defaultDecayRate,
	}
}

func (a *DecayingQLearner) ObserveResult(result core.Result) {
	a.episodes++
	a.epsilon = math.Max(minEpsilon, a.initialEpsilon*math.Pow(a.decayRate, float64(a.episodes)))
}
