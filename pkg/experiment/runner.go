package experiment

import (
	"context"
	"fmt"

	"github.com/boristopalov/montyhall/pkg/core"
)

// RunEpisode plays one game from reset to done. The host reveals a door after
// every user move until two doors remain, so a game with N doors takes N-2
// reveals. Any failure from the agent or the engine aborts the game.
func RunEpisode(ctx context.Context, env core.Environment, a core.Agent) (core.Result, error) {
	env.Reset()
	a.Reset()

	if err := playMove(ctx, env, a); err != nil {
		return core.Result{}, err
	}
	for !env.Done() {
		if err := env.HostOpensDoor(); err != nil {
			return core.Result{}, fmt.Errorf("host failed to open a door: %w", err)
		}
		if err := playMove(ctx, env, a); err != nil {
			return core.Result{}, err
		}
	}

	won, err := env.HasWon()
	if err != nil {
		return core.Result{}, fmt.Errorf("failed to determine outcome: %w", err)
	}
	result := core.Result{Won: won}
	if won {
		result.Score = core.WinScore
	}
	a.ObserveResult(result)
	return result, nil
}

// playMove asks the agent for a move, applies it, and reports the step back.
func playMove(ctx context.Context, env core.Environment, a core.Agent) error {
	req, err := a.Act(ctx, env.GetState())
	if err != nil {
		return fmt.Errorf("agent %s failed to act: %w", a.Name(), err)
	}

	var step core.StepResult
	switch req.Kind {
	case core.Choose:
		step, err = env.SelectDoor(req.Door)
	case core.Stand:
		step, err = env.Stand()
	case core.Switch:
		step, err = env.SwitchDoor()
	default:
		return core.WithMetadata(core.CodeInvalidArgument,
			fmt.Sprintf("agent %s requested unknown action %q", a.Name(), req.Kind),
			map[string]string{"action": string(req.Kind)})
	}
	if err != nil {
		return fmt.Errorf("agent %s: %s rejected: %w", a.Name(), req.Kind, err)
	}

	a.ObserveStep(step)
	return nil
}
