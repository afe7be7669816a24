package agent

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/boristopalov/montyhall/pkg/core"
)

// LuaAgent runs a policy written in Lua. The script must define
//
//	function act(state) ... end
//
// returning "choose", <door> or "stand" or "switch". state has the fields
// available, open (arrays of door indices), selected (index or nil) and
// door_count. The hooks reset(), observe_step(action, delta) and
// observe_result(won, score) are optional. rand_intn(n) draws from the
// agent's seeded generator.
type LuaAgent struct {
	Base
	L   *lua.LState
	rng *rand.Rand
}

// NewLuaAgent loads the script at the configured path.
func NewLuaAgent(opts ...AgentOption) (*LuaAgent, error) {
	params := buildParams(opts)
	if params.ScriptPath == "" {
		return nil, fmt.Errorf("lua agent requires a script path")
	}
	a := newLuaAgent(params)
	if err := a.L.DoFile(params.ScriptPath); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load lua script %s: %w", params.ScriptPath, err)
	}
	if err := a.checkAct(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// NewLuaAgentFromSource loads a policy from a string.
func NewLuaAgentFromSource(source string, opts ...AgentOption) (*LuaAgent, error) {
	a := newLuaAgent(buildParams(opts))
	if err := a.L.DoString(source); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load lua source: %w", err)
	}
	if err := a.checkAct(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func newLuaAgent(params *AgentParams) *LuaAgent {
	a := &LuaAgent{
		Base: newBase("Lua", params),
		L:    lua.NewState(),
		rng:  params.Rand,
	}
	a.L.SetGlobal("rand_intn", a.L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n <= 0 {
			L.ArgError(1, "n must be positive")
			return 0
		}
		L.Push(lua.LNumber(a.rng.Intn(n)))
		return 1
	}))
	return a
}

func (a *LuaAgent) checkAct() error {
	if a.L.GetGlobal("act").Type() != lua.LTFunction {
		return fmt.Errorf("lua script must define function act(state)")
	}
	if name, ok := a.L.GetGlobal("name").(lua.LString); ok && name != "" {
		a.name = string(name)
	}
	return nil
}

// Close releases the Lua state.
func (a *LuaAgent) Close() error {
	a.L.Close()
	return nil
}

func (a *LuaAgent) Act(ctx context.Context, obs core.GameState) (core.ActionRequest, error) {
	a.L.SetContext(ctx)
	defer a.L.RemoveContext()

	if err := a.L.CallByParam(lua.P{
		Fn:      a.L.GetGlobal("act"),
		NRet:    2,
		Protect: true,
	}, a.stateTable(obs)); err != nil {
		return core.ActionRequest{}, fmt.Errorf("lua act failed: %w", err)
	}
	kind := a.L.Get(-2)
	door := a.L.Get(-1)
	a.L.Pop(2)

	switch strings.ToLower(kind.String()) {
	case "stand", "stay":
		return core.StandAction(), nil
	case "switch":
		return core.SwitchAction(), nil
	case "choose", "select":
		n, ok := door.(lua.LNumber)
		if !ok {
			return core.ActionRequest{}, fmt.Errorf("lua act returned choose without a door index")
		}
		if float64(int(n)) != float64(n) {
			return core.ActionRequest{}, fmt.Errorf("lua act returned non-integer door index %v", float64(n))
		}
		return core.ChooseDoor(int(n)), nil
	default:
		return core.ActionRequest{}, fmt.Errorf("lua act returned unknown action %q", kind.String())
	}
}

func (a *LuaAgent) Reset() {
	a.callHook("reset")
}

func (a *LuaAgent) ObserveStep(step core.StepResult) {
	a.callHook("observe_step", lua.LString(step.Action), lua.LNumber(step.ScoreDelta))
}

func (a *LuaAgent) ObserveResult(result core.Result) {
	a.callHook("observe_result", lua.LBool(result.Won), lua.LNumber(result.Score))
}

// callHook runs an optional global function. Hooks cannot fail the game, so
// errors are only logged.
func (a *LuaAgent) callHook(name string, args ...lua.LValue) {
	fn := a.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return
	}
	if err := a.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...); err != nil {
		log.Printf("Warning: lua hook %s failed: %v", name, err)
	}
}

func (a *LuaAgent) stateTable(obs core.GameState) *lua.LTable {
	t := a.L.NewTable()
	t.RawSetString("available", a.doorArray(obs.AvailableDoors))
	t.RawSetString("open", a.doorArray(obs.OpenDoors))
	if obs.SelectedDoor != nil {
		t.RawSetString("selected", lua.LNumber(obs.SelectedDoor.Index))
	}
	t.RawSetString("door_count", lua.LNumber(len(obs.AvailableDoors)+len(obs.OpenDoors)))
	return t
}

func (a *LuaAgent) doorArray(doors []core.Door) *lua.LTable {
	t := a.L.NewTable()
	for _, d := range doors {
		t.Append(lua.LNumber(d.Index))
	}
	return t
}
