package agent

import (
	"fmt"
	"strings"

	"github.com/boristopalov/montyhall/pkg/core"
)

// Registry names, in the order reports list them.
const (
	NameStander       = "stander"
	NameFirstSwitcher = "first-switcher"
	NameSwitcher      = "switcher"
	NameSmartSwitcher = "smart-switcher"
	NameRandom        = "random"
	NameDoor2         = "door2"
	NameQLearner      = "q-learner"
	NameQLearnerDecay = "q-learner-decay"
	NameLLM           = "llm"
	NameLua           = "lua"
)

type factory func(opts ...AgentOption) (core.Agent, error)

var registry = map[string]factory{
	NameStander:       func(opts ...AgentOption) (core.Agent, error) { return NewStander(opts...), nil },
	NameFirstSwitcher: func(opts ...AgentOption) (core.Agent, error) { return NewFirstSwitcher(opts...), nil },
	NameSwitcher:      func(opts ...AgentOption) (core.Agent, error) { return NewSwitcher(opts...), nil },
	NameSmartSwitcher: func(opts ...AgentOption) (core.Agent, error) { return NewSmartSwitcher(opts...), nil },
	NameRandom:        func(opts ...AgentOption) (core.Agent, error) { return NewRandom(opts...), nil },
	NameDoor2:         func(opts ...AgentOption) (core.Agent, error) { return NewFixedDoor(2, opts...), nil },
	NameQLearner:      func(opts ...AgentOption) (core.Agent, error) { return NewQLearner(opts...), nil },
	NameQLearnerDecay: func(opts ...AgentOption) (core.Agent, error) { return NewDecayingQLearner(opts...), nil },
	NameLLM:           func(opts ...AgentOption) (core.Agent, error) { return NewLLMAgent(opts...) },
	NameLua:           func(opts ...AgentOption) (core.Agent, error) { return NewLuaAgent(opts...) },
}

var order = []string{
	NameStander,
	NameFirstSwitcher,
	NameSwitcher,
	NameSmartSwitcher,
	NameRandom,
	NameDoor2,
	NameQLearner,
	NameQLearnerDecay,
	NameLLM,
	NameLua,
}

// New builds the agent registered under name.
func New(name string, opts ...AgentOption) (core.Agent, error) {
	f, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown agent %q (known: %s)", name, strings.Join(order, ", "))
	}
	return f(opts...)
}

// Names lists every registered agent.
func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// DefaultNames lists the agents that need no API key or script.
func DefaultNames() []string {
	return []string{
		NameStander,
		NameFirstSwitcher,
		NameSwitcher,
		NameSmartSwitcher,
		NameRandom,
		NameDoor2,
		NameQLearner,
		NameQLearnerDecay,
	}
}

// IsKnown reports whether name is registered.
func IsKnown(name string) bool {
	_, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
