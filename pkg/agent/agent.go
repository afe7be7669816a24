package agent

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/boristopalov/montyhall/pkg/core"
	"github.com/boristopalov/montyhall/pkg/providers"
)

type ModelInfo struct {
	Id     string         // e.g. "gpt-4o-mini"
	Config map[string]any // model-specific configuration
}

type AgentParams struct {
	AgentID        string
	Rand           *rand.Rand
	Model          ModelInfo
	Client         providers.Client
	ScriptPath     string
	MemoryCapacity int
}

type AgentOption func(*AgentParams)

func WithAgentId(id string) AgentOption {
	return func(p *AgentParams) {
		p.AgentID = id
	}
}

// WithRand gives the agent its own random stream so runs are reproducible.
func WithRand(r *rand.Rand) AgentOption {
	return func(p *AgentParams) {
		p.Rand = r
	}
}

func WithModel(model ModelInfo) AgentOption {
	return func(p *AgentParams) {
		p.Model = model
	}
}

func WithProvider(c providers.Client) AgentOption {
	return func(p *AgentParams) {
		p.Client = c
	}
}

func WithScript(path string) AgentOption {
	return func(p *AgentParams) {
		p.ScriptPath = path
	}
}

func WithMemoryCapacity(n int) AgentOption {
	return func(p *AgentParams) {
		p.MemoryCapacity = n
	}
}

func defaultAgentParams() *AgentParams {
	return &AgentParams{
		AgentID: "agent-" + uuid.New().String(),
		Rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		Model: ModelInfo{
			Id:     "gpt-4o-mini",
			Config: make(map[string]any),
		},
		MemoryCapacity: 20,
	}
}

func buildParams(opts []AgentOption) *AgentParams {
	params := defaultAgentParams()
	for _, opt := range opts {
		opt(params)
	}
	return params
}

// Base carries identity and no-op hooks; policies embed it and override what
// they need.
type Base struct {
	id   string
	name string
}

func newBase(name string, params *AgentParams) Base {
	return Base{id: params.AgentID, name: name}
}

func (b *Base) GetID() string { return b.id }
func (b *Base) Name() string  { return b.name }

func (b *Base) Reset()                      {}
func (b *Base) ObserveStep(core.StepResult) {}
func (b *Base) ObserveResult(core.Result)   {}

// chooseRandomDoor picks one of the closed doors uniformly.
func chooseRandomDoor(rng *rand.Rand, obs core.GameState) core.ActionRequest {
	doors := obs.AvailableDoors
	return core.ChooseDoor(doors[rng.Intn(len(doors))].Index)
}
