// Package config holds the flat parameter set of a simulation run.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/boristopalov/montyhall/pkg/agent"
	"github.com/boristopalov/montyhall/pkg/core"
	"github.com/boristopalov/montyhall/pkg/providers"
)

type ExperimentConfig struct {
	Name          string    `env:"MONTY_NAME" envDefault:"monty_hall"`
	DoorCount     int       `env:"MONTY_DOORS" envDefault:"3"`
	Trials        int       `env:"MONTY_TRIALS" envDefault:"1000"`
	Agents        []string  `env:"MONTY_AGENTS" envSeparator:","`
	Seed          int64     `env:"MONTY_SEED"` // 0 draws a random seed
	ResultsPath   string    `env:"MONTY_RESULTS_PATH" envDefault:"results.md"`
	AppendResults bool      `env:"MONTY_APPEND_RESULTS"`
	CSVPath       string    `env:"MONTY_CSV_PATH"`
	LuaScript     string    `env:"MONTY_LUA_SCRIPT"`
	LLM           LLMConfig `envPrefix:"MONTY_LLM_"`
	OTelEndpoint  string    `env:"MONTY_OTEL_ENDPOINT"`
}

type LLMConfig struct {
	Provider string `env:"PROVIDER" envDefault:"openai"`
	Model    string `env:"MODEL"` // empty picks the provider's default
	BaseURL  string `env:"BASE_URL"`
}

// ModelID returns the configured model, or the provider's default.
func (c LLMConfig) ModelID() string {
	if c.Model != "" {
		return c.Model
	}
	return providers.DefaultModel(c.Provider)
}

// FromEnv loads configuration from MONTY_* environment variables. Agents
// default to every agent that needs no API key or script.
func FromEnv() (*ExperimentConfig, error) {
	cfg := &ExperimentConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if len(cfg.Agents) == 0 {
		cfg.Agents = agent.DefaultNames()
	}
	return cfg, nil
}

// Validate checks the parameters before anything is simulated.
func (c *ExperimentConfig) Validate() error {
	if c.DoorCount < 3 {
		return core.InvalidArgument(fmt.Sprintf("door count must be at least 3, got %d", c.DoorCount))
	}
	if c.Trials < 1 {
		return core.InvalidArgument(fmt.Sprintf("trial count must be at least 1, got %d", c.Trials))
	}
	if len(c.Agents) == 0 {
		return core.InvalidArgument("at least one agent is required")
	}
	seen := make(map[string]bool, len(c.Agents))
	for _, name := range c.Agents {
		key := strings.ToLower(strings.TrimSpace(name))
		if !agent.IsKnown(key) {
			return core.InvalidArgument(fmt.Sprintf("unknown agent %q", name))
		}
		if seen[key] {
			return core.InvalidArgument(fmt.Sprintf("agent %q listed twice", name))
		}
		seen[key] = true
	}
	if seen[agent.NameLua] && c.LuaScript == "" {
		return core.InvalidArgument("agent lua requires a script path")
	}
	return nil
}

// UsesAgent reports whether name is part of the selection.
func (c *ExperimentConfig) UsesAgent(name string) bool {
	for _, a := range c.Agents {
		if strings.EqualFold(strings.TrimSpace(a), name) {
			return true
		}
	}
	return false
}
