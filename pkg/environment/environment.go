// Package environment implements the Monty Hall game engine.
package environment

import (
	"math/rand"

	"github.com/boristopalov/montyhall/internal/random"
	"github.com/boristopalov/montyhall/pkg/core"
)

// MinDoors is the smallest game the host can run: one door to keep, one to
// switch to, and one to reveal.
const MinDoors = 3

// Rand is the randomness the engine consumes. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

type actionType int

const (
	noAction actionType = iota
	userAction
	hostAction
)

func (a actionType) String() string {
	switch a {
	case userAction:
		return "user_action"
	case hostAction:
		return "host_action"
	default:
		return "none"
	}
}

type EnvParams struct {
	Rand Rand
	Seed *int64
}

type EnvOption func(*EnvParams)

// WithSeed makes the engine reproducible.
func WithSeed(seed int64) EnvOption {
	return func(p *EnvParams) {
		p.Seed = &seed
	}
}

// WithRand injects the random source directly. It takes precedence over WithSeed.
func WithRand(r Rand) EnvOption {
	return func(p *EnvParams) {
		p.Rand = r
	}
}

func resolveRand(opts []EnvOption) (Rand, error) {
	params := &EnvParams{}
	for _, opt := range opts {
		opt(params)
	}
	if params.Rand != nil {
		return params.Rand, nil
	}
	if params.Seed != nil {
		return rand.New(rand.NewSource(*params.Seed)), nil
	}
	seed, err := random.NewSeed()
	if err != nil {
		return nil, core.NewError(core.CodeIllegalState, err.Error())
	}
	return rand.New(rand.NewSource(seed)), nil
}
