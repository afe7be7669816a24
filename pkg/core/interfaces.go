package core

import (
	"context"
)

// Environment enforces the rules of a single Monty Hall game
type Environment interface {
	// Reset starts a new game with a freshly drawn winning door
	Reset()
	// SelectDoor picks a closed door
	SelectDoor(index int) (StepResult, error)
	// HostOpensDoor reveals one closed door that is neither selected nor winning
	HostOpensDoor() error
	// SwitchDoor moves the selection to another closed door
	SwitchDoor() (StepResult, error)
	// Stand keeps the current selection
	Stand() (StepResult, error)
	// HasWon reports whether the selection is the winning door
	HasWon() (bool, error)
	// Done reports whether the game is over
	Done() bool
	// GetState returns a snapshot of the current game
	GetState() GameState
	// GetResult returns the outcome of a finished game
	GetResult() (Result, error)
}

// Agent is a policy that plays games against an Environment
type Agent interface {
	// Name identifies the agent in reports
	Name() string
	// Act decides the next move from the latest observation
	Act(ctx context.Context, obs GameState) (ActionRequest, error)
	// Reset clears per-game state before a new game
	Reset()
	// ObserveStep is called after every user move
	ObserveStep(step StepResult)
	// ObserveResult is called once the game is over
	ObserveResult(result Result)
}

// Experiment coordinates the running of experiments
type Experiment interface {
	// Run executes the experiment according to configuration
	Run(ctx context.Context) error
	// GetStatus returns current experiment status
	GetStatus() ExperimentStatus
}
