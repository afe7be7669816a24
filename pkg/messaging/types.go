package messaging

import (
	"time"
)

// Message represents one event published during an experiment
type Message struct {
	From      string    // agent name that produced the event
	To        []string  // subscriber IDs (empty means broadcast)
	Content   any       // TrialOutcome or BatchDone
	Timestamp time.Time // when the event was published
}

// TrialOutcome is published after every finished game.
type TrialOutcome struct {
	RunID string
	Agent string
	Trial int // 1-based
	Won   bool
	Score int
}

// BatchDone is published once an agent has played all of its trials.
type BatchDone struct {
	RunID   string
	Agent   string
	Trials  int
	WinRate float64
}

// Broker handles message routing to subscribers
type Broker interface {
	// Publish sends a message to specified recipients
	Publish(msg Message) error
	// Subscribe registers a subscriber to receive messages
	Subscribe(id string, ch chan<- Message) error
	// Unsubscribe removes a subscription
	Unsubscribe(id string) error
}
