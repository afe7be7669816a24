// Package messaging fans experiment events out to subscribers such as the
// CLI progress logger.
package messaging

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// SimpleBroker implements the Broker interface.
// subscribers maps subscriber IDs to the channels that receive their messages.
type SimpleBroker struct {
	subscribers map[string]chan<- Message
	mu          sync.RWMutex
}

func NewBroker() *SimpleBroker {
	return &SimpleBroker{
		subscribers: make(map[string]chan<- Message),
	}
}

// Publish delivers msg without blocking. A recipient whose channel is full
// misses the message; every such miss is reported in the returned error, but
// the remaining recipients are still served.
func (b *SimpleBroker) Publish(msg Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	recipients := msg.To
	if len(recipients) == 0 {
		recipients = make([]string, 0, len(b.subscribers))
		for id := range b.subscribers {
			recipients = append(recipients, id)
		}
		sort.Strings(recipients)
	}

	var errs []error
	for _, id := range recipients {
		ch, ok := b.subscribers[id]
		if !ok {
			continue
		}
		select {
		case ch <- msg:
		default:
			errs = append(errs, fmt.Errorf("subscriber %s's channel is full", id))
		}
	}
	return errors.Join(errs...)
}

func (b *SimpleBroker) Subscribe(id string, ch chan<- Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[id]; exists {
		return fmt.Errorf("subscriber %s is already registered", id)
	}
	b.subscribers[id] = ch
	return nil
}

func (b *SimpleBroker) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[id]; !exists {
		return fmt.Errorf("subscriber %s is not registered", id)
	}
	delete(b.subscribers, id)
	return nil
}

// Subscribers returns how many subscribers are registered.
func (b *SimpleBroker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func (b *SimpleBroker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = make(map[string]chan<- Message)
}
