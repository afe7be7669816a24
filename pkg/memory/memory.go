// Package memory keeps a bounded, oldest-first log of what an agent has seen.
package memory

import "sync"

type Memory struct {
	memoryStream []string
	capacity     int
	mu           sync.RWMutex
}

func NewMemory(capacity int) *Memory {
	if capacity < 1 {
		capacity = 1
	}
	return &Memory{
		memoryStream: make([]string, 0, capacity),
		capacity:     capacity,
	}
}

// GetAllMessages returns a copy of all entries in memory
func (m *Memory) GetAllMessages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := make([]string, len(m.memoryStream))
	copy(messages, m.memoryStream)
	return messages
}

// Recent returns up to the n newest entries, oldest first.
func (m *Memory) Recent(n int) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := len(m.memoryStream) - n
	if start < 0 {
		start = 0
	}
	messages := make([]string, len(m.memoryStream)-start)
	copy(messages, m.memoryStream[start:])
	return messages
}

// Store appends an entry, evicting the oldest once capacity is reached.
func (m *Memory) Store(data string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.memoryStream = append(m.memoryStream, data)
	if len(m.memoryStream) > m.capacity {
		m.memoryStream = m.memoryStream[1:]
	}
}
