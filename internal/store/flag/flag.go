// Package flag keeps the per-visitor "lead already submitted" marker that
// gates every dialog on every variant.
package flag

import (
	"context"
	"sync"
)

// KeyPrefix is prepended to the visitor id.
const KeyPrefix = "leadSubmitted:"

func Key(visitorID string) string {
	return KeyPrefix + visitorID
}

// Memory is a process-local flag store for tests and single-node dev runs.
type Memory struct {
	mu    sync.RWMutex
	flags map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{flags: make(map[string]struct{})}
}

func (m *Memory) IsSubmitted(_ context.Context, visitorID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.flags[Key(visitorID)]
	return ok, nil
}

func (m *Memory) MarkSubmitted(_ context.Context, visitorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[Key(visitorID)] = struct{}{}
	return nil
}

func (m *Memory) Clear(_ context.Context, visitorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flags, Key(visitorID))
	return nil
}
