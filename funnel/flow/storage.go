package flow

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps dialog states in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	states map[string]*State
	ttl    time.Duration
}

func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		states: make(map[string]*State),
		ttl:    ttl,
	}
}

func (m *MemoryStorage) Save(_ context.Context, state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.SessionID] = state.Clone()
	return nil
}

func (m *MemoryStorage) Load(_ context.Context, sessionID string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[sessionID]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (m *MemoryStorage) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, sessionID)
	return nil
}

// Sweep drops states not updated within the ttl and returns how many.
func (m *MemoryStorage) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.states {
		if now.Sub(s.UpdatedAt) > m.ttl {
			delete(m.states, id)
			n++
		}
	}
	return n
}

// Run sweeps expired states until ctx is done.
func (m *MemoryStorage) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}

// MongoStateStorage is an adapter that wraps the database operations.
type MongoStateStorage struct {
	repo StateRepository
}

// StateRepository defines the database operations for dialog state.
type StateRepository interface {
	SaveDialogState(ctx context.Context, state *State) error
	LoadDialogState(ctx context.Context, sessionID string) (*State, error)
	DeleteDialogState(ctx context.Context, sessionID string) error
}

func NewMongoStateStorage(repo StateRepository) *MongoStateStorage {
	return &MongoStateStorage{repo: repo}
}

func (s *MongoStateStorage) Save(ctx context.Context, state *State) error {
	return s.repo.SaveDialogState(ctx, state)
}

func (s *MongoStateStorage) Load(ctx context.Context, sessionID string) (*State, error) {
	return s.repo.LoadDialogState(ctx, sessionID)
}

func (s *MongoStateStorage) Delete(ctx context.Context, sessionID string) error {
	return s.repo.DeleteDialogState(ctx, sessionID)
}
