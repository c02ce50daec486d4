package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[S any] struct {
	state     S
	updatedAt time.Time
}

// MemoryStore is a Store backed by a map. State is lost on restart.
type MemoryStore[S any] struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry[S]
	now      func() time.Time
}

func NewMemoryStore[S any]() *MemoryStore[S] {
	return &MemoryStore[S]{
		sessions: make(map[string]memoryEntry[S]),
		now:      time.Now,
	}
}

func (m *MemoryStore[S]) Create(_ context.Context, id string, state S) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; ok {
		return ErrExists
	}
	m.sessions[id] = memoryEntry[S]{state: state, updatedAt: m.now()}
	return nil
}

func (m *MemoryStore[S]) Get(_ context.Context, id string) (S, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		var zero S
		return zero, ErrNotFound
	}
	return entry.state, nil
}

func (m *MemoryStore[S]) Update(_ context.Context, id string, fn func(S) S) (S, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		var zero S
		return zero, ErrNotFound
	}
	entry.state = fn(entry.state)
	entry.updatedAt = m.now()
	m.sessions[id] = entry
	return entry.state, nil
}

func (m *MemoryStore[S]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore[S]) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions), nil
}

func (m *MemoryStore[S]) Prune(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, entry := range m.sessions {
		if entry.updatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore[S]) Close() error {
	return nil
}
