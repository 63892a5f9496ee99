// internal/store/memory.go
//
// In-memory implementations of KV and Sessions.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sessions additionally hand out one ctx-aware lock per session ID; the
//     lock entry is dropped once nobody holds or waits for it.
//   - State is lost when the process restarts.
//   - Games are held by value; their turn slices are never mutated in place
//     by the game package, so a stored snapshot stays valid after Save.

package store

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/peterbom/wordle-cheat/internal/game"
)

// memoryKV is a map-backed KV.
type memoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV constructs an empty in-memory KV.
func NewMemoryKV() KV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *memoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = slices.Clone(value)
	return nil
}

// memorySessions keeps games keyed by session ID.
type memorySessions struct {
	mu    sync.RWMutex // guards games map
	games map[string]game.Game

	lockMu sync.Mutex // guards locks map
	locks  map[string]*sessionLock
}

// sessionLock serializes one session; refs counts holders and waiters.
type sessionLock struct {
	sem  *semaphore.Weighted
	refs int
}

// NewMemorySessions constructs an empty in-memory Sessions store.
func NewMemorySessions() Sessions {
	return &memorySessions{
		games: make(map[string]game.Game),
		locks: make(map[string]*sessionLock),
	}
}

// Lock acquires the per-session lock for id.
func (m *memorySessions) Lock(ctx context.Context, id string) (func(), error) {
	m.lockMu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{sem: semaphore.NewWeighted(1)}
		m.locks[id] = l
	}
	l.refs++
	m.lockMu.Unlock()

	if err := l.sem.Acquire(ctx, 1); err != nil {
		m.release(id, l)
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			l.sem.Release(1)
			m.release(id, l)
		})
	}, nil
}

func (m *memorySessions) release(id string, l *sessionLock) {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, id)
	}
}
