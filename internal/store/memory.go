// internal/store/memory.go
//
// In-memory registry of live game sessions.
// Sessions hold timers and audio handles, so they only ever live in memory;
// state is lost when the process restarts.
//
// Characteristics:
//   - Stores *session.Session keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sweep closes and drops sessions idle for longer than the TTL.
//   - Errors are returned for missing session IDs on Get().

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colortab/internal/session"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("not found")

// Store defines the registry interface for game sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *session.Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session is not registered.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Delete closes and removes a session.
	Delete(ctx context.Context, id string) error

	// ByOwner lists the sessions created by owner, newest first.
	ByOwner(ctx context.Context, owner string) ([]*session.Session, error)

	// Claim moves every session of one owner to another.
	Claim(ctx context.Context, from, to string) error
}

// Memory is an in-memory map-based Store implementation.
type Memory struct {
	mu       sync.RWMutex                // guards sessions and owners
	sessions map[string]*session.Session // keyed by Session.ID
	owners   map[string]string           // session ID → owner, updated by Claim
	ttl      time.Duration
	now      func() time.Time
	onEvict  func(id string)
}

// NewMemoryStore constructs a new in-memory Store.
// Sessions idle for longer than ttl are dropped by Sweep; ttl <= 0 disables eviction.
func NewMemoryStore(ttl time.Duration) *Memory {
	return &Memory{
		sessions: make(map[string]*session.Session),
		owners:   make(map[string]string),
		ttl:      ttl,
		now:      time.Now,
	}
}

// OnEvict registers fn to run, outside the lock, for every session Sweep drops.
func (m *Memory) OnEvict(fn func(id string)) {
	m.mu.Lock()
	m.onEvict = fn
	m.mu.Unlock()
}

// Save adds or replaces the session in the map. A replaced session is closed.
func (m *Memory) Save(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	prev, ok := m.sessions[s.ID()]
	m.sessions[s.ID()] = s
	m.owners[s.ID()] = s.Owner()
	m.mu.Unlock()
	if ok && prev != s {
		prev.Close()
	}
	return nil
}

// Get looks up a session by ID.
func (m *Memory) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Delete closes and removes a session.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	delete(m.owners, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

// ByOwner lists an owner's sessions, newest first.
func (m *Memory) ByOwner(ctx context.Context, owner string) ([]*session.Session, error) {
	m.mu.RLock()
	out := []*session.Session{}
	for id, o := range m.owners {
		if o == owner && owner != "" {
			out = append(out, m.sessions[id])
		}
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

// Claim transfers anonymous sessions to a user account after sign-in.
func (m *Memory) Claim(ctx context.Context, from, to string) error {
	if from == "" || to == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, o := range m.owners {
		if o == from {
			m.owners[id] = to
		}
	}
	return nil
}

// Len reports the number of live sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes and drops idle sessions. It returns how many were removed.
func (m *Memory) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)
	var stale []*session.Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
			delete(m.owners, id)
		}
	}
	evict := m.onEvict
	m.mu.Unlock()
	for _, s := range stale {
		s.Close()
		if evict != nil {
			evict(s.ID())
		}
	}
	if len(stale) > 0 {
		log.Info().Int("evicted", len(stale)).Msg("swept idle sessions")
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	if m.ttl <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}
