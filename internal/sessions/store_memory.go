package sessions

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps sessions in memory and is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]Session
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Session)}
}

// Create stores a new session.
func (m *MemoryStore) Create(ctx context.Context, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[s.ID] = cloneSession(s)
	return nil
}

// Get returns a session by ID.
func (m *MemoryStore) Get(ctx context.Context, id string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byID[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return cloneSession(s), nil
}

// Update replaces an existing session.
func (m *MemoryStore) Update(ctx context.Context, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[s.ID]; !ok {
		return ErrNotFound
	}
	m.byID[s.ID] = cloneSession(s)
	return nil
}

// End marks a session as ended at the given time.
func (m *MemoryStore) End(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	if s.EndedAt == nil {
		ended := at.UTC()
		s.EndedAt = &ended
	}
	s.Pending = nil
	m.byID[id] = s
	return nil
}

// List returns all sessions ordered by login time.
func (m *MemoryStore) List(ctx context.Context) ([]Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]Session, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, cloneSession(s))
	}
	m.mu.RUnlock()
	sortSessions(out)
	return out, nil
}

func sortSessions(list []Session) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].StartedAt.Equal(list[j].StartedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].StartedAt.Before(list[j].StartedAt)
	})
}

// cloneSession copies pointer fields so callers cannot mutate stored state.
func cloneSession(s Session) Session {
	if s.EndedAt != nil {
		ended := *s.EndedAt
		s.EndedAt = &ended
	}
	if s.Pending != nil {
		pending := *s.Pending
		s.Pending = &pending
	}
	return s
}

var _ Store = (*MemoryStore)(nil)
