package rosterd

import (
	"context"
	"slices"
	"sync"

	"github.com/zjrosen/rosterboard/internal/log"
	"github.com/zjrosen/rosterboard/internal/roster"
)

// MemoryStore keeps activities in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []roster.Entry
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store holding entries.
func NewMemoryStore(entries []roster.Entry) *MemoryStore {
	s := &MemoryStore{}
	s.set(entries)
	return s
}

func (s *MemoryStore) set(entries []roster.Entry) {
	s.entries = make([]roster.Entry, 0, len(entries))
	for _, e := range entries {
		e.Record.Participants = slices.Clone(e.Record.Participants)
		s.entries = append(s.entries, e)
	}
}

func (s *MemoryStore) find(name string) int {
	return slices.IndexFunc(s.entries, func(e roster.Entry) bool { return e.Name == name })
}

// Snapshot returns every activity in store order.
func (s *MemoryStore) Snapshot(context.Context) (roster.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return roster.NewSnapshot(s.entries...), nil
}

// Signup appends email to the activity's roster.
func (s *MemoryStore) Signup(_ context.Context, activity, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(activity)
	if i < 0 {
		return ErrActivityNotFound
	}
	rec := &s.entries[i].Record
	if slices.Contains(rec.Participants, email) {
		return ErrAlreadySignedUp
	}
	rec.Participants = append(rec.Participants, email)
	log.Debug(log.CatStore, "signup", "activity", activity, "email", email)
	return nil
}

// Unregister removes email from the activity's roster.
func (s *MemoryStore) Unregister(_ context.Context, activity, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(activity)
	if i < 0 {
		return ErrActivityNotFound
	}
	rec := &s.entries[i].Record
	j := slices.Index(rec.Participants, email)
	if j < 0 {
		return ErrNotSignedUp
	}
	rec.Participants = slices.Delete(rec.Participants, j, j+1)
	log.Debug(log.CatStore, "unregister", "activity", activity, "email", email)
	return nil
}

// Replace swaps every activity for entries.
func (s *MemoryStore) Replace(_ context.Context, entries []roster.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(entries)
	log.Info(log.CatStore, "replaced activities", "count", len(entries))
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
