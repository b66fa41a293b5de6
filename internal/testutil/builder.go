// Package testutil builds roster fixtures and serves them over HTTP.
package testutil

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rosterboard/internal/roster"
	"github.com/zjrosen/rosterboard/internal/rosterd"
)

// Builder accumulates activities in server order.
type Builder struct {
	t          *testing.T
	activities []activityData
}

// NewBuilder creates an empty builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithActivity adds an activity with optional configuration. Adding a name
// twice replaces the earlier one in place.
func (b *Builder) WithActivity(name string, opts ...ActivityOption) *Builder {
	a := defaultActivity(name)
	for _, opt := range opts {
		opt(&a)
	}
	for i := range b.activities {
		if b.activities[i].name == name {
			b.activities[i] = a
			return b
		}
	}
	b.activities = append(b.activities, a)
	return b
}

// Entries returns the accumulated activities.
func (b *Builder) Entries() []roster.Entry {
	entries := make([]roster.Entry, 0, len(b.activities))
	for _, a := range b.activities {
		a = a.clone()
		if a.participants == nil {
			a.participants = []string{}
		}
		entries = append(entries, roster.Entry{Name: a.name, Record: roster.ActivityRecord{
			Description:     a.description,
			Schedule:        a.schedule,
			MaxParticipants: a.capacity,
			Participants:    a.participants,
		}})
	}
	return entries
}

// Snapshot returns the accumulated activities as a snapshot.
func (b *Builder) Snapshot() roster.Snapshot {
	return roster.NewSnapshot(b.Entries()...)
}

// Memory returns an in-memory store holding the activities.
func (b *Builder) Memory() *rosterd.MemoryStore {
	return rosterd.NewMemoryStore(b.Entries())
}

// Serve starts a test server over an in-memory store and returns the store
// with a client pointed at it. Both are released when the test ends.
func (b *Builder) Serve() (*rosterd.MemoryStore, *roster.Client) {
	b.t.Helper()
	store := b.Memory()
	return store, Serve(b.t, store)
}

// Serve exposes store over HTTP for the duration of the test.
func Serve(t *testing.T, store rosterd.Store) *roster.Client {
	t.Helper()
	srv := httptest.NewServer(rosterd.NewHandler(store).Routes())
	t.Cleanup(srv.Close)

	client, err := roster.NewClient(srv.URL, roster.WithTimeout(2*time.Second))
	require.NoError(t, err)
	return client
}

// Unreachable returns a client for an address nothing listens on.
func Unreachable(t *testing.T) *roster.Client {
	t.Helper()
	client, err := roster.NewClient("http://127.0.0.1:1", roster.WithTimeout(time.Second))
	require.NoError(t, err)
	return client
}

// Student returns a generated school email.
func Student(i int) string {
	return fmt.Sprintf("student%02d@mergington.edu", i)
}
