// Package rosterd is a development Roster Service: the activities API that
// rosterboard talks to, backed by an in-memory or SQLite store.
package rosterd

import (
	"context"
	"errors"

	"github.com/zjrosen/rosterboard/internal/roster"
)

// Store errors. The handler maps them onto status codes and details.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadySignedUp  = errors.New("already signed up")
	ErrNotSignedUp      = errors.New("not signed up for this activity")
)

// Store holds activities and their rosters. Implementations keep the
// activity order they were given.
type Store interface {
	Snapshot(ctx context.Context) (roster.Snapshot, error)
	Signup(ctx context.Context, activity, email string) error
	Unregister(ctx context.Context, activity, email string) error
	// Replace swaps every activity for entries.
	Replace(ctx context.Context, entries []roster.Entry) error
	Close() error
}
