package syncer

import (
	"context"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/rosterboard/internal/binder"
	"github.com/zjrosen/rosterboard/internal/feedback"
	"github.com/zjrosen/rosterboard/internal/roster"
)

// fakeService is an in-memory Roster Service. Errors set on it are returned
// by the next matching call.
type fakeService struct {
	mu        sync.Mutex
	names     []string
	records   map[string]roster.ActivityRecord
	snapErr   error
	mutateErr error
	snapshots int
}

func newFakeService() *fakeService {
	f := &fakeService{records: map[string]roster.ActivityRecord{}}
	f.put("Chess Club", roster.ActivityRecord{
		Description:     "Learn strategies and compete in chess tournaments",
		Schedule:        "Fridays, 3:30 PM - 5:00 PM",
		MaxParticipants: 12,
		Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
	})
	f.put("Gym Class", roster.ActivityRecord{
		Description:     "Physical education and sports activities",
		Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
		MaxParticipants: 2,
		Participants:    []string{"john@mergington.edu"},
	})
	return f
}

func (f *fakeService) put(name string, rec roster.ActivityRecord) {
	if _, ok := f.records[name]; !ok {
		f.names = append(f.names, name)
	}
	f.records[name] = rec
}

func (f *fakeService) drop(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, name)
	f.names = slices.DeleteFunc(f.names, func(n string) bool { return n == name })
}

func (f *fakeService) Snapshot(context.Context) (roster.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots++
	if f.snapErr != nil {
		return roster.Snapshot{}, f.snapErr
	}
	entries := make([]roster.Entry, 0, len(f.names))
	for _, n := range f.names {
		entries = append(entries, roster.Entry{Name: n, Record: f.records[n]})
	}
	return roster.NewSnapshot(entries...), nil
}

func (f *fakeService) Signup(_ context.Context, activity, email string) (roster.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return roster.Result{}, f.mutateErr
	}
	rec, ok := f.records[activity]
	if !ok {
		return roster.Result{}, &roster.RejectionError{Status: 404, Detail: "Activity not found"}
	}
	if slices.Contains(rec.Participants, email) {
		return roster.Result{}, &roster.RejectionError{Status: 400, Detail: "Already signed up"}
	}
	rec.Participants = append(slices.Clone(rec.Participants), email)
	f.records[activity] = rec
	return roster.Result{Message: "Signed up " + email + " for " + activity}, nil
}

func (f *fakeService) Unregister(_ context.Context, activity, email string) (roster.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return roster.Result{}, f.mutateErr
	}
	rec, ok := f.records[activity]
	if !ok {
		return roster.Result{}, &roster.RejectionError{Status: 404, Detail: "Activity not found"}
	}
	i := slices.Index(rec.Participants, email)
	if i < 0 {
		return roster.Result{}, &roster.RejectionError{Status: 400, Detail: "Not signed up for this activity"}
	}
	rec.Participants = slices.Delete(slices.Clone(rec.Participants), i, i+1)
	f.records[activity] = rec
	return roster.Result{Message: "Unregistered " + email + " from " + activity}, nil
}

// confirmAll approves every prompt and records it.
func confirmAll(prompts *[]string) binder.Confirmer {
	return binder.ConfirmFunc(func(prompt string, proceed func() tea.Cmd) tea.Cmd {
		*prompts = append(*prompts, prompt)
		return proceed()
	})
}

func newController(svc roster.Service, confirm binder.Confirmer) *Controller {
	return New(Config{Service: svc, Confirmer: confirm, DismissAfter: time.Millisecond})
}

// drive runs cmd to completion, feeding every message back into c. Hide
// ticks are collected rather than applied.
func drive(c *Controller, cmd tea.Cmd) (hides []feedback.HideMsg) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case feedback.HideMsg:
			hides = append(hides, msg)
		default:
			follow, _ := c.Update(msg)
			queue = append(queue, follow)
		}
	}
	return hides
}
