package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rosterboard/internal/roster"
)

func TestBuilder_WithActivity_Defaults(t *testing.T) {
	entries := NewBuilder(t).WithActivity("Chess Club").Entries()

	require.Len(t, entries, 1)
	rec := entries[0].Record
	require.Equal(t, "Chess Club", entries[0].Name)
	require.Equal(t, "Chess Club", rec.Description) // default description is the name
	require.Equal(t, 10, rec.MaxParticipants)
	require.NotNil(t, rec.Participants)
	require.Empty(t, rec.Participants)
}

func TestBuilder_WithActivity_AllOptions(t *testing.T) {
	entries := NewBuilder(t).
		WithActivity("Art Club",
			Description("Paint and draw"),
			Schedule("Thursdays, 3:30 PM - 5:00 PM"),
			Capacity(4),
			Participants("amy@mergington.edu"),
			Participants("ben@mergington.edu")).
		Entries()

	require.Equal(t, roster.ActivityRecord{
		Description:     "Paint and draw",
		Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
		MaxParticipants: 4,
		Participants:    []string{"amy@mergington.edu", "ben@mergington.edu"},
	}, entries[0].Record)
}

func TestBuilder_RepeatedNameReplacesInPlace(t *testing.T) {
	snap := NewBuilder(t).
		WithActivity("A").
		WithActivity("B").
		WithActivity("A", Capacity(1)).
		Snapshot()

	require.Equal(t, []string{"A", "B"}, snap.Names())
	rec, ok := snap.Get("A")
	require.True(t, ok)
	require.Equal(t, 1, rec.MaxParticipants)
}

func TestBuilder_EntriesAreCopies(t *testing.T) {
	b := NewBuilder(t).WithActivity("A", Participants("x@y.z"))

	first := b.Entries()
	first[0].Record.Participants[0] = "changed"

	require.Equal(t, "x@y.z", b.Entries()[0].Record.Participants[0])
}

func TestFull(t *testing.T) {
	entries := NewBuilder(t).
		WithActivity("A", Capacity(3), Participants("amy@mergington.edu"), Full()).
		Entries()

	require.Equal(t, []string{"amy@mergington.edu", Student(1), Student(2)}, entries[0].Record.Participants)
}

func TestServe(t *testing.T) {
	store, client := NewBuilder(t).WithActivity("Chess Club", Capacity(2)).Serve()

	res, err := client.Signup(context.Background(), "Chess Club", "amy@mergington.edu")
	require.NoError(t, err)
	require.Contains(t, res.Message, "amy@mergington.edu")

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	rec, _ := snap.Get("Chess Club")
	require.Equal(t, []string{"amy@mergington.edu"}, rec.Participants)
}

func TestUnreachable(t *testing.T) {
	_, err := Unreachable(t).Snapshot(context.Background())
	require.ErrorIs(t, err, roster.ErrNetwork)
}
