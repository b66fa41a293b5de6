package testutil

import "github.com/zjrosen/rosterboard/internal/rosterd"

// WithDefaultActivities adds the built-in seed.
func (b *Builder) WithDefaultActivities() *Builder {
	for _, e := range rosterd.DefaultActivities() {
		b.WithActivity(e.Name,
			Description(e.Record.Description),
			Schedule(e.Record.Schedule),
			Capacity(e.Record.MaxParticipants),
			Participants(e.Record.Participants...))
	}
	return b
}

// WithCapacityEdgeCases adds one activity of each availability shape.
//
//	Empty Room   nobody enrolled
//	Last Seat    one spot left
//	Sold Out     full
//	Overbooked   more participants than seats
func (b *Builder) WithCapacityEdgeCases() *Builder {
	return b.
		WithActivity("Empty Room", Capacity(5)).
		WithActivity("Last Seat", Capacity(2), Participants(Student(0))).
		WithActivity("Sold Out", Capacity(3), Full()).
		WithActivity("Overbooked", Capacity(1), Participants(Student(0), Student(1)))
}
