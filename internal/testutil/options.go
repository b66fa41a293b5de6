package testutil

import "slices"

// ActivityOption configures an activity during builder setup.
type ActivityOption func(*activityData)

type activityData struct {
	name         string
	description  string
	schedule     string
	capacity     int
	participants []string
}

// defaultActivity returns an empty activity with room for ten.
func defaultActivity(name string) activityData {
	return activityData{
		name:        name,
		description: name, // Default description is the name
		schedule:    "Fridays, 3:30 PM - 5:00 PM",
		capacity:    10,
	}
}

// Description sets the activity description.
func Description(desc string) ActivityOption {
	return func(a *activityData) { a.description = desc }
}

// Schedule sets the activity schedule.
func Schedule(schedule string) ActivityOption {
	return func(a *activityData) { a.schedule = schedule }
}

// Capacity sets the maximum number of participants.
func Capacity(n int) ActivityOption {
	return func(a *activityData) { a.capacity = n }
}

// Participants appends enrolled emails.
func Participants(emails ...string) ActivityOption {
	return func(a *activityData) { a.participants = append(a.participants, emails...) }
}

// Full fills the activity to capacity with generated students.
func Full() ActivityOption {
	return func(a *activityData) {
		for i := len(a.participants); i < a.capacity; i++ {
			a.participants = append(a.participants, Student(i))
		}
	}
}

func (a activityData) clone() activityData {
	a.participants = slices.Clone(a.participants)
	return a
}
