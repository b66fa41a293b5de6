package rosterd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/rosterboard/internal/roster"
)

// SeedFile is the YAML layout of a seed file. A list keeps the order
// activities are shown in.
//
//	activities:
//	  - name: Chess Club
//	    description: Learn strategies and compete in chess tournaments
//	    schedule: Fridays, 3:30 PM - 5:00 PM
//	    max_participants: 12
//	    participants: [michael@mergington.edu]
type SeedFile struct {
	Activities []SeedActivity `yaml:"activities"`
}

// SeedActivity is one activity in a seed file.
type SeedActivity struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Schedule        string   `yaml:"schedule"`
	MaxParticipants int      `yaml:"max_participants"`
	Participants    []string `yaml:"participants"`
}

// DefaultActivities is the built-in seed.
func DefaultActivities() []roster.Entry {
	return []roster.Entry{
		{Name: "Chess Club", Record: roster.ActivityRecord{
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		}},
		{Name: "Programming Class", Record: roster.ActivityRecord{
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		}},
		{Name: "Gym Class", Record: roster.ActivityRecord{
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		}},
	}
}

// LoadSeed reads a seed file. An empty path returns DefaultActivities.
func LoadSeed(path string) ([]roster.Entry, error) {
	if path == "" {
		return DefaultActivities(), nil
	}
	f, err := os.Open(path) //nolint:gosec // G304: seed path comes from config
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := ParseSeed(f)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return entries, nil
}

// ParseSeed decodes seed YAML.
func ParseSeed(r io.Reader) ([]roster.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var seed SeedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}

	seen := make(map[string]bool, len(seed.Activities))
	entries := make([]roster.Entry, 0, len(seed.Activities))
	for i, a := range seed.Activities {
		if a.Name == "" {
			return nil, fmt.Errorf("activity %d: name is required", i)
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("activity %d (%s): duplicate name", i, a.Name)
		}
		if a.MaxParticipants < 0 {
			return nil, fmt.Errorf("activity %d (%s): max_participants must not be negative", i, a.Name)
		}
		seen[a.Name] = true
		participants := a.Participants
		if participants == nil {
			participants = []string{}
		}
		entries = append(entries, roster.Entry{Name: a.Name, Record: roster.ActivityRecord{
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    participants,
		}})
	}
	return entries, nil
}
