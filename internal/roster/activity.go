// Package roster is the client for the Roster Service, the HTTP API of
// record for activities and their participants.
package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ActivityRecord is one activity as reported by the server.
type ActivityRecord struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

func (r ActivityRecord) clone() ActivityRecord {
	r.Participants = slices.Clone(r.Participants)
	if r.Participants == nil {
		r.Participants = []string{}
	}
	return r
}

// Entry pairs an activity name with its record.
type Entry struct {
	Name   string
	Record ActivityRecord
}

// Snapshot is every activity as of one fetch, in server order. It is
// immutable: accessors return copies.
type Snapshot struct {
	order   []string
	records map[string]ActivityRecord
}

// NewSnapshot builds a snapshot from entries. A repeated name keeps its
// first position and takes the last record, like a JSON object would.
func NewSnapshot(entries ...Entry) Snapshot {
	s := Snapshot{records: make(map[string]ActivityRecord, len(entries))}
	for _, e := range entries {
		s.put(e.Name, e.Record)
	}
	return s
}

func (s *Snapshot) put(name string, rec ActivityRecord) {
	if _, ok := s.records[name]; !ok {
		s.order = append(s.order, name)
	}
	s.records[name] = rec.clone()
}

// Len returns the number of activities.
func (s Snapshot) Len() int { return len(s.order) }

// Names returns the activity names in snapshot order.
func (s Snapshot) Names() []string { return slices.Clone(s.order) }

// Get returns the record for name.
func (s Snapshot) Get(name string) (ActivityRecord, bool) {
	rec, ok := s.records[name]
	if !ok {
		return ActivityRecord{}, false
	}
	return rec.clone(), true
}

// Entries returns all activities in snapshot order.
func (s Snapshot) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, Entry{Name: name, Record: s.records[name].clone()})
	}
	return out
}

// UnmarshalJSON decodes a JSON object keyed by activity name, keeping the
// key order.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("snapshot must be a JSON object")
	}

	next := Snapshot{records: map[string]ActivityRecord{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading activity name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}

		var rec ActivityRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("decoding activity %q: %w", name, err)
		}
		next.put(name, rec)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("reading snapshot end: %w", err)
	}

	*s = next
	return nil
}

// MarshalJSON encodes the snapshot as a JSON object in snapshot order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.records[name].clone())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
