// Package pubsub provides a small generic publish/subscribe broker used to
// fan out log entries, sync stage transitions and seed-file changes.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// LoggedEvent carries a formatted log entry.
	LoggedEvent EventType = "logged"
	// StageEvent carries a sync pipeline transition.
	StageEvent EventType = "stage"
	// ChangedEvent signals that a watched resource changed.
	ChangedEvent EventType = "changed"
	// FailedEvent signals an error in a background producer.
	FailedEvent EventType = "failed"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
