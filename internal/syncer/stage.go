package syncer

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rosterboard/internal/roster"
)

// Kind is the type of user-initiated mutation.
type Kind int

const (
	KindSignup Kind = iota
	KindRemoval
)

func (k Kind) String() string {
	if k == KindRemoval {
		return "removal"
	}
	return "signup"
}

// Stage is a step of the per-action pipeline:
//
//	Idle -> Requesting -> {Succeeded, Failed} -> Reconciling -> Idle
//
// Failed returns straight to Idle.
type Stage int

const (
	StageIdle Stage = iota
	StageRequesting
	StageSucceeded
	StageFailed
	StageReconciling
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageRequesting:
		return "requesting"
	case StageSucceeded:
		return "succeeded"
	case StageFailed:
		return "failed"
	case StageReconciling:
		return "reconciling"
	default:
		return "unknown"
	}
}

// Strategy is how a reconciliation brought the page up to date.
type Strategy string

const (
	StrategyNone   Strategy = ""
	StrategyPatch  Strategy = "patch"
	StrategyReload Strategy = "reload"
	StrategyStale  Strategy = "stale"
)

// Action is one user-initiated mutation travelling through the pipeline.
type Action struct {
	ID       string
	Kind     Kind
	Activity string
	Email    string

	ctx  context.Context
	span trace.Span
}

// Transition is published for every stage change.
type Transition struct {
	ActionID string
	Kind     Kind
	Activity string
	From     Stage
	To       Stage
	Strategy Strategy
}

// MutationDoneMsg ends the Requesting stage.
type MutationDoneMsg struct {
	Action Action
	Result roster.Result
	Err    error
}

// ReconciledMsg ends the Reconciling stage with the snapshot it fetched.
type ReconciledMsg struct {
	Action   Action
	Snapshot roster.Snapshot
	Err      error
}

// LoadedMsg carries the snapshot for a full load.
type LoadedMsg struct {
	Snapshot roster.Snapshot
	Err      error
}
