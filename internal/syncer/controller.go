// Package syncer keeps the rendered activity list consistent with the
// Roster Service. After each mutation it fetches a fresh snapshot and either
// patches the one affected card in place or rebuilds the whole list.
//
// All methods must be called from the program loop; network work happens
// inside the returned commands and comes back as messages.
package syncer

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/net/html"

	"github.com/zjrosen/rosterboard/internal/binder"
	"github.com/zjrosen/rosterboard/internal/dom"
	"github.com/zjrosen/rosterboard/internal/feedback"
	"github.com/zjrosen/rosterboard/internal/identity"
	"github.com/zjrosen/rosterboard/internal/log"
	"github.com/zjrosen/rosterboard/internal/pubsub"
	"github.com/zjrosen/rosterboard/internal/render"
	"github.com/zjrosen/rosterboard/internal/roster"
	"github.com/zjrosen/rosterboard/internal/tracing"
)

// User-facing fallbacks.
const (
	RejectedFallback     = "An error occurred"
	SignupFailedText     = "Failed to sign up. Please try again."
	UnregisterFailedText = "Failed to unregister participant. Please try again."
)

// Config wires a Controller.
type Config struct {
	Service      roster.Service
	Page         *dom.Page
	Confirmer    binder.Confirmer
	Labeler      identity.Labeler
	Tracer       trace.Tracer
	DismissAfter time.Duration
}

// Controller is the sync engine for one page.
type Controller struct {
	svc      roster.Service
	page     *dom.Page
	renderer *render.Renderer
	binder   *binder.Binder
	feedback *feedback.Channel
	tracer   trace.Tracer
	events   *pubsub.Broker[Transition]
	stages   map[string]Stage
}

// New creates a Controller. Confirmer defaults to binder.Dialog.
func New(cfg Config) *Controller {
	page := cfg.Page
	if page == nil {
		page = dom.NewPage()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	confirm := cfg.Confirmer
	if confirm == nil {
		confirm = binder.Dialog
	}

	c := &Controller{
		svc:      cfg.Service,
		page:     page,
		renderer: render.New(cfg.Labeler),
		feedback: feedback.New(page.Message, cfg.DismissAfter),
		tracer:   tracer,
		events:   pubsub.NewBroker[Transition](),
		stages:   make(map[string]Stage),
	}
	c.binder = binder.New(c, confirm)
	return c
}

// Page returns the document the controller renders into.
func (c *Controller) Page() *dom.Page { return c.page }

// Binder returns the listener binder.
func (c *Controller) Binder() *binder.Binder { return c.binder }

// Feedback returns the feedback channel.
func (c *Controller) Feedback() *feedback.Channel { return c.feedback }

// Events publishes every stage transition.
func (c *Controller) Events() *pubsub.Broker[Transition] { return c.events }

// Stage returns the current stage of an action; finished or unknown actions
// are Idle.
func (c *Controller) Stage(actionID string) Stage {
	return c.stages[actionID]
}

// InFlight returns the number of actions that have not returned to Idle.
func (c *Controller) InFlight() int { return len(c.stages) }

// Click activates a rendered control.
func (c *Controller) Click(ctl *html.Node) tea.Cmd {
	return c.binder.Click(ctl)
}

// LoadAll fetches the snapshot and rebuilds the list.
func (c *Controller) LoadAll() tea.Cmd {
	svc, tracer := c.svc, c.tracer
	return func() tea.Msg {
		ctx, span := tracer.Start(context.Background(), tracing.SpanLoad)
		defer span.End()

		snap, err := svc.Snapshot(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "load failed")
		}
		span.SetAttributes(attribute.Int(tracing.AttrActivities, snap.Len()))
		return LoadedMsg{Snapshot: snap, Err: err}
	}
}

// Signup registers email for activity.
func (c *Controller) Signup(activity, email string) tea.Cmd {
	return c.request(c.begin(KindSignup, activity, email))
}

// Remove unregisters email from activity. It satisfies binder.Remover.
func (c *Controller) Remove(activity, email string) tea.Cmd {
	return c.request(c.begin(KindRemoval, activity, email))
}

// Update handles the controller's messages and reports whether msg was one.
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case LoadedMsg:
		c.applyLoad(msg)
		return nil, true
	case MutationDoneMsg:
		return c.finishRequest(msg), true
	case ReconciledMsg:
		c.finishReconcile(msg)
		return nil, true
	case feedback.HideMsg:
		c.feedback.Update(msg)
		return nil, true
	}
	return nil, false
}

// Report shows a message through the feedback channel.
func (c *Controller) Report(text string, kind feedback.Kind) tea.Cmd {
	return c.feedback.Report(text, kind)
}

func (c *Controller) begin(kind Kind, activity, email string) Action {
	a := Action{
		ID:       uuid.NewString(),
		Kind:     kind,
		Activity: activity,
		Email:    email,
	}
	a.ctx, a.span = c.tracer.Start(context.Background(), tracing.SpanAction,
		trace.WithAttributes(
			attribute.String(tracing.AttrActionID, a.ID),
			attribute.String(tracing.AttrActionKind, kind.String()),
			attribute.String(tracing.AttrActivity, activity),
		),
	)
	c.transition(a, StageRequesting, StrategyNone)
	return a
}

func (c *Controller) request(a Action) tea.Cmd {
	svc, tracer := c.svc, c.tracer
	return func() tea.Msg {
		ctx, span := tracer.Start(a.ctx, tracing.SpanRequest)
		defer span.End()

		var (
			res roster.Result
			err error
		)
		if a.Kind == KindRemoval {
			res, err = svc.Unregister(ctx, a.Activity, a.Email)
		} else {
			res, err = svc.Signup(ctx, a.Activity, a.Email)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "request failed")
		}
		return MutationDoneMsg{Action: a, Result: res, Err: err}
	}
}

func (c *Controller) finishRequest(msg MutationDoneMsg) tea.Cmd {
	a := msg.Action

	if msg.Err != nil {
		c.transition(a, StageFailed, StrategyNone)
		log.Warn(log.CatSync, "mutation failed", "action", a.ID, "kind", a.Kind, "activity", a.Activity, "error", msg.Err)
		cmd := c.feedback.Report(failureText(a.Kind, msg.Err), feedback.KindError)
		a.span.SetStatus(codes.Error, msg.Err.Error())
		c.transition(a, StageIdle, StrategyNone)
		a.span.End()
		return cmd
	}

	c.transition(a, StageSucceeded, StrategyNone)
	text := msg.Result.Message
	if text == "" {
		text = successText(a)
	}
	report := c.feedback.Report(text, feedback.KindSuccess)

	c.transition(a, StageReconciling, StrategyNone)
	return tea.Batch(report, c.reconcile(a))
}

func (c *Controller) reconcile(a Action) tea.Cmd {
	svc, tracer := c.svc, c.tracer
	return func() tea.Msg {
		ctx, span := tracer.Start(a.ctx, tracing.SpanReconcile)
		defer span.End()

		snap, err := svc.Snapshot(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "snapshot failed")
		}
		return ReconciledMsg{Action: a, Snapshot: snap, Err: err}
	}
}

func (c *Controller) finishReconcile(msg ReconciledMsg) {
	a := msg.Action
	defer a.span.End()

	if msg.Err != nil {
		log.ErrorErr(log.CatSync, "failed to refresh activities after mutation", msg.Err, "action", a.ID, "kind", a.Kind)
		c.transition(a, StageIdle, StrategyStale)
		return
	}

	strategy := StrategyReload
	if rec, ok := msg.Snapshot.Get(a.Activity); ok && c.patch(a.Activity, rec) {
		strategy = StrategyPatch
	} else {
		c.render(msg.Snapshot)
	}
	a.span.SetAttributes(attribute.String(tracing.AttrStrategy, string(strategy)))
	c.transition(a, StageIdle, strategy)
}

// patch rewrites the availability line and roster block of one card. It
// reports false when the card or either part is missing.
func (c *Controller) patch(name string, rec roster.ActivityRecord) bool {
	card := c.page.Card(name)
	if card == nil {
		return false
	}
	avail := dom.First(card, dom.ByClass(render.ClassAvailability))
	section := dom.First(card, dom.ByClass(render.ClassSection))
	if avail == nil || section == nil {
		return false
	}

	dom.SetChildren(avail, render.AvailabilityContent(rec)...)
	fresh := c.renderer.RosterSection(rec, name)
	dom.ReplaceWith(section, fresh)

	c.binder.Prune(c.page.List)
	c.binder.Bind(fresh)
	log.Debug(log.CatSync, "patched card", "activity", name, "participants", len(rec.Participants))
	return true
}

func (c *Controller) applyLoad(msg LoadedMsg) {
	if msg.Err != nil {
		log.ErrorErr(log.CatSync, "error fetching activities", msg.Err)
		dom.SetChildren(c.page.List, render.LoadError())
		c.binder.Prune(c.page.List)
		return
	}
	c.render(msg.Snapshot)
}

// render rebuilds the list and the select options from snap.
func (c *Controller) render(snap roster.Snapshot) {
	dom.Clear(c.page.List)
	dom.SetChildren(c.page.Select, render.PlaceholderOption())

	for _, e := range snap.Entries() {
		dom.Append(c.page.List, c.renderer.Card(e.Name, e.Record))
		dom.Append(c.page.Select, render.Option(e.Name))
	}

	c.binder.Prune(c.page.List)
	c.binder.Bind(c.page.List)
	log.Debug(log.CatSync, "rendered activities", "count", snap.Len())
}

func (c *Controller) transition(a Action, to Stage, strategy Strategy) {
	from := c.stages[a.ID]
	if to == StageIdle {
		delete(c.stages, a.ID)
	} else {
		c.stages[a.ID] = to
	}

	a.span.AddEvent(to.String(), trace.WithAttributes(attribute.String(tracing.AttrStage, to.String())))
	log.Debug(log.CatSync, "stage", "action", a.ID, "kind", a.Kind, "from", from, "to", to, "strategy", strategy)
	c.events.Publish(pubsub.StageEvent, Transition{
		ActionID: a.ID,
		Kind:     a.Kind,
		Activity: a.Activity,
		From:     from,
		To:       to,
		Strategy: strategy,
	})
}

func failureText(kind Kind, err error) string {
	var rej *roster.RejectionError
	if errors.As(err, &rej) {
		if rej.Detail != "" {
			return rej.Detail
		}
		return RejectedFallback
	}
	if kind == KindRemoval {
		return UnregisterFailedText
	}
	return SignupFailedText
}

func successText(a Action) string {
	if a.Kind == KindRemoval {
		return "Unregistered " + a.Email + " from " + a.Activity
	}
	return "Signed up " + a.Email + " for " + a.Activity
}
