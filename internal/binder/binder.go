// Package binder attaches removal handlers to the delete controls of a
// rendered roster, at most once per control.
package binder

import (
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/net/html"

	"github.com/zjrosen/rosterboard/internal/dom"
	"github.com/zjrosen/rosterboard/internal/log"
	"github.com/zjrosen/rosterboard/internal/render"
)

// MarkerAttr flags a control that already has its handler.
const MarkerAttr = "data-bound"

// Remover performs the removal once the user has confirmed it.
type Remover interface {
	Remove(activity, email string) tea.Cmd
}

// Confirmer asks the user to confirm prompt. It returns proceed() when the
// answer is known synchronously, or a command that leads there later.
type Confirmer interface {
	Confirm(prompt string, proceed func() tea.Cmd) tea.Cmd
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string, proceed func() tea.Cmd) tea.Cmd

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string, proceed func() tea.Cmd) tea.Cmd {
	return f(prompt, proceed)
}

// ConfirmRequestMsg asks the UI to show a confirmation dialog. Proceed is
// run only if the user accepts.
type ConfirmRequestMsg struct {
	Prompt  string
	Proceed func() tea.Cmd
}

// Dialog is the Confirmer used by the TUI: it hands the decision to the
// program loop as a ConfirmRequestMsg.
var Dialog Confirmer = ConfirmFunc(func(prompt string, proceed func() tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return ConfirmRequestMsg{Prompt: prompt, Proceed: proceed}
	}
})

type handler func(ctl *html.Node) tea.Cmd

// Binder owns the registry of bound controls.
type Binder struct {
	remove   Remover
	confirm  Confirmer
	registry map[*html.Node][]handler
}

// New creates a Binder delegating confirmed removals to remove.
func New(remove Remover, confirm Confirmer) *Binder {
	return &Binder{
		remove:   remove,
		confirm:  confirm,
		registry: make(map[*html.Node][]handler),
	}
}

// Controls returns the delete controls under root in document order.
func Controls(root *html.Node) []*html.Node {
	return dom.Find(root, dom.ByClass(render.ClassDelete))
}

// Bind attaches the removal handler to every unmarked delete control under
// root and returns how many were newly bound.
func (b *Binder) Bind(root *html.Node) int {
	bound := 0
	for _, ctl := range Controls(root) {
		if _, ok := dom.Attr(ctl, MarkerAttr); ok {
			continue
		}
		dom.SetAttr(ctl, MarkerAttr, "true")
		b.registry[ctl] = append(b.registry[ctl], b.onRemove)
		bound++
	}
	log.Debug(log.CatBind, "bound delete controls", "new", bound, "registered", len(b.registry))
	return bound
}

func (b *Binder) onRemove(ctl *html.Node) tea.Cmd {
	activity, okA := dom.Attr(ctl, render.AttrActivity)
	email, okE := dom.Attr(ctl, render.AttrEmail)
	if !okA || !okE || activity == "" || email == "" {
		log.Debug(log.CatBind, "skipping malformed delete control")
		return nil
	}

	prompt := "Remove " + email + " from " + activity + "?"
	return b.confirm.Confirm(prompt, func() tea.Cmd {
		return b.remove.Remove(activity, email)
	})
}

// Click dispatches the handlers registered for ctl, as a user activation
// would. Unbound controls do nothing.
func (b *Binder) Click(ctl *html.Node) tea.Cmd {
	hs := b.registry[ctl]
	if len(hs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(hs))
	for _, h := range hs {
		cmds = append(cmds, h(ctl))
	}
	return tea.Batch(cmds...)
}

// Handlers returns the number of handlers registered for ctl.
func (b *Binder) Handlers(ctl *html.Node) int {
	return len(b.registry[ctl])
}

// Len returns the number of registered controls.
func (b *Binder) Len() int {
	return len(b.registry)
}

// Prune forgets controls that are no longer attached under root, such as
// those of a roster block that was replaced. It returns how many were dropped.
func (b *Binder) Prune(root *html.Node) int {
	dropped := 0
	for ctl := range b.registry {
		if !dom.Contains(root, ctl) {
			delete(b.registry, ctl)
			dropped++
		}
	}
	return dropped
}
