// Package feedback owns the transient message region shown after a
// mutation completes.
package feedback

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/net/html"

	"github.com/zjrosen/rosterboard/internal/dom"
)

// DefaultDismissAfter is how long a message stays visible.
const DefaultDismissAfter = 5000 * time.Millisecond

// Kind selects the message styling.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

// Class is the class name the region carries for k.
func (k Kind) Class() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

// HideMsg is delivered when a message's display time is up.
type HideMsg struct {
	seq uint64
}

// Message is the current state of the region.
type Message struct {
	Text    string
	Kind    Kind
	Visible bool
}

// Channel drives one message region node. Only the most recently scheduled
// hide takes effect; earlier ones are ignored when they fire.
type Channel struct {
	region  *html.Node
	after   time.Duration
	pending uint64
	current Message
}

// New creates a channel writing to region. A non-positive after uses
// DefaultDismissAfter.
func New(region *html.Node, after time.Duration) *Channel {
	if after <= 0 {
		after = DefaultDismissAfter
	}
	return &Channel{region: region, after: after}
}

// Report shows text with kind and returns the command that hides it later.
// It never blocks.
func (c *Channel) Report(text string, kind Kind) tea.Cmd {
	c.current = Message{Text: text, Kind: kind, Visible: true}
	dom.SetChildren(c.region, dom.Text(text))
	dom.SetClass(c.region, kind.Class())

	c.pending++
	seq := c.pending
	return tea.Tick(c.after, func(time.Time) tea.Msg {
		return HideMsg{seq: seq}
	})
}

// Update applies a HideMsg. It reports whether the region changed.
func (c *Channel) Update(msg HideMsg) bool {
	if msg.seq != c.pending || !c.current.Visible {
		return false
	}
	c.hide()
	return true
}

// Clear hides the message immediately and cancels the pending hide.
func (c *Channel) Clear() {
	c.pending++
	c.hide()
}

func (c *Channel) hide() {
	c.current.Visible = false
	dom.AddClass(c.region, dom.ClassHidden)
}

// Current returns the message state.
func (c *Channel) Current() Message {
	return c.current
}
