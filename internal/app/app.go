// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"

	"github.com/zjrosen/rosterboard/internal/binder"
	"github.com/zjrosen/rosterboard/internal/dom"
	"github.com/zjrosen/rosterboard/internal/feedback"
	"github.com/zjrosen/rosterboard/internal/identity"
	"github.com/zjrosen/rosterboard/internal/keys"
	"github.com/zjrosen/rosterboard/internal/log"
	"github.com/zjrosen/rosterboard/internal/pubsub"
	"github.com/zjrosen/rosterboard/internal/render"
	"github.com/zjrosen/rosterboard/internal/roster"
	"github.com/zjrosen/rosterboard/internal/syncer"
	"github.com/zjrosen/rosterboard/internal/ui/cards"
	"github.com/zjrosen/rosterboard/internal/ui/help"
	"github.com/zjrosen/rosterboard/internal/ui/logview"
	"github.com/zjrosen/rosterboard/internal/ui/modal"
	"github.com/zjrosen/rosterboard/internal/ui/signupform"
	"github.com/zjrosen/rosterboard/internal/ui/styles"
	"github.com/zjrosen/rosterboard/internal/ui/toaster"
)

const (
	defaultWidth = 80
	formWidth    = 40
	title        = "Mergington High School"
	subtitle     = "Extracurricular Activities"
)

type focusArea int

const (
	focusBoard focusArea = iota
	focusForm
)

// Config wires the application.
type Config struct {
	Service          roster.Service
	Labeler          identity.Labeler
	Tracer           trace.Tracer
	DismissAfter     time.Duration
	ShowDescriptions bool
	// Debug shows the latest log entry in the status line.
	Debug bool
}

// Model is the root application state.
type Model struct {
	ctrl *syncer.Controller
	form signupform.Model
	help help.Model

	// Pending removal confirmation
	confirm    modal.Model
	confirming bool
	proceed    func() tea.Cmd

	focus            focusArea
	cursor           int
	showHelp         bool
	showDescriptions bool

	width  int
	height int

	cancel         context.CancelFunc
	stages         *pubsub.ContinuousListener[syncer.Transition]
	lastTransition string

	debug   bool
	logs    *log.LogListener
	logView logview.Model
	lastLog string
}

// New creates the application model.
func New(cfg Config) Model {
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := syncer.New(syncer.Config{
		Service:      cfg.Service,
		Labeler:      cfg.Labeler,
		Tracer:       cfg.Tracer,
		DismissAfter: cfg.DismissAfter,
	})

	m := Model{
		ctrl:             ctrl,
		form:             signupform.New().SetOptions(ctrl.Page().Options()),
		help:             help.New(),
		logView:          logview.New(),
		showDescriptions: cfg.ShowDescriptions,
		cancel:           cancel,
		stages:           pubsub.NewContinuousListener(ctx, ctrl.Events()),
		debug:            cfg.Debug,
	}
	if cfg.Debug {
		m.logs = log.NewListener(ctx)
	}
	return m
}

// Controller returns the sync controller driving the page.
func (m Model) Controller() *syncer.Controller { return m.ctrl }

// Init loads the activities and starts the event listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.ctrl.LoadAll(), m.stages.Listen()}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help = m.help.SetSize(msg.Width, msg.Height)
		m.confirm.SetSize(msg.Width, msg.Height)
		m.logView.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case log.LogEvent:
		m.lastLog = msg.Payload
		m.logView.Append(msg.Payload)
		if m.logs == nil {
			return m, nil
		}
		return m, m.logs.Listen()

	case pubsub.Event[syncer.Transition]:
		t := msg.Payload
		m.lastTransition = fmt.Sprintf("%s %s: %s → %s", t.Kind, t.Activity, t.From, t.To)
		return m, m.stages.Listen()

	case binder.ConfirmRequestMsg:
		m.confirm = modal.New(modal.Config{
			Title:        "Remove participant",
			Message:      msg.Prompt,
			ConfirmLabel: "Remove",
		})
		m.confirm.SetSize(m.width, m.height)
		m.confirming = true
		m.proceed = msg.Proceed
		return m, nil

	case modal.SubmitMsg:
		proceed := m.proceed
		m.confirming, m.proceed = false, nil
		if proceed == nil {
			return m, nil
		}
		return m, proceed()

	case modal.CancelMsg:
		m.confirming, m.proceed = false, nil
		log.Debug(log.CatUI, "Removal declined")
		return m, nil

	case signupform.SubmitMsg:
		return m, m.ctrl.Signup(msg.Activity, msg.Email)

	case signupform.InvalidMsg:
		return m, m.ctrl.Report(msg.Reason, feedback.KindError)
	}

	focused := m.focusedParticipant()
	if cmd, handled := m.ctrl.Update(msg); handled {
		return m.afterSync(msg, focused), cmd
	}

	// Cursor blinks and the like belong to the form.
	if m.focus == focusForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

// afterSync mirrors document changes into the terminal-only state. The
// cursor stays on the participant it was on when they are still listed.
func (m Model) afterSync(msg tea.Msg, focused participant) Model {
	switch msg := msg.(type) {
	case syncer.LoadedMsg, syncer.ReconciledMsg:
		m.form = m.form.SetOptions(m.ctrl.Page().Options())
		if i := m.indexOf(focused); i >= 0 {
			m.cursor = i
		} else {
			m.cursor = m.clampCursor(m.cursor)
		}
	case syncer.MutationDoneMsg:
		if msg.Err == nil && msg.Action.Kind == syncer.KindSignup {
			m.form = m.form.Reset()
		}
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.debug && key.Matches(msg, keys.Board.Logs) {
		m.logView.Toggle()
		return m, nil
	}
	if m.logView.Visible() {
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}

	if m.confirming {
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd
	}

	if m.showHelp {
		switch {
		case key.Matches(msg, keys.Board.Help, keys.Board.Escape):
			m.showHelp = false
		case key.Matches(msg, keys.Board.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	if m.focus == focusForm {
		switch {
		case key.Matches(msg, keys.Form.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Form.Leave):
			m.form = m.form.Blur()
			m.focus = focusBoard
			return m, nil
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Board.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Board.Help):
		m.showHelp = true
	case key.Matches(msg, keys.Board.Up):
		m.cursor = m.clampCursor(m.cursor - 1)
	case key.Matches(msg, keys.Board.Down):
		m.cursor = m.clampCursor(m.cursor + 1)
	case key.Matches(msg, keys.Board.Delete):
		if ctl := m.focusedControl(); ctl != nil {
			return m, m.ctrl.Click(ctl)
		}
	case key.Matches(msg, keys.Board.Refresh):
		log.Debug(log.CatUI, "Manual refresh")
		return m, m.ctrl.LoadAll()
	case key.Matches(msg, keys.Board.Form):
		m.focus = focusForm
		var cmd tea.Cmd
		m.form, cmd = m.form.Focus()
		return m, cmd
	case key.Matches(msg, keys.Board.Escape):
		m.ctrl.Feedback().Clear()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.confirming || m.showHelp || m.logView.Visible() {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	ctl := cards.Hit(m.ctrl.Page().List, msg)
	if ctl == nil {
		return m, nil
	}
	for i, c := range binder.Controls(m.ctrl.Page().List) {
		if c == ctl {
			m.cursor = i
		}
	}
	if m.focus == focusForm {
		m.form = m.form.Blur()
		m.focus = focusBoard
	}
	return m, m.ctrl.Click(ctl)
}

func (m Model) clampCursor(i int) int {
	n := len(binder.Controls(m.ctrl.Page().List))
	return max(min(i, n-1), 0)
}

// participant identifies a delete control across re-renders.
type participant struct {
	activity, email string
}

func participantOf(ctl *html.Node) participant {
	activity, _ := dom.Attr(ctl, render.AttrActivity)
	email, _ := dom.Attr(ctl, render.AttrEmail)
	return participant{activity: activity, email: email}
}

// focusedParticipant returns who the cursor is on, or the zero value.
func (m Model) focusedParticipant() participant {
	if ctl := m.focusedControl(); ctl != nil {
		return participantOf(ctl)
	}
	return participant{}
}

// indexOf returns the position of p's delete control, or -1.
func (m Model) indexOf(p participant) int {
	if p == (participant{}) {
		return -1
	}
	for i, ctl := range binder.Controls(m.ctrl.Page().List) {
		if participantOf(ctl) == p {
			return i
		}
	}
	return -1
}

// focusedControl returns the delete control under the cursor, or nil when
// the list has none.
func (m Model) focusedControl() *html.Node {
	controls := binder.Controls(m.ctrl.Page().List)
	if m.cursor < 0 || m.cursor >= len(controls) {
		return nil
	}
	return controls[m.cursor]
}

// View implements tea.Model.
func (m Model) View() string {
	width := m.width
	if width == 0 {
		width = defaultWidth
	}

	listWidth := width
	stacked := width < 2*formWidth
	if !stacked {
		listWidth = width - formWidth - 2
	}

	var cursor *html.Node
	if m.focus == focusBoard {
		cursor = m.focusedControl()
	}
	list := lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render("Available Activities"),
		cards.Paint(m.ctrl.Page().List, cards.Options{
			Width:            listWidth,
			ShowDescriptions: m.showDescriptions,
			Cursor:           cursor,
		}),
	)
	form := lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render("Sign Up for an Activity"),
		m.form.View(formWidth),
	)

	var body string
	if stacked {
		body = lipgloss.JoinVertical(lipgloss.Left, list, "", form)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", form)
	}

	header := styles.CardTitleStyle.Render(title) + styles.MutedStyle.Render(" · "+subtitle)
	view := lipgloss.JoinVertical(lipgloss.Left, header, "", body)
	view = clip(view, m.height-1) + "\n" + m.statusLine(width)

	view = toaster.Overlay(m.ctrl.Page().Message, view, width, m.height)
	if m.showHelp {
		view = m.help.Overlay(view)
	}
	if m.confirming {
		view = m.confirm.Overlay(view)
	}
	view = m.logView.Overlay(view)
	return zone.Scan(view)
}

func (m Model) statusLine(width int) string {
	parts := []string{
		fmt.Sprintf("%d activities", len(m.ctrl.Page().Cards())),
		fmt.Sprintf("%d in flight", m.ctrl.InFlight()),
	}
	if m.lastTransition != "" {
		parts = append(parts, m.lastTransition)
	}
	if m.debug && m.lastLog != "" {
		parts = append(parts, m.lastLog)
	}
	line := strings.Join(parts, " · ")
	return styles.StatusBarStyle.Render(ansi.Truncate(line, max(width-2, 0), "…"))
}

// clip keeps the first height lines of s. A non-positive height keeps all.
func clip(s string, height int) string {
	if height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= height {
		return s
	}
	return strings.Join(lines[:height], "\n")
}

// Close releases the event subscriptions.
func (m *Model) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	m.ctrl.Events().Close()
	return nil
}
