package app

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rosterboard/internal/dom"
	"github.com/zjrosen/rosterboard/internal/feedback"
	"github.com/zjrosen/rosterboard/internal/log"
	"github.com/zjrosen/rosterboard/internal/pubsub"
	"github.com/zjrosen/rosterboard/internal/rosterd"
	"github.com/zjrosen/rosterboard/internal/syncer"
	"github.com/zjrosen/rosterboard/internal/testutil"
	"github.com/zjrosen/rosterboard/internal/ui/signupform"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

// newTestApp serves the default activities from memory and points a fresh
// app at them.
func newTestApp(t *testing.T) (Model, *rosterd.MemoryStore) {
	t.Helper()
	store, client := testutil.NewBuilder(t).WithDefaultActivities().Serve()

	m := New(Config{Service: client, DismissAfter: time.Millisecond})
	t.Cleanup(func() { _ = m.Close() })

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return next.(Model), store
}

// run executes c, giving up on commands that wait on timers such as the
// cursor blink.
func run(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(300 * time.Millisecond):
		return nil
	}
}

// drive runs cmd and every command it leads to, feeding the messages back
// into m. Hide timers are dropped so feedback stays observable.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := run(c).(type) {
		case nil, feedback.HideMsg, cursor.BlinkMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, more := m.Update(msg)
			m = next.(Model)
			queue = append(queue, more)
		}
	}
	return m
}

func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+x":
		msg = tea.KeyMsg{Type: tea.KeyCtrlX}
	}
	next, cmd := m.Update(msg)
	return drive(t, next.(Model), cmd)
}

func loaded(t *testing.T) (Model, *rosterd.MemoryStore) {
	t.Helper()
	m, store := newTestApp(t)
	return drive(t, m, m.Controller().LoadAll()), store
}

func participants(t *testing.T, store rosterd.Store, activity string) []string {
	t.Helper()
	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	rec, ok := snap.Get(activity)
	require.True(t, ok)
	return rec.Participants
}

func TestApp_LoadRendersCards(t *testing.T) {
	m, _ := loaded(t)

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Chess Club")
	assert.Contains(t, view, "Programming Class")
	assert.Contains(t, view, "michael@mergington.edu")
	assert.Contains(t, view, "10 spots left")
	assert.Contains(t, view, "3 activities")

	_, ok := m.form.Select("Gym Class")
	assert.True(t, ok, "form offers the loaded activities")
}

func TestApp_SignupResetsForm(t *testing.T) {
	m, store := loaded(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	require.Equal(t, focusForm, m.focus)

	m = press(t, m, "amy@mergington.edu")
	m = press(t, m, "tab")
	m = press(t, m, "right")
	require.Equal(t, "Chess Club", m.form.Activity())
	m = press(t, m, "enter")

	assert.Contains(t, participants(t, store, "Chess Club"), "amy@mergington.edu")
	assert.Empty(t, m.form.Email())
	assert.Empty(t, m.form.Activity())

	msg := m.Controller().Feedback().Current()
	assert.Equal(t, "Signed up amy@mergington.edu for Chess Club", msg.Text)
	assert.Equal(t, feedback.KindSuccess, msg.Kind)
	assert.Contains(t, ansi.Strip(m.View()), "9 spots left")
}

func TestApp_InvalidSubmitSendsNothing(t *testing.T) {
	m, store := loaded(t)
	m = press(t, m, "tab")
	m = press(t, m, "tab")
	m = press(t, m, "tab")
	require.Equal(t, signupform.FieldSubmit, m.form.FocusedField())

	m = press(t, m, "enter")

	msg := m.Controller().Feedback().Current()
	assert.Equal(t, signupform.EmailRequired, msg.Text)
	assert.Equal(t, feedback.KindError, msg.Kind)
	assert.Len(t, participants(t, store, "Chess Club"), 2)
}

func TestApp_RemoveAfterConfirm(t *testing.T) {
	m, store := loaded(t)

	m = press(t, m, "x")
	require.True(t, m.confirming)
	assert.Equal(t, "Remove michael@mergington.edu from Chess Club?", m.confirm.Message())
	assert.Contains(t, ansi.Strip(m.View()), "Remove michael@mergington.edu", "prompt wraps inside the dialog")

	m = press(t, m, "y")

	assert.False(t, m.confirming)
	assert.Equal(t, []string{"daniel@mergington.edu"}, participants(t, store, "Chess Club"))
	assert.NotContains(t, dom.Render(m.Controller().Page().List), "michael@mergington.edu")
	assert.Zero(t, m.Controller().InFlight())
}

func TestApp_RemoveDeclined(t *testing.T) {
	m, store := loaded(t)

	m = press(t, m, "x")
	m = press(t, m, "n")

	assert.False(t, m.confirming)
	assert.Len(t, participants(t, store, "Chess Club"), 2)
}

func TestApp_CursorMovesAndClamps(t *testing.T) {
	m, store := loaded(t)

	m = press(t, m, "k")
	assert.Equal(t, 0, m.cursor)

	m = press(t, m, "j")
	m = press(t, m, "j")
	assert.Equal(t, 2, m.cursor)

	for range 10 {
		m = press(t, m, "j")
	}
	assert.Equal(t, 5, m.cursor, "six participants in the default seed")

	m = press(t, m, "x")
	m = press(t, m, "y")
	assert.Equal(t, []string{"john@mergington.edu"}, participants(t, store, "Gym Class"))
	assert.Equal(t, 4, m.cursor, "cursor follows the shrunken list")
}

func TestApp_CursorStaysOnParticipantAcrossReload(t *testing.T) {
	m, store := loaded(t)
	m = press(t, m, "j")
	m = press(t, m, "j")
	require.Equal(t, participant{"Programming Class", "emma@mergington.edu"}, m.focusedParticipant())

	require.NoError(t, store.Unregister(context.Background(), "Chess Club", "michael@mergington.edu"))
	m = press(t, m, "r")

	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, participant{"Programming Class", "emma@mergington.edu"}, m.focusedParticipant())
}

func TestApp_RefreshPicksUpServerChanges(t *testing.T) {
	m, store := loaded(t)
	require.NoError(t, store.Replace(context.Background(), rosterd.DefaultActivities()[:2]))

	m = press(t, m, "r")

	view := ansi.Strip(m.View())
	assert.NotContains(t, view, "Gym Class")
	_, ok := m.form.Select("Gym Class")
	assert.False(t, ok)
}

func TestApp_HelpToggle(t *testing.T) {
	m, _ := loaded(t)

	m = press(t, m, "?")
	require.True(t, m.showHelp)
	assert.Contains(t, ansi.Strip(m.View()), "Keyboard shortcuts")

	m = press(t, m, "x")
	assert.False(t, m.confirming, "keys other than close are swallowed by help")

	m = press(t, m, "esc")
	assert.False(t, m.showHelp)
}

func TestApp_FormEscReturnsToBoard(t *testing.T) {
	m, _ := loaded(t)
	m = press(t, m, "tab")
	m = press(t, m, "q")
	assert.Equal(t, "q", m.form.Email(), "q types while the form has focus")

	m = press(t, m, "esc")
	assert.Equal(t, focusBoard, m.focus)
	assert.False(t, m.form.Focused())
}

func TestApp_Quit(t *testing.T) {
	m, _ := loaded(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_TransitionShownInStatusLine(t *testing.T) {
	m, _ := newTestApp(t)

	next, cmd := m.Update(pubsub.Event[syncer.Transition]{
		Type: pubsub.StageEvent,
		Payload: syncer.Transition{
			Kind:     syncer.KindSignup,
			Activity: "Chess Club",
			From:     syncer.StageRequesting,
			To:       syncer.StageSucceeded,
		},
	})
	m = next.(Model)

	assert.NotNil(t, cmd, "keeps listening")
	assert.Contains(t, ansi.Strip(m.View()), "signup Chess Club: requesting → succeeded")
}

func TestApp_LogViewerInDebug(t *testing.T) {
	m, _ := newTestApp(t)
	m.debug = true

	next, _ := m.Update(log.LogEvent{Type: pubsub.LoggedEvent, Payload: "2026-10-17T10:45:00 [WARN] [sync] reconcile fetch failed"})
	m = next.(Model)
	m = press(t, m, "ctrl+x")
	require.True(t, m.logView.Visible())
	assert.Contains(t, ansi.Strip(m.View()), "reconcile fetch failed")

	// Board keys are swallowed while the viewer is open.
	m = press(t, m, "?")
	assert.False(t, m.showHelp)

	m = press(t, m, "esc")
	assert.False(t, m.logView.Visible())
}

func TestApp_LogViewerNeedsDebug(t *testing.T) {
	m, _ := newTestApp(t)
	m = press(t, m, "ctrl+x")
	assert.False(t, m.logView.Visible())
}

func TestApp_ClickOutsideControlsIsIgnored(t *testing.T) {
	m, _ := loaded(t)
	_ = m.View()

	next, cmd := m.Update(tea.MouseMsg{X: 10_000, Y: 10_000, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.confirming)
}

func TestApp_LoadFailureShowsPlaceholder(t *testing.T) {
	m := New(Config{Service: testutil.Unreachable(t)})
	defer func() { _ = m.Close() }()

	m = drive(t, m, m.Controller().LoadAll())

	assert.Contains(t, ansi.Strip(m.View()), "Failed to load activities")
	assert.Nil(t, m.focusedControl())
}

func TestApp_Program(t *testing.T) {
	m, store := newTestApp(t)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 60))
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("michael@mergington.edu"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	assert.Len(t, final.Controller().Page().Cards(), 3)
	assert.Len(t, participants(t, store, "Chess Club"), 2)
}
