package logview

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rosterboard/internal/log"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func opened(t *testing.T) Model {
	t.Helper()
	m := New()
	m.SetSize(100, 40)
	m.Append("2026-10-17T10:45:00 [DEBUG] [sync] transition to=requesting")
	m.Append("2026-10-17T10:45:01 [INFO] [api] request done\n")
	m.Append("2026-10-17T10:45:02 [WARN] [sync] reconcile fetch failed")
	m.Append("2026-10-17T10:45:03 [ERROR] [server] mutation failed")
	m.Toggle()
	return m
}

func TestNew(t *testing.T) {
	m := New()

	require.False(t, m.Visible())
	require.Empty(t, m.View())
	require.Equal(t, log.LevelDebug, m.minLevel)
}

func TestToggle(t *testing.T) {
	m := New()
	m.Toggle()
	require.True(t, m.Visible())
	m.Toggle()
	require.False(t, m.Visible())
}

func TestView_ShowsEntries(t *testing.T) {
	view := ansi.Strip(opened(t).View())

	require.Contains(t, view, "Logs")
	require.Contains(t, view, "transition to=requesting")
	require.Contains(t, view, "mutation failed")
	require.Contains(t, view, "[c] Clear")
}

func TestUpdate_LevelFilter(t *testing.T) {
	tests := []struct {
		key     string
		want    []string
		notWant []string
	}{
		{"d", []string{"[DEBUG]", "[ERROR]"}, nil},
		{"i", []string{"[INFO]", "[WARN]"}, []string{"[DEBUG]"}},
		{"w", []string{"[WARN]", "[ERROR]"}, []string{"[INFO]"}},
		{"e", []string{"[ERROR]"}, []string{"[WARN]"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _ := opened(t).Update(key(tt.key))
			view := ansi.Strip(m.View())
			for _, s := range tt.want {
				require.Contains(t, view, s)
			}
			for _, s := range tt.notWant {
				require.NotContains(t, view, s)
			}
		})
	}
}

func TestUpdate_Clear(t *testing.T) {
	m, _ := opened(t).Update(key("c"))

	require.Zero(t, m.Len())
	require.Contains(t, ansi.Strip(m.View()), "No logs to display")
}

func TestUpdate_Close(t *testing.T) {
	m, cmd := opened(t).Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.Nil(t, cmd)
	require.False(t, m.Visible())
	require.Empty(t, m.View())
}

func TestUpdate_IgnoredWhileHidden(t *testing.T) {
	m := New()
	m.Append("2026-10-17T10:45:00 [DEBUG] [ui] hello")

	m, _ = m.Update(key("c"))

	require.Equal(t, 1, m.Len())
}

func TestAppend_BoundedRing(t *testing.T) {
	m := New()
	for i := range Capacity + 10 {
		m.Append(fmt.Sprintf("[INFO] [ui] entry %d", i))
	}

	require.Equal(t, Capacity, m.Len())
	require.Equal(t, "[INFO] [ui] entry 10", m.entries[0])
}

func TestLevelOf_UntaggedAlwaysShown(t *testing.T) {
	require.Equal(t, log.LevelError, levelOf("panic: something"))
	require.Equal(t, log.LevelWarn, levelOf("x [WARN] y"))
}

func TestOverlay_HiddenReturnsBackground(t *testing.T) {
	require.Equal(t, "bg", New().Overlay("bg"))
}
