package signupform

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rosterboard/internal/dom"
	"github.com/zjrosen/rosterboard/internal/render"
)

var options = []dom.Option{
	{Value: "", Label: render.PlaceholderLabel},
	{Value: "Chess Club", Label: "Chess Club"},
	{Value: "Gym Class", Label: "Gym Class"},
}

func focused(t *testing.T) Model {
	t.Helper()
	m, _ := New().SetOptions(options).Focus()
	return m
}

func keys(m Model, ks ...tea.KeyMsg) Model {
	for _, k := range ks {
		m, _ = m.Update(k)
	}
	return m
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	right = tea.KeyMsg{Type: tea.KeyRight}
	left  = tea.KeyMsg{Type: tea.KeyLeft}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		activity string
		want     tea.Msg
	}{
		{"empty email", "", "Chess Club", InvalidMsg{Reason: EmailRequired}},
		{"blank email", "   ", "Chess Club", InvalidMsg{Reason: EmailRequired}},
		{"no at", "amy", "Chess Club", InvalidMsg{Reason: EmailInvalid}},
		{"no domain", "amy@", "Chess Club", InvalidMsg{Reason: EmailInvalid}},
		{"placeholder", "amy@x.com", "", InvalidMsg{Reason: ActivityRequired}},
		{"valid", " amy@x.com ", "Gym Class", SubmitMsg{Email: "amy@x.com", Activity: "Gym Class"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New().SetOptions(options).SetEmail(tt.email)
			if tt.activity != "" {
				var ok bool
				m, ok = m.Select(tt.activity)
				require.True(t, ok)
			}
			assert.Equal(t, tt.want, m.Submit()())
		})
	}
}

func TestUpdate_TypeSelectSubmit(t *testing.T) {
	m := focused(t)
	m = keys(m, typed("amy@x.com"), tab, right, right)
	assert.Equal(t, "amy@x.com", m.Email())
	assert.Equal(t, "Gym Class", m.Activity())

	m = keys(m, left)
	assert.Equal(t, "Chess Club", m.Activity())

	m = keys(m, tab)
	assert.Equal(t, FieldSubmit, m.FocusedField())
	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)
	assert.Equal(t, SubmitMsg{Email: "amy@x.com", Activity: "Chess Club"}, cmd())
}

func TestUpdate_SelectorWraps(t *testing.T) {
	m := keys(focused(t), tab, left)
	assert.Equal(t, "Gym Class", m.Activity())
}

func TestUpdate_IgnoredWhenBlurred(t *testing.T) {
	m := New().SetOptions(options)
	m = keys(m, typed("x"))
	assert.Empty(t, m.Email())
}

func TestSetOptions_KeepsChoice(t *testing.T) {
	m, _ := New().SetOptions(options).Select("Gym Class")

	m = m.SetOptions([]dom.Option{options[0], options[2]})
	assert.Equal(t, "Gym Class", m.Activity())

	m = m.SetOptions(options[:2])
	assert.Equal(t, "", m.Activity(), "vanished activity falls back to the placeholder")
}

func TestReset(t *testing.T) {
	m, _ := New().SetOptions(options).SetEmail("amy@x.com").Select("Chess Club")

	m = m.Reset()

	assert.Empty(t, m.Email())
	assert.Empty(t, m.Activity())
}

func TestView(t *testing.T) {
	m, _ := New().SetOptions(options).Select("Chess Club")

	view := ansi.Strip(m.View(40))

	assert.Contains(t, view, "Student Email")
	assert.Contains(t, view, "◂ Chess Club ▸")
	assert.Contains(t, view, "Sign Up")
}
