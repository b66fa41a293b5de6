// Package signupform is the email + activity form of the signup section.
package signupform

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/rosterboard/internal/dom"
	"github.com/zjrosen/rosterboard/internal/ui/styles"
)

// Validation messages reported instead of sending a request.
const (
	EmailRequired    = "Please enter your email address."
	EmailInvalid     = "Please enter a valid email address."
	ActivityRequired = "Please select an activity."
)

// SubmitMsg carries a valid submission.
type SubmitMsg struct {
	Email    string
	Activity string
}

// InvalidMsg is emitted instead of SubmitMsg when the form is incomplete.
type InvalidMsg struct {
	Reason string
}

// Field identifies the focused part of the form.
type Field int

const (
	FieldEmail Field = iota
	FieldActivity
	FieldSubmit
	fieldCount
)

// Model is the form state.
type Model struct {
	email    textinput.Model
	options  []dom.Option
	selected int
	focused  Field
	focus    bool
}

// New creates an empty form with only the placeholder option.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "your-email@mergington.edu"
	ti.Prompt = ""
	ti.CharLimit = 254
	ti.Width = 32
	return Model{email: ti}
}

// Focus gives the form keyboard focus, starting at the email field.
func (m Model) Focus() (Model, tea.Cmd) {
	m.focus = true
	m.focused = FieldEmail
	return m, m.email.Focus()
}

// Blur removes keyboard focus.
func (m Model) Blur() Model {
	m.focus = false
	m.email.Blur()
	return m
}

// Focused reports whether the form has keyboard focus.
func (m Model) Focused() bool { return m.focus }

// FocusedField returns the focused field.
func (m Model) FocusedField() Field { return m.focused }

// SetOptions replaces the activity choices, keeping the current choice when
// it is still offered.
func (m Model) SetOptions(opts []dom.Option) Model {
	current := m.Activity()
	m.options = append([]dom.Option(nil), opts...)
	m.selected = 0
	for i, o := range m.options {
		if current != "" && o.Value == current {
			m.selected = i
		}
	}
	return m
}

// Email returns the trimmed email value.
func (m Model) Email() string {
	return strings.TrimSpace(m.email.Value())
}

// Activity returns the chosen activity, "" for the placeholder.
func (m Model) Activity() string {
	if m.selected < 0 || m.selected >= len(m.options) {
		return ""
	}
	return m.options[m.selected].Value
}

// SetEmail sets the email field.
func (m Model) SetEmail(s string) Model {
	m.email.SetValue(s)
	return m
}

// Select chooses the option whose value is activity. It reports false
// when no such option exists.
func (m Model) Select(activity string) (Model, bool) {
	for i, o := range m.options {
		if o.Value == activity {
			m.selected = i
			return m, true
		}
	}
	return m, false
}

// Reset clears the email and returns the selector to the placeholder.
func (m Model) Reset() Model {
	m.email.Reset()
	m.selected = 0
	return m
}

// Submit validates the form and returns the resulting message command.
func (m Model) Submit() tea.Cmd {
	email, activity := m.Email(), m.Activity()
	var reason string
	switch {
	case email == "":
		reason = EmailRequired
	case !validEmail(email):
		reason = EmailInvalid
	case activity == "":
		reason = ActivityRequired
	default:
		return func() tea.Msg { return SubmitMsg{Email: email, Activity: activity} }
	}
	return func() tea.Msg { return InvalidMsg{Reason: reason} }
}

// validEmail accepts local@domain with both parts present.
func validEmail(s string) bool {
	local, domain, ok := strings.Cut(s, "@")
	return ok && local != "" && domain != "" && !strings.ContainsAny(s, " \t")
}

// Update handles keys while the form is focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focus {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return m.move(1), nil
		case "shift+tab", "up":
			return m.move(-1), nil
		case "enter":
			if m.focused == FieldSubmit || m.focused == FieldActivity {
				return m, m.Submit()
			}
			return m.move(1), nil
		case "left", "right":
			if m.focused == FieldActivity && len(m.options) > 0 {
				step := 1
				if key.String() == "left" {
					step = -1
				}
				m.selected = (m.selected + step + len(m.options)) % len(m.options)
				return m, nil
			}
		}
	}

	if m.focused == FieldEmail {
		var cmd tea.Cmd
		m.email, cmd = m.email.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) move(step int) Model {
	m.focused = Field((int(m.focused) + step + int(fieldCount)) % int(fieldCount))
	if m.focused == FieldEmail {
		m.email.Focus()
	} else {
		m.email.Blur()
	}
	return m
}

// View renders the form.
func (m Model) View(width int) string {
	fieldWidth := max(width-4, 20)

	box := func(f Field) lipgloss.Style {
		if m.focus && m.focused == f {
			return styles.FieldFocusStyle.Width(fieldWidth)
		}
		return styles.FieldStyle.Width(fieldWidth)
	}

	emailBox := box(FieldEmail).Render(m.email.View())

	choice := "(no activities)"
	if len(m.options) > 0 {
		choice = "◂ " + m.options[m.selected].Label + " ▸"
	}
	activityBox := box(FieldActivity).Render(choice)

	button := styles.SecondaryButtonStyle
	if m.focus && m.focused == FieldSubmit {
		button = styles.SecondaryButtonFocusedStyle
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.MutedStyle.Render("Student Email"),
		emailBox,
		styles.MutedStyle.Render("Activity"),
		activityBox,
		button.Render("Sign Up"),
	)
}
