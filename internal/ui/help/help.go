// Package help contains the help overlay component.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/rosterboard/internal/keys"
	"github.com/zjrosen/rosterboard/internal/ui/overlay"
	"github.com/zjrosen/rosterboard/internal/ui/styles"
)

var sectionTitles = []string{"Navigation", "Actions", "General", "Sign up form"}

// Model holds the help view state.
type Model struct {
	width  int
	height int
}

// New creates a help view.
func New() Model {
	return Model{}
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help box on its own.
func (m Model) View() string {
	return renderContent()
}

// Overlay renders the help box on top of a background view.
func (m Model) Overlay(background string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, renderContent(), background)
}

func renderContent() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor)
	sectionStyle := titleStyle.MarginTop(1)
	footerStyle := styles.MutedStyle.MarginTop(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keyboard shortcuts"))
	b.WriteString("\n")
	for i, group := range keys.Board.FullHelp() {
		b.WriteString(sectionStyle.Render(sectionTitles[i]))
		b.WriteString("\n")
		for _, binding := range group {
			b.WriteString(renderBinding(binding))
		}
	}
	b.WriteString(footerStyle.Render("Press ? or esc to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(0, 2).
		Render(b.String())
}

func renderBinding(b key.Binding) string {
	keyStyle := lipgloss.NewStyle().Foreground(styles.HighlightColor).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextDescriptionColor)
	return keyStyle.Render(b.Help().Key) + descStyle.Render(b.Help().Desc) + "\n"
}
