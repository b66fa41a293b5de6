// Package toaster paints the message region as a toast at the bottom of
// the screen.
package toaster

import (
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"

	"github.com/zjrosen/rosterboard/internal/dom"
	"github.com/zjrosen/rosterboard/internal/feedback"
	"github.com/zjrosen/rosterboard/internal/ui/overlay"
	"github.com/zjrosen/rosterboard/internal/ui/styles"
)

// Visible reports whether the region is currently shown.
func Visible(region *html.Node) bool {
	return region != nil && !dom.HasClass(region, dom.ClassHidden) && dom.TextContent(region) != ""
}

// View renders the toast box for region, or "" when it is hidden.
func View(region *html.Node) string {
	if !Visible(region) {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	text := dom.TextContent(region)
	if dom.HasClass(region, feedback.KindError.Class()) {
		return style.BorderForeground(styles.StatusErrorColor).Render("❌ " + text)
	}
	return style.BorderForeground(styles.StatusSuccessColor).Render("✅ " + text)
}

// Overlay renders the toast on top of bg, one line above the bottom edge.
func Overlay(region *html.Node, bg string, width, height int) string {
	if !Visible(region) {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}, View(region), bg)
}
