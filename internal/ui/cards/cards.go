// Package cards paints the activity list of a page for the terminal.
// It only reads the document; every change goes through the sync
// controller.
package cards

import (
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"

	"github.com/zjrosen/rosterboard/internal/binder"
	"github.com/zjrosen/rosterboard/internal/dom"
	"github.com/zjrosen/rosterboard/internal/render"
	"github.com/zjrosen/rosterboard/internal/ui/styles"
)

const (
	zonePrefix = "delete-"
	minWidth   = 24
	cursorMark = "▸ "
)

// Options controls painting.
type Options struct {
	Width            int
	ShowDescriptions bool
	// Cursor is the focused delete control, or nil.
	Cursor *html.Node
}

// ZoneID names the clickable zone of the delete control for one
// participant. It survives patches and reloads that move the control.
func ZoneID(activity, email string) string {
	return zonePrefix + url.PathEscape(activity) + "/" + url.PathEscape(email)
}

// controlZone returns the zone id of a delete control, or "" when the
// control is missing its data attributes.
func controlZone(ctl *html.Node) string {
	activity, ok := dom.Attr(ctl, render.AttrActivity)
	if !ok {
		return ""
	}
	email, ok := dom.Attr(ctl, render.AttrEmail)
	if !ok {
		return ""
	}
	return ZoneID(activity, email)
}

// Paint renders the list container.
func Paint(list *html.Node, opts Options) string {
	width := max(opts.Width, minWidth)

	var blocks []string
	for _, n := range dom.Children(list) {
		if n.Type != html.ElementNode {
			continue
		}
		if _, ok := dom.Attr(n, render.AttrActivity); ok {
			blocks = append(blocks, paintCard(n, width, opts))
			continue
		}
		text := wordwrap.String(dom.TextContent(n), width)
		if dom.HasClass(n, render.ClassLoadError) {
			blocks = append(blocks, styles.ErrorStyle.Render(text))
		} else {
			blocks = append(blocks, styles.MutedStyle.Render(text))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func paintCard(card *html.Node, width int, opts Options) string {
	inner := width - 4 // border and padding
	var lines []string

	for _, n := range dom.Children(card) {
		if n.Type != html.ElementNode {
			continue
		}
		switch {
		case n.Data == "h4":
			lines = append(lines, styles.CardTitleStyle.Render(truncate(dom.TextContent(n), inner)))
		case dom.HasClass(n, render.ClassAvailability):
			lines = append(lines, dom.TextContent(n))
		case dom.HasClass(n, render.ClassSection):
			lines = append(lines, paintSection(n, inner, opts.Cursor)...)
		case n.Data == "p":
			if !opts.ShowDescriptions {
				continue
			}
			text := dom.TextContent(n)
			if text == "" {
				continue
			}
			lines = append(lines, styles.DescriptionStyle.Render(wordwrap.String(text, inner)))
		}
	}

	style := styles.CardStyle
	if opts.Cursor != nil && dom.Contains(card, opts.Cursor) {
		style = styles.CardFocusedStyle
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func paintSection(section *html.Node, width int, cursor *html.Node) []string {
	var lines []string
	if h := dom.First(section, func(n *html.Node) bool { return n.Data == "h5" }); h != nil {
		lines = append(lines, styles.MutedStyle.Render(dom.TextContent(h)))
	}
	if empty := dom.First(section, dom.ByClass(render.ClassNoParticipant)); empty != nil {
		return append(lines, styles.MutedStyle.Italic(true).Render(dom.TextContent(empty)))
	}

	for _, item := range dom.Find(section, dom.ByClass(render.ClassItem)) {
		lines = append(lines, paintItem(item, width, cursor))
	}
	return lines
}

// paintItem renders "AB email ✖", truncating the email to fit.
func paintItem(item *html.Node, width int, cursor *html.Node) string {
	avatar := dom.TextContent(dom.First(item, dom.ByClass(render.ClassAvatar)))
	email := dom.TextContent(dom.First(item, dom.ByClass(render.ClassEmail)))
	ctl := dom.First(item, dom.ByClass(render.ClassDelete))

	prefix := "  "
	if ctl != nil && ctl == cursor {
		prefix = cursorMark
	}

	label := styles.AvatarStyle.Render(runewidth.FillRight(avatar, 2))
	room := width - runewidth.StringWidth(prefix) - 2 - 1 - 2 // avatar, gaps, glyph
	line := prefix + label + " " + truncate(email, room)

	if ctl == nil {
		return line
	}
	glyph := styles.DeleteStyle.Render(dom.TextContent(ctl))
	if ctl == cursor {
		glyph = styles.DeleteFocusStyle.Render(dom.TextContent(ctl))
	}
	if id := controlZone(ctl); id != "" {
		glyph = zone.Mark(id, glyph)
	}
	return line + " " + glyph
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Hit returns the delete control under a mouse event, or nil. Zones are
// only known after the painted output has passed through zone.Scan. A
// zone whose participant is no longer in list resolves to nothing.
func Hit(list *html.Node, msg tea.MouseMsg) *html.Node {
	for _, ctl := range binder.Controls(list) {
		id := controlZone(ctl)
		if id == "" {
			continue
		}
		if z := zone.Get(id); z != nil && z.InBounds(msg) {
			return ctl
		}
	}
	return nil
}
