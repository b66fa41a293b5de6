// Package render builds the document fragments for activity cards.
// Every function here is pure: it only allocates new nodes.
package render

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/zjrosen/rosterboard/internal/dom"
	"github.com/zjrosen/rosterboard/internal/identity"
	"github.com/zjrosen/rosterboard/internal/roster"
)

// Class names and attributes shared with the binder and painter.
const (
	ClassCard          = "activity-card"
	ClassAvailability  = "activity-availability"
	ClassSection       = "participants-section"
	ClassList          = "participants-list"
	ClassItem          = "participant-item"
	ClassAvatar        = "participant-avatar"
	ClassEmail         = "participant-email"
	ClassDelete        = "delete-participant"
	ClassNoParticipant = "no-participants"
	ClassLoadError     = "load-error"

	AttrActivity = "data-activity"
	AttrEmail    = "data-email"

	PlaceholderLabel = "-- Select an activity --"
	NoParticipants   = "No participants yet"
	LoadErrorText    = "Failed to load activities. Please try again later."
	deleteGlyph      = "✖"
)

// Renderer builds card fragments, labelling avatars with its Labeler.
type Renderer struct {
	labels identity.Labeler
}

// New returns a Renderer. A nil labeler falls back to identity.Initials.
func New(labels identity.Labeler) *Renderer {
	if labels == nil {
		labels = identity.LabelerFunc(identity.Initials)
	}
	return &Renderer{labels: labels}
}

// SpotsLeft is max_participants minus the roster length. It is negative
// when the server has over-allocated.
func SpotsLeft(rec roster.ActivityRecord) int {
	return rec.MaxParticipants - len(rec.Participants)
}

// AvailabilityContent returns the children of the availability line.
func AvailabilityContent(rec roster.ActivityRecord) []*html.Node {
	return []*html.Node{
		dom.El("strong", nil, dom.Text("Availability:")),
		dom.Text(" " + strconv.Itoa(SpotsLeft(rec)) + " spots left"),
	}
}

// Availability renders the availability line.
func Availability(rec roster.ActivityRecord) *html.Node {
	return dom.El("p", dom.Attrs("class", ClassAvailability), AvailabilityContent(rec)...)
}

// RosterSection renders the participants block for one activity.
func (r *Renderer) RosterSection(rec roster.ActivityRecord, activityName string) *html.Node {
	section := dom.El("div", dom.Attrs("class", ClassSection),
		dom.El("h5", nil, dom.Text("Participants")),
	)

	if len(rec.Participants) == 0 {
		dom.Append(section, dom.El("p", dom.Attrs("class", ClassNoParticipant), dom.Text(NoParticipants)))
		return section
	}

	list := dom.El("div", dom.Attrs("class", ClassList))
	for _, email := range rec.Participants {
		dom.Append(list, dom.El("div", dom.Attrs("class", ClassItem),
			dom.El("span", dom.Attrs("class", ClassAvatar, "aria-hidden", "true"), dom.Text(r.labels.Label(email))),
			dom.El("span", dom.Attrs("class", ClassEmail), dom.Text(email)),
			dom.El("span", dom.Attrs(
				"class", ClassDelete,
				"title", "Remove participant",
				AttrActivity, activityName,
				AttrEmail, email,
				"aria-label", "Delete participant",
			), dom.Text(deleteGlyph)),
		))
	}
	dom.Append(section, list)
	return section
}

// Card renders a full activity card tagged with its name.
func (r *Renderer) Card(activityName string, rec roster.ActivityRecord) *html.Node {
	return dom.El("div", dom.Attrs("class", ClassCard, AttrActivity, activityName),
		dom.El("h4", nil, dom.Text(activityName)),
		dom.El("p", nil, dom.Text(rec.Description)),
		dom.El("p", nil, dom.El("strong", nil, dom.Text("Schedule:")), dom.Text(" "+rec.Schedule)),
		Availability(rec),
		r.RosterSection(rec, activityName),
	)
}

// Option renders a select option for an activity.
func Option(activityName string) *html.Node {
	return dom.El("option", dom.Attrs("value", activityName), dom.Text(activityName))
}

// PlaceholderOption renders the leading "none selected" option.
func PlaceholderOption() *html.Node {
	return dom.El("option", dom.Attrs("value", ""), dom.Text(PlaceholderLabel))
}

// LoadError renders the placeholder shown when the list cannot be loaded.
func LoadError() *html.Node {
	return dom.El("p", dom.Attrs("class", ClassLoadError), dom.Text(LoadErrorText))
}
