package cards

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/zjrosen/rosterboard/internal/binder"
	"github.com/zjrosen/rosterboard/internal/dom"
	"github.com/zjrosen/rosterboard/internal/render"
	"github.com/zjrosen/rosterboard/internal/roster"
)

// TestMain initializes the global zone manager for all tests in this package.
func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func page() *dom.Page {
	p := dom.NewPage()
	r := render.New(nil)
	dom.SetChildren(p.List,
		r.Card("Chess Club", roster.ActivityRecord{
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu", "mary.jones@mergington.edu"},
		}),
		r.Card("Gym Class", roster.ActivityRecord{MaxParticipants: 1}),
	)
	return p
}

func paint(p *dom.Page, opts Options) string {
	return ansi.Strip(zone.Scan(Paint(p.List, opts)))
}

func TestPaint_Cards(t *testing.T) {
	out := paint(page(), Options{Width: 60, ShowDescriptions: true})

	assert.Contains(t, out, "Chess Club")
	assert.Contains(t, out, "Learn strategies and compete in chess tournaments")
	assert.Contains(t, out, "Schedule: Fridays, 3:30 PM - 5:00 PM")
	assert.Contains(t, out, "Availability: 9 spots left")
	assert.Contains(t, out, "M  michael@mergington.edu ✖")
	assert.Contains(t, out, "D  daniel@mergington.edu ✖")
	assert.Contains(t, out, "MJ mary.jones@mergington.edu ✖")
	assert.Contains(t, out, "Gym Class")
	assert.Contains(t, out, render.NoParticipants)
	assert.Less(t, strings.Index(out, "Chess Club"), strings.Index(out, "Gym Class"))
}

func TestPaint_HidesDescriptions(t *testing.T) {
	out := paint(page(), Options{Width: 60})

	assert.NotContains(t, out, "Learn strategies")
	assert.NotContains(t, out, "Schedule:")
	assert.Contains(t, out, "Availability: 9 spots left")
}

func TestPaint_CursorMarksControl(t *testing.T) {
	p := page()
	ctl := binder.Controls(p.List)[1]

	out := paint(p, Options{Width: 60, Cursor: ctl})

	assert.Contains(t, out, cursorMark+"D  daniel@mergington.edu")
	assert.NotContains(t, out, cursorMark+"M  michael")
}

func TestPaint_TruncatesLongEmails(t *testing.T) {
	p := dom.NewPage()
	long := strings.Repeat("x", 80) + "@mergington.edu"
	dom.SetChildren(p.List, render.New(nil).Card("Art", roster.ActivityRecord{MaxParticipants: 2, Participants: []string{long}}))

	out := paint(p, Options{Width: 40})

	assert.Contains(t, out, "…")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 40, line)
	}
}

func TestPaint_Placeholders(t *testing.T) {
	p := dom.NewPage()
	assert.Contains(t, paint(p, Options{Width: 40}), dom.LoadingLabel)

	dom.SetChildren(p.List, render.LoadError())
	assert.Contains(t, paint(p, Options{Width: 80}), render.LoadErrorText)
}

func TestZoneID(t *testing.T) {
	assert.Equal(t, "delete-Chess%20Club/amy@mergington.edu", ZoneID("Chess Club", "amy@mergington.edu"))
	assert.NotEqual(t, ZoneID("a/b", "c"), ZoneID("a", "b/c"), "separator is escaped")
}

func TestHit_NoZones(t *testing.T) {
	p := page()
	require.Len(t, binder.Controls(p.List), 3)
	assert.Nil(t, Hit(p.List, zoneMiss()))
}

// pressOn waits until a press inside the participant's zone resolves to
// their control, then returns that press. Zones are stored in the
// background after zone.Scan.
func pressOn(t *testing.T, list *html.Node, activity, email string) tea.MouseMsg {
	t.Helper()
	var press tea.MouseMsg
	require.Eventually(t, func() bool {
		z := zone.Get(ZoneID(activity, email))
		if z.IsZero() {
			return false
		}
		press = tea.MouseMsg{X: z.StartX, Y: z.StartY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
		ctl := Hit(list, press)
		if ctl == nil {
			return false
		}
		got, _ := dom.Attr(ctl, render.AttrEmail)
		return got == email
	}, time.Second, 5*time.Millisecond)
	return press
}

func TestHit_FollowsParticipantAcrossPatch(t *testing.T) {
	p := page()
	_ = paint(p, Options{Width: 60})
	press := pressOn(t, p.List, "Chess Club", "daniel@mergington.edu")

	// michael leaves before the next paint, shifting every later control.
	dom.SetChildren(p.List,
		render.New(nil).Card("Chess Club", roster.ActivityRecord{
			MaxParticipants: 12,
			Participants:    []string{"daniel@mergington.edu", "mary.jones@mergington.edu"},
		}),
	)

	hit := Hit(p.List, press)
	require.NotNil(t, hit)
	email, _ := dom.Attr(hit, render.AttrEmail)
	assert.Equal(t, "daniel@mergington.edu", email)
}

func TestHit_RemovedParticipantResolvesToNothing(t *testing.T) {
	p := page()
	_ = paint(p, Options{Width: 60})
	press := pressOn(t, p.List, "Chess Club", "michael@mergington.edu")

	dom.SetChildren(p.List, render.New(nil).Card("Chess Club", roster.ActivityRecord{MaxParticipants: 12}))

	assert.Nil(t, Hit(p.List, press))
}

// zoneMiss is a click far outside anything painted.
func zoneMiss() tea.MouseMsg {
	return tea.MouseMsg{X: 10_000, Y: 10_000, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}
