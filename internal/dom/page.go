package dom

import (
	"golang.org/x/net/html"
)

// Element ids of the page skeleton.
const (
	IDApp        = "app"
	IDList       = "activities-list"
	IDForm       = "signup-form"
	IDEmail      = "email"
	IDActivity   = "activity"
	IDMessage    = "message"
	ClassHidden  = "hidden"
	LoadingLabel = "Loading activities..."
)

// Page is the rendered surface: a list container, a select control and a
// message region under one root.
type Page struct {
	Root    *html.Node
	List    *html.Node
	Select  *html.Node
	Message *html.Node
}

// NewPage builds the page skeleton with a loading placeholder in the list.
func NewPage() *Page {
	list := El("div", Attrs("id", IDList), El("p", nil, Text(LoadingLabel)))
	sel := El("select", Attrs("id", IDActivity, "required", ""))
	msg := El("div", Attrs("id", IDMessage, "class", ClassHidden))

	form := El("form", Attrs("id", IDForm),
		El("input", Attrs("type", "email", "id", IDEmail, "required", "")),
		sel,
	)
	root := El("div", Attrs("id", IDApp),
		El("section", Attrs("id", "activities-container"), El("h3", nil, Text("Available Activities")), list),
		El("section", Attrs("id", "signup-container"), El("h3", nil, Text("Sign Up for an Activity")), form, msg),
	)

	return &Page{Root: root, List: list, Select: sel, Message: msg}
}

// Option is one entry of the activity select control.
type Option struct {
	Value string
	Label string
}

// Options lists the select control's options in order.
func (p *Page) Options() []Option {
	var out []Option
	for _, n := range Children(p.Select) {
		if n.Data != "option" {
			continue
		}
		v, _ := Attr(n, "value")
		out = append(out, Option{Value: v, Label: TextContent(n)})
	}
	return out
}

// Cards returns the list container's children tagged with data-activity.
func (p *Page) Cards() []*html.Node {
	var out []*html.Node
	for _, n := range Children(p.List) {
		if _, ok := Attr(n, "data-activity"); ok {
			out = append(out, n)
		}
	}
	return out
}

// Card returns the card tagged with name, or nil.
func (p *Page) Card(name string) *html.Node {
	for _, n := range p.Cards() {
		if v, _ := Attr(n, "data-activity"); v == name {
			return n
		}
	}
	return nil
}

// HTML serialises the whole page.
func (p *Page) HTML() string {
	return Render(p.Root)
}
