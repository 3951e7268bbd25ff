// Package nav holds the browsing state machine: which screen is showing,
// what it contains, and how a keystroke moves between screens.
package nav

import (
	"github.com/glabrego/hn-cli/internal/app"
	"github.com/glabrego/hn-cli/internal/comments"
	"github.com/glabrego/hn-cli/internal/hackernews"
)

type View int

const (
	ViewList View = iota
	ViewSearch
	ViewStory
	ViewTerminal
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewSearch:
		return "search"
	case ViewStory:
		return "story"
	case ViewTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// State is exactly one of List, Search, Story or Terminal. States are
// values: a transition builds a new one and never edits the old.
type State interface {
	View() View
}

// List is one page of a ranked story listing.
type List struct {
	Kind hackernews.ListKind
	Page app.PageView
}

// Search is one page of search results.
type Search struct {
	Query string
	Page  app.PageView
}

// Story shows one item. Comments stays nil until requested. Previous is
// the screen the story was opened from, if any.
type Story struct {
	Item     hackernews.Item
	Comments *comments.Node
	Rows     []comments.Row
	Scroll   int
	Previous State
}

// Terminal ends the session.
type Terminal struct{}

func (List) View() View     { return ViewList }
func (Search) View() View   { return ViewSearch }
func (Story) View() View    { return ViewStory }
func (Terminal) View() View { return ViewTerminal }

// PageOf returns the page shown by list-like states.
func PageOf(s State) (app.PageView, bool) {
	switch s := s.(type) {
	case List:
		return s.Page, true
	case Search:
		return s.Page, true
	default:
		return app.PageView{}, false
	}
}

func withPage(s State, page app.PageView) State {
	switch s := s.(type) {
	case List:
		s.Page = page
		return s
	case Search:
		s.Page = page
		return s
	default:
		return s
	}
}

// Origin names the first screen of a session. StoryID wins over Query,
// which wins over Kind.
type Origin struct {
	Kind         hackernews.ListKind
	Query        string
	StoryID      int64
	WithComments bool
}

// Size is the terminal size in cells.
type Size struct {
	Rows int
	Cols int
}
