package nav

import (
	"context"
	"fmt"

	"github.com/glabrego/hn-cli/internal/app"
	"github.com/glabrego/hn-cli/internal/comments"
	"github.com/glabrego/hn-cli/internal/hackernews"
	"github.com/glabrego/hn-cli/internal/layout"
)

type Fetcher interface {
	FetchListing(ctx context.Context, kind hackernews.ListKind, page, pageSize int) (app.PageView, error)
	Search(ctx context.Context, query string, page, pageSize int) (app.PageView, error)
	FetchItem(ctx context.Context, id int64) (hackernews.Item, error)
}

type Assembler interface {
	Assemble(ctx context.Context, root hackernews.Item, maxDepth int) *comments.Node
}

type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectOpenURL
	EffectCopyURL
	EffectQuit
)

// Effect is work the shell performs outside the state machine. Notice is
// an informational message for the status line.
type Effect struct {
	Kind   EffectKind
	URL    string
	Notice string
}

type Engine struct {
	fetcher   Fetcher
	assembler Assembler
	layout    layout.Calculator
	maxDepth  int
}

func NewEngine(fetcher Fetcher, assembler Assembler, calc layout.Calculator, maxDepth int) *Engine {
	return &Engine{fetcher: fetcher, assembler: assembler, layout: calc, maxDepth: maxDepth}
}

// PageSize is the number of list rows that fit in a terminal of size.
func (e *Engine) PageSize(size Size) int {
	return e.layout.PageSize(size.Rows, size.Cols, layout.ReservedListRows)
}

// Start builds the first screen. Its error is fatal to the session.
func (e *Engine) Start(ctx context.Context, origin Origin, size Size) (State, error) {
	switch {
	case origin.StoryID != 0:
		item, err := e.fetcher.FetchItem(ctx, origin.StoryID)
		if err != nil {
			return nil, err
		}
		story := Story{Item: item}
		if origin.WithComments {
			story = e.withComments(ctx, story)
		}
		return story, nil
	case origin.Query != "":
		return e.fetchPage(ctx, Search{Query: origin.Query}, 0, e.PageSize(size))
	default:
		kind := origin.Kind
		if kind == "" {
			kind = hackernews.ListTop
		}
		return e.fetchPage(ctx, List{Kind: kind}, 0, e.PageSize(size))
	}
}

// Step applies cmd to s. On error the returned state is s itself so a
// failed transition never leaves a half-updated screen.
func (e *Engine) Step(ctx context.Context, s State, cmd Command, size Size) (State, Effect, error) {
	if cmd.Action == ActionQuit {
		return Terminal{}, Effect{Kind: EffectQuit}, nil
	}
	switch cur := s.(type) {
	case List, Search:
		return e.stepPaged(ctx, cur, cmd, size)
	case Story:
		return e.stepStory(ctx, cur, cmd, size)
	default:
		return s, Effect{}, nil
	}
}

func (e *Engine) stepPaged(ctx context.Context, s State, cmd Command, size Size) (State, Effect, error) {
	page, _ := PageOf(s)
	offset := page.PageIndex * page.PageSize

	switch cmd.Action {
	case ActionNextPage:
		if !page.HasMore() {
			return s, Effect{Notice: "Already on the last page"}, nil
		}
		return e.goTo(ctx, s, offset+page.PageSize, size)
	case ActionPrevPage:
		if page.PageIndex == 0 {
			next, _, err := e.goTo(ctx, s, 0, size)
			return next, Effect{Notice: "Already on the first page"}, err
		}
		return e.goTo(ctx, s, max(0, offset-page.PageSize), size)
	case ActionRefresh:
		next, effect, err := e.goTo(ctx, s, offset, size)
		if err == nil {
			effect.Notice = "Refreshed"
		}
		return next, effect, err
	case ActionResize:
		if e.PageSize(size) == page.PageSize {
			return s, Effect{}, nil
		}
		return e.goTo(ctx, s, offset, size)
	case ActionSelect:
		if cmd.Ordinal < 1 || cmd.Ordinal > len(page.Items) {
			return s, Effect{Notice: fmt.Sprintf("No story #%d on this page", cmd.Ordinal)}, nil
		}
		return Story{Item: page.Items[cmd.Ordinal-1], Previous: s}, Effect{}, nil
	default:
		return s, Effect{}, nil
	}
}

// goTo shows the page containing the item at offset for the page size
// that fits size.
func (e *Engine) goTo(ctx context.Context, s State, offset int, size Size) (State, Effect, error) {
	pageSize := e.PageSize(size)
	next, err := e.fetchPage(ctx, s, offset/pageSize, pageSize)
	if err != nil {
		return s, Effect{}, err
	}
	return next, Effect{}, nil
}

func (e *Engine) fetchPage(ctx context.Context, s State, index, pageSize int) (State, error) {
	var (
		page app.PageView
		err  error
	)
	switch cur := s.(type) {
	case List:
		page, err = e.fetcher.FetchListing(ctx, cur.Kind, index, pageSize)
	case Search:
		page, err = e.fetcher.Search(ctx, cur.Query, index, pageSize)
	default:
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	return withPage(s, page), nil
}

func (e *Engine) stepStory(ctx context.Context, s Story, cmd Command, size Size) (State, Effect, error) {
	switch cmd.Action {
	case ActionComments:
		item, err := e.fetcher.FetchItem(ctx, s.Item.ID)
		if err != nil {
			return s, Effect{}, err
		}
		s.Item = item
		s = e.withComments(ctx, s)
		if len(s.Rows) == 0 {
			return s, Effect{Notice: "No comments yet"}, nil
		}
		return s, Effect{Notice: fmt.Sprintf("Loaded %d comments", len(s.Rows))}, nil
	case ActionOpenLink:
		return s, Effect{Kind: EffectOpenURL, URL: s.Item.LinkURL()}, nil
	case ActionCopyLink:
		return s, Effect{Kind: EffectCopyURL, URL: s.Item.LinkURL()}, nil
	case ActionScrollDown:
		return s.scrolled(1), Effect{}, nil
	case ActionScrollUp:
		return s.scrolled(-1), Effect{}, nil
	case ActionPageDown:
		return s.scrolled(max(1, layout.BodyRows(size.Rows)/3)), Effect{}, nil
	case ActionPageUp:
		return s.scrolled(-max(1, layout.BodyRows(size.Rows)/3)), Effect{}, nil
	case ActionBack:
		if s.Previous == nil {
			return s, Effect{Notice: "Nothing to go back to"}, nil
		}
		return s.Previous, Effect{}, nil
	default:
		return s, Effect{}, nil
	}
}

func (e *Engine) withComments(ctx context.Context, s Story) Story {
	tree := e.assembler.Assemble(ctx, s.Item, e.maxDepth)
	s.Comments = tree
	s.Rows = comments.Flatten(tree)
	s.Scroll = 0
	return s
}

// scrolled moves the first visible comment by delta rows.
func (s Story) scrolled(delta int) Story {
	if len(s.Rows) == 0 {
		s.Scroll = 0
		return s
	}
	s.Scroll = min(max(0, s.Scroll+delta), len(s.Rows)-1)
	return s
}
