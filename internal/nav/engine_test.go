package nav

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/glabrego/hn-cli/internal/app"
	"github.com/glabrego/hn-cli/internal/comments"
	"github.com/glabrego/hn-cli/internal/hackernews"
	"github.com/glabrego/hn-cli/internal/layout"
)

type fakeFetcher struct {
	ids        []int64
	items      map[int64]hackernews.Item
	listErr    error
	itemErr    error
	listCalls  int
	lastSearch string
}

func newFakeFetcher(n int) *fakeFetcher {
	f := &fakeFetcher{items: make(map[int64]hackernews.Item)}
	for i := 1; i <= n; i++ {
		id := int64(i)
		f.ids = append(f.ids, id)
		f.items[id] = hackernews.Item{ID: id, Type: "story", Title: fmt.Sprintf("Story %d", i), URL: fmt.Sprintf("https://example.com/%d", i)}
	}
	return f
}

func (f *fakeFetcher) page(index, pageSize int) app.PageView {
	start := min(index*pageSize, len(f.ids))
	end := min(start+pageSize, len(f.ids))
	items := make([]hackernews.Item, 0, end-start)
	for _, id := range f.ids[start:end] {
		items = append(items, f.items[id])
	}
	return app.PageView{Items: items, PageIndex: index, PageSize: pageSize, Total: len(f.ids), TotalKnown: true}
}

func (f *fakeFetcher) FetchListing(_ context.Context, _ hackernews.ListKind, page, pageSize int) (app.PageView, error) {
	f.listCalls++
	if f.listErr != nil {
		return app.PageView{}, f.listErr
	}
	return f.page(page, pageSize), nil
}

func (f *fakeFetcher) Search(_ context.Context, query string, page, pageSize int) (app.PageView, error) {
	f.lastSearch = query
	if f.listErr != nil {
		return app.PageView{}, f.listErr
	}
	return f.page(page, pageSize), nil
}

func (f *fakeFetcher) FetchItem(_ context.Context, id int64) (hackernews.Item, error) {
	if f.itemErr != nil {
		return hackernews.Item{}, f.itemErr
	}
	item, ok := f.items[id]
	if !ok {
		return hackernews.Item{}, hackernews.ErrNotFound
	}
	return item, nil
}

type fakeAssembler struct {
	depths []int
}

func (a *fakeAssembler) Assemble(_ context.Context, root hackernews.Item, maxDepth int) *comments.Node {
	a.depths = append(a.depths, maxDepth)
	tree := &comments.Node{Item: root}
	for _, id := range root.Kids {
		tree.Children = append(tree.Children, &comments.Node{Item: hackernews.Item{ID: id, Type: "comment"}, Depth: 1})
	}
	return tree
}

// 18 rows minus 8 reserved gives pages of 10 under a ceiling of 10.
var tallEnough = Size{Rows: 18, Cols: 80}

func newTestEngine(f *fakeFetcher) (*Engine, *fakeAssembler) {
	a := &fakeAssembler{}
	return NewEngine(f, a, layout.Calculator{Ceiling: 10}, 3), a
}

func startList(t *testing.T, e *Engine) State {
	t.Helper()
	s, err := e.Start(context.Background(), Origin{Kind: hackernews.ListTop}, tallEnough)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	return s
}

func step(t *testing.T, e *Engine, s State, cmd Command) (State, Effect) {
	t.Helper()
	next, effect, err := e.Step(context.Background(), s, cmd, tallEnough)
	if err != nil {
		t.Fatalf("Step(%+v) returned error: %v", cmd, err)
	}
	return next, effect
}

func TestStart_List(t *testing.T) {
	e, _ := newTestEngine(newFakeFetcher(35))
	s := startList(t, e)

	list, ok := s.(List)
	if !ok {
		t.Fatalf("expected List state, got %T", s)
	}
	if list.Page.PageIndex != 0 || len(list.Page.Items) != 10 || list.Kind != hackernews.ListTop {
		t.Fatalf("unexpected first page: %+v", list.Page)
	}
}

func TestStart_FailureIsReturned(t *testing.T) {
	f := newFakeFetcher(5)
	f.listErr = fmt.Errorf("dial: %w", hackernews.ErrUnavailable)
	e, _ := newTestEngine(f)

	s, err := e.Start(context.Background(), Origin{Kind: hackernews.ListNew}, tallEnough)
	if !errors.Is(err, hackernews.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if s != nil {
		t.Fatalf("expected no state on fatal start, got %T", s)
	}
}

func TestStart_StoryWithComments(t *testing.T) {
	f := newFakeFetcher(3)
	f.items[2] = hackernews.Item{ID: 2, Type: "story", Kids: []int64{20, 21}}
	e, a := newTestEngine(f)

	s, err := e.Start(context.Background(), Origin{StoryID: 2, WithComments: true}, tallEnough)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	story := s.(Story)
	if len(story.Rows) != 2 || story.Previous != nil {
		t.Fatalf("unexpected story state: %+v", story)
	}
	if len(a.depths) != 1 || a.depths[0] != 3 {
		t.Fatalf("expected assembly with max depth 3, got %v", a.depths)
	}
}

func TestStart_Search(t *testing.T) {
	f := newFakeFetcher(4)
	e, _ := newTestEngine(f)

	s, err := e.Start(context.Background(), Origin{Query: "rust"}, tallEnough)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if s.View() != ViewSearch || f.lastSearch != "rust" {
		t.Fatalf("expected search state for rust, got %v (%q)", s.View(), f.lastSearch)
	}
}

func TestStep_NextThenPrevShowsSamePage(t *testing.T) {
	e, _ := newTestEngine(newFakeFetcher(35))
	first := startList(t, e)

	second, _ := step(t, e, first, Command{Action: ActionNextPage})
	if p, _ := PageOf(second); p.PageIndex != 1 || p.Items[0].ID != 11 {
		t.Fatalf("unexpected second page: %+v", p)
	}
	back, _ := step(t, e, second, Command{Action: ActionPrevPage})
	if !reflect.DeepEqual(back, first) {
		t.Fatalf("expected identical first page after n then p")
	}
}

func TestStep_UnavailableKeepsPreviousState(t *testing.T) {
	f := newFakeFetcher(35)
	e, _ := newTestEngine(f)
	first := startList(t, e)

	f.listErr = fmt.Errorf("timeout: %w", hackernews.ErrUnavailable)
	next, _, err := e.Step(context.Background(), first, Command{Action: ActionNextPage}, tallEnough)
	if !errors.Is(err, hackernews.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !reflect.DeepEqual(next, first) {
		t.Fatalf("failed transition changed state: %+v", next)
	}
}

func TestStep_NextOnLastPageIsNoop(t *testing.T) {
	f := newFakeFetcher(8)
	e, _ := newTestEngine(f)
	first := startList(t, e)
	calls := f.listCalls

	next, effect := step(t, e, first, Command{Action: ActionNextPage})
	if !reflect.DeepEqual(next, first) || effect.Notice == "" {
		t.Fatalf("expected unchanged state with notice, got %+v", effect)
	}
	if f.listCalls != calls {
		t.Fatal("expected no fetch past the last page")
	}
}

func TestStep_PrevOnFirstPageClamps(t *testing.T) {
	e, _ := newTestEngine(newFakeFetcher(20))
	first := startList(t, e)

	next, effect := step(t, e, first, Command{Action: ActionPrevPage})
	if p, _ := PageOf(next); p.PageIndex != 0 {
		t.Fatalf("expected page 0, got %d", p.PageIndex)
	}
	if effect.Notice == "" {
		t.Fatal("expected first-page notice")
	}
}

func TestStep_RefreshRefetchesCurrentPage(t *testing.T) {
	f := newFakeFetcher(30)
	e, _ := newTestEngine(f)
	s := startList(t, e)
	s, _ = step(t, e, s, Command{Action: ActionNextPage})
	calls := f.listCalls

	f.items[11] = hackernews.Item{ID: 11, Type: "story", Title: "Updated"}
	next, _ := step(t, e, s, Command{Action: ActionRefresh})
	p, _ := PageOf(next)
	if f.listCalls != calls+1 || p.PageIndex != 1 || p.Items[0].Title != "Updated" {
		t.Fatalf("expected refetched page 1, got %+v", p)
	}
}

func TestStep_ResizeKeepsFirstItemVisible(t *testing.T) {
	e, _ := newTestEngine(newFakeFetcher(50))
	s := startList(t, e)
	s, _ = step(t, e, s, Command{Action: ActionNextPage})
	s, _ = step(t, e, s, Command{Action: ActionNextPage})

	small := Size{Rows: 13, Cols: 80}
	next, _, err := e.Step(context.Background(), s, Command{Action: ActionResize}, small)
	if err != nil {
		t.Fatalf("Step returned error: %v", err)
	}
	p, _ := PageOf(next)
	if p.PageSize != 5 || p.PageIndex != 4 || p.Items[0].ID != 21 {
		t.Fatalf("unexpected page after resize: index=%d size=%d first=%d", p.PageIndex, p.PageSize, p.Items[0].ID)
	}
}

func TestStep_SelectOpensStoryAndBackRestoresPage(t *testing.T) {
	e, _ := newTestEngine(newFakeFetcher(30))
	list, _ := step(t, e, startList(t, e), Command{Action: ActionNextPage})

	s, _ := step(t, e, list, Command{Action: ActionSelect, Ordinal: 3})
	story, ok := s.(Story)
	if !ok || story.Item.ID != 13 {
		t.Fatalf("expected story 13, got %+v", s)
	}
	if story.Comments != nil {
		t.Fatal("comments must not load before they are requested")
	}

	back, _ := step(t, e, story, Command{Action: ActionBack})
	if !reflect.DeepEqual(back, list) {
		t.Fatal("expected back to restore the remembered page")
	}
}

func TestStep_SelectOutOfRange(t *testing.T) {
	e, _ := newTestEngine(newFakeFetcher(4))
	s := startList(t, e)

	next, effect := step(t, e, s, Command{Action: ActionSelect, Ordinal: 7})
	if !reflect.DeepEqual(next, s) || effect.Notice == "" {
		t.Fatalf("expected unchanged state with notice, got %+v", effect)
	}
}

func TestStep_StoryActions(t *testing.T) {
	f := newFakeFetcher(5)
	f.items[1] = hackernews.Item{ID: 1, Type: "story", URL: "https://example.com/1", Kids: []int64{10, 11, 12}}
	e, _ := newTestEngine(f)
	s, _ := step(t, e, startList(t, e), Command{Action: ActionSelect, Ordinal: 1})

	same, effect := step(t, e, s, Command{Action: ActionOpenLink})
	if effect.Kind != EffectOpenURL || effect.URL != "https://example.com/1" || !reflect.DeepEqual(same, s) {
		t.Fatalf("unexpected open effect: %+v", effect)
	}

	loaded, _ := step(t, e, s, Command{Action: ActionComments})
	story := loaded.(Story)
	if len(story.Rows) != 3 {
		t.Fatalf("expected 3 comment rows, got %d", len(story.Rows))
	}

	story = mustStory(t, e, story, Command{Action: ActionScrollDown})
	story = mustStory(t, e, story, Command{Action: ActionScrollDown})
	story = mustStory(t, e, story, Command{Action: ActionScrollDown})
	if story.Scroll != 2 {
		t.Fatalf("expected scroll clamped at 2, got %d", story.Scroll)
	}
	story = mustStory(t, e, story, Command{Action: ActionPageUp})
	if story.Scroll != 0 {
		t.Fatalf("expected scroll at top, got %d", story.Scroll)
	}
}

func TestStep_CommentsFailureKeepsStory(t *testing.T) {
	f := newFakeFetcher(5)
	e, _ := newTestEngine(f)
	s, _ := step(t, e, startList(t, e), Command{Action: ActionSelect, Ordinal: 2})

	f.itemErr = fmt.Errorf("reset: %w", hackernews.ErrUnavailable)
	next, _, err := e.Step(context.Background(), s, Command{Action: ActionComments}, tallEnough)
	if !errors.Is(err, hackernews.ErrUnavailable) || !reflect.DeepEqual(next, s) {
		t.Fatalf("expected unchanged story with error, got err=%v", err)
	}
}

func TestStep_BackWithoutPrevious(t *testing.T) {
	e, _ := newTestEngine(newFakeFetcher(3))
	s := Story{Item: hackernews.Item{ID: 1}}

	next, effect := step(t, e, s, Command{Action: ActionBack})
	if !reflect.DeepEqual(next, s) || effect.Notice == "" {
		t.Fatal("expected story to stay with a notice")
	}
}

func TestStep_QuitFromAnyState(t *testing.T) {
	e, _ := newTestEngine(newFakeFetcher(3))
	for _, s := range []State{startList(t, e), Search{}, Story{}, Terminal{}} {
		next, effect := step(t, e, s, Command{Action: ActionQuit})
		if next.View() != ViewTerminal || effect.Kind != EffectQuit {
			t.Fatalf("expected terminal from %T, got %T", s, next)
		}
	}
}

func TestStep_UnknownCommandIsIgnored(t *testing.T) {
	e, _ := newTestEngine(newFakeFetcher(12))
	s := startList(t, e)
	next, effect := step(t, e, s, Command{Action: ActionComments})
	if !reflect.DeepEqual(next, s) || effect != (Effect{}) {
		t.Fatal("expected list to ignore story-only command")
	}
}

func mustStory(t *testing.T, e *Engine, s Story, cmd Command) Story {
	t.Helper()
	next, _ := step(t, e, s, cmd)
	story, ok := next.(Story)
	if !ok {
		t.Fatalf("expected Story, got %T", next)
	}
	return story
}
