package comments

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/glabrego/hn-cli/internal/hackernews"
)

type fakeFetcher struct {
	mu    sync.Mutex
	items map[int64]hackernews.Item
	errs  map[int64]error
	calls map[int64]int
}

func newFakeFetcher(items ...hackernews.Item) *fakeFetcher {
	f := &fakeFetcher{
		items: make(map[int64]hackernews.Item),
		errs:  make(map[int64]error),
		calls: make(map[int64]int),
	}
	for _, item := range items {
		f.items[item.ID] = item
	}
	return f
}

func (f *fakeFetcher) FetchItem(_ context.Context, id int64) (hackernews.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if err := f.errs[id]; err != nil {
		return hackernews.Item{}, err
	}
	item, ok := f.items[id]
	if !ok {
		return hackernews.Item{}, hackernews.ErrNotFound
	}
	return item, nil
}

func comment(id int64, by string, kids ...int64) hackernews.Item {
	return hackernews.Item{ID: id, Type: "comment", By: by, Text: fmt.Sprintf("comment %d", id), Kids: kids}
}

func TestAssemble_StopsAtMaxDepth(t *testing.T) {
	root := hackernews.Item{ID: 1, Type: "story", Kids: []int64{10, 20}}
	fetcher := newFakeFetcher(
		comment(10, "a", 11),
		comment(11, "b", 12),
		comment(12, "deep"),
		comment(20, "c"),
	)

	tree := NewAssembler(fetcher, zerolog.Nop()).Assemble(context.Background(), root, 2)

	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 top-level replies, got %d", len(tree.Children))
	}
	a := tree.Children[0]
	if a.Item.ID != 10 || a.Depth != 1 {
		t.Fatalf("unexpected first child: %+v", a)
	}
	if len(a.Children) != 1 || a.Children[0].Item.ID != 11 || a.Children[0].Depth != 2 {
		t.Fatalf("expected B at depth 2, got %+v", a.Children)
	}
	if b := a.Children[0]; len(b.Children) != 0 {
		t.Fatalf("expected B to be a leaf, got %d children", len(b.Children))
	}
	if tree.Children[1].Item.ID != 20 {
		t.Fatalf("expected kids order preserved, got %+v", tree.Children[1])
	}
	if MaxDepth(tree) != 2 {
		t.Fatalf("expected tree depth 2, got %d", MaxDepth(tree))
	}
	if fetcher.calls[12] != 0 {
		t.Fatal("children beyond max depth must not be fetched")
	}
}

func TestAssemble_ZeroDepthFetchesNothing(t *testing.T) {
	root := hackernews.Item{ID: 1, Type: "story", Kids: []int64{10}}
	fetcher := newFakeFetcher(comment(10, "a"))

	tree := NewAssembler(fetcher, zerolog.Nop()).Assemble(context.Background(), root, 0)
	if len(tree.Children) != 0 || len(fetcher.calls) != 0 {
		t.Fatalf("expected bare root, children=%d calls=%v", len(tree.Children), fetcher.calls)
	}
}

func TestAssemble_FailuresBecomePlaceholders(t *testing.T) {
	root := hackernews.Item{ID: 1, Type: "story", Kids: []int64{10, 20, 30, 40}}
	fetcher := newFakeFetcher(
		comment(10, "ok"),
		hackernews.Item{ID: 20, Type: "comment", Deleted: true, Kids: []int64{21}},
		comment(21, "orphan"),
		hackernews.Item{ID: 40, Type: "comment", Dead: true},
	)
	fetcher.errs[30] = fmt.Errorf("timeout: %w", hackernews.ErrUnavailable)

	tree := NewAssembler(fetcher, zerolog.Nop()).Assemble(context.Background(), root, 3)

	if len(tree.Children) != 4 {
		t.Fatalf("expected all siblings present, got %d", len(tree.Children))
	}
	want := []Reason{ReasonNone, ReasonDeleted, ReasonUnavailable, ReasonDead}
	for i, node := range tree.Children {
		if node.Reason != want[i] {
			t.Fatalf("child %d: expected reason %q, got %q", i, want[i], node.Reason)
		}
		if node.Placeholder != (want[i] != ReasonNone) {
			t.Fatalf("child %d: unexpected placeholder flag", i)
		}
	}
	deleted := tree.Children[1]
	if len(deleted.Children) != 1 || deleted.Children[0].Item.By != "orphan" {
		t.Fatalf("expected replies under deleted comment to survive, got %+v", deleted.Children)
	}
	if tree.Children[2].Item.ID != 30 {
		t.Fatalf("placeholder should keep its id, got %d", tree.Children[2].Item.ID)
	}
}

func TestAssemble_MissingChildIsNotFoundPlaceholder(t *testing.T) {
	root := hackernews.Item{ID: 1, Type: "story", Kids: []int64{99}}
	tree := NewAssembler(newFakeFetcher(), zerolog.Nop()).Assemble(context.Background(), root, 2)
	if len(tree.Children) != 1 || tree.Children[0].Reason != ReasonNotFound {
		t.Fatalf("expected not found placeholder, got %+v", tree.Children)
	}
}

func TestAssemble_TopLevelLimit(t *testing.T) {
	root := hackernews.Item{ID: 1, Type: "story", Kids: []int64{10, 20, 30}}
	fetcher := newFakeFetcher(comment(10, "a", 11), comment(11, "b"), comment(20, "c"), comment(30, "d"))
	assembler := NewAssembler(fetcher, zerolog.Nop())
	assembler.TopLevelLimit = 2

	tree := assembler.Assemble(context.Background(), root, 3)
	if len(tree.Children) != 2 || Count(tree) != 3 {
		t.Fatalf("expected 2 top-level and 3 total comments, got %d/%d", len(tree.Children), Count(tree))
	}
	if fetcher.calls[30] != 0 {
		t.Fatal("replies past the limit must not be fetched")
	}
}

func TestAssemble_WideLevelKeepsOrder(t *testing.T) {
	kids := make([]int64, 0, 50)
	items := make([]hackernews.Item, 0, 50)
	for i := int64(100); i < 150; i++ {
		kids = append(kids, i)
		items = append(items, comment(i, fmt.Sprintf("u%d", i)))
	}
	root := hackernews.Item{ID: 1, Type: "story", Kids: kids}

	tree := NewAssembler(newFakeFetcher(items...), zerolog.Nop()).Assemble(context.Background(), root, 1)
	for i, node := range tree.Children {
		if node.Item.ID != kids[i] {
			t.Fatalf("position %d: expected %d, got %d", i, kids[i], node.Item.ID)
		}
	}
}

func TestFlatten_PreOrder(t *testing.T) {
	root := hackernews.Item{ID: 1, Type: "story", Kids: []int64{10, 20}}
	fetcher := newFakeFetcher(
		comment(10, "a", 11, 12),
		comment(11, "b", 13),
		comment(12, "c"),
		comment(13, "d"),
		comment(20, "e"),
	)
	tree := NewAssembler(fetcher, zerolog.Nop()).Assemble(context.Background(), root, 2)

	rows := Flatten(tree)
	got := make([]string, 0, len(rows))
	for _, row := range rows {
		got = append(got, fmt.Sprintf("%s@%d", row.Node.Item.By, row.Depth))
	}
	if fmt.Sprint(got) != "[a@1 b@2 c@2 e@1]" {
		t.Fatalf("unexpected order: %v", got)
	}
	if rows[1].Hidden != 1 {
		t.Fatalf("expected b to report one unloaded reply, got %d", rows[1].Hidden)
	}
	if rows[0].Replies != 2 {
		t.Fatalf("expected a to report two replies, got %d", rows[0].Replies)
	}
}
