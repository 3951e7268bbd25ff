package comments

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/glabrego/hn-cli/internal/hackernews"
)

const defaultConcurrency = 8

// Reason explains why a node carries no displayable comment.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonDeleted     Reason = "deleted"
	ReasonDead        Reason = "dead"
	ReasonNotFound    Reason = "not found"
	ReasonUnavailable Reason = "unavailable"
)

// Node is one comment in the assembled tree. Placeholder nodes keep the
// position of comments that could not be shown.
type Node struct {
	Item        hackernews.Item
	Depth       int
	Placeholder bool
	Reason      Reason
	Children    []*Node
}

type ItemFetcher interface {
	FetchItem(ctx context.Context, id int64) (hackernews.Item, error)
}

type Assembler struct {
	fetcher     ItemFetcher
	concurrency int
	// TopLevelLimit caps the number of direct replies to the root; zero
	// keeps all of them.
	TopLevelLimit int
	logger        zerolog.Logger
}

func NewAssembler(fetcher ItemFetcher, logger zerolog.Logger) *Assembler {
	return &Assembler{fetcher: fetcher, concurrency: defaultConcurrency, logger: logger}
}

type pending struct {
	parent *Node
	slot   int
	id     int64
}

// Assemble builds the reply tree under root down to maxDepth, where root is
// depth 0. Nodes at maxDepth are leaves: their kids are never fetched.
//
// The tree is walked level by level. Every fetch of a level runs
// concurrently and completes before the next level starts. A failed fetch
// becomes a placeholder and never aborts its siblings.
func (a *Assembler) Assemble(ctx context.Context, root hackernews.Item, maxDepth int) *Node {
	tree := &Node{Item: root}
	if root.Gone() {
		tree.Placeholder = true
		tree.Reason = goneReason(root)
	}

	if maxDepth < 1 {
		return tree
	}
	queue := a.childrenOf(tree, a.TopLevelLimit)
	for depth := 1; depth <= maxDepth && len(queue) > 0; depth++ {
		nodes := a.fetchLevel(ctx, queue, depth)

		next := make([]pending, 0, len(queue))
		if depth < maxDepth {
			for _, node := range nodes {
				if node.Reason == ReasonNotFound || node.Reason == ReasonUnavailable {
					continue
				}
				next = append(next, a.childrenOf(node, 0)...)
			}
		}
		queue = next
	}
	return tree
}

func (a *Assembler) childrenOf(node *Node, limit int) []pending {
	kids := node.Item.Kids
	if limit > 0 && len(kids) > limit {
		kids = kids[:limit]
	}
	if len(kids) == 0 {
		return nil
	}
	node.Children = make([]*Node, len(kids))
	out := make([]pending, len(kids))
	for i, id := range kids {
		out[i] = pending{parent: node, slot: i, id: id}
	}
	return out
}

// fetchLevel resolves one level of the queue into nodes attached to their
// parents. It returns the new nodes in queue order.
func (a *Assembler) fetchLevel(ctx context.Context, level []pending, depth int) []*Node {
	nodes := make([]*Node, len(level))

	var g errgroup.Group
	g.SetLimit(max(1, a.concurrency))
	for i, p := range level {
		g.Go(func() error {
			nodes[i] = a.fetchNode(ctx, p.id, depth)
			return nil
		})
	}
	_ = g.Wait()

	for i, p := range level {
		p.parent.Children[p.slot] = nodes[i]
	}
	return nodes
}

func (a *Assembler) fetchNode(ctx context.Context, id int64, depth int) *Node {
	item, err := a.fetcher.FetchItem(ctx, id)
	if err != nil {
		reason := ReasonUnavailable
		if errors.Is(err, hackernews.ErrNotFound) {
			reason = ReasonNotFound
		}
		a.logger.Debug().Err(err).Int64("comment", id).Msg("comment replaced by placeholder")
		return &Node{Item: hackernews.Item{ID: id}, Depth: depth, Placeholder: true, Reason: reason}
	}
	node := &Node{Item: item, Depth: depth}
	if item.Gone() {
		node.Placeholder = true
		node.Reason = goneReason(item)
	}
	return node
}

func goneReason(item hackernews.Item) Reason {
	if item.Deleted {
		return ReasonDeleted
	}
	return ReasonDead
}

// Count is the number of nodes under root, root excluded.
func Count(root *Node) int {
	if root == nil {
		return 0
	}
	n := 0
	stack := append([]*Node(nil), root.Children...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		n++
		stack = append(stack, node.Children...)
	}
	return n
}

// MaxDepth is the depth of the deepest node under root.
func MaxDepth(root *Node) int {
	if root == nil {
		return 0
	}
	deepest := root.Depth
	stack := []*Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		deepest = max(deepest, node.Depth)
		stack = append(stack, node.Children...)
	}
	return deepest
}
