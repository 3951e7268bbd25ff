package comments

// Row is one node of the tree in display order.
type Row struct {
	Node  *Node
	Depth int
	// Replies is the number of direct children the row has in the tree.
	Replies int
	// Hidden is how many kids exist upstream but were not loaded because of
	// the depth limit.
	Hidden int
}

// Flatten lists the nodes under root in pre-order, root excluded.
func Flatten(root *Node) []Row {
	if root == nil {
		return nil
	}
	rows := make([]Row, 0, Count(root))
	stack := reversed(root.Children)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		hidden := 0
		if len(node.Children) == 0 {
			hidden = len(node.Item.Kids)
		}
		rows = append(rows, Row{
			Node:    node,
			Depth:   node.Depth,
			Replies: len(node.Children),
			Hidden:  hidden,
		})
		stack = append(stack, reversed(node.Children)...)
	}
	return rows
}

func reversed(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, node := range nodes {
		out[len(nodes)-1-i] = node
	}
	return out
}
