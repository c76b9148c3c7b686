package collision

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

const noNode = -1

// Tree is a bounding volume hierarchy over boxes of the same frame. Nodes live
// in a flat arena and refer to their children by index. The root is node 0.
type Tree struct {
	boxes []Box
	ids   []int
	nodes []treeNode
}

type treeNode struct {
	box   Box
	left  int
	right int

	// Boxes exactly filling a full node. Full nodes are never split.
	members []int
}

func (n treeNode) full() bool {
	return n.members != nil
}

// MakeTree builds the box tree collider of the given boxes. The leaf ids are
// the box indexes.
func MakeTree(boxes []Box) *Tree {
	ids := make([]int, len(boxes))
	for i := range ids {
		ids[i] = i
	}
	return NewTreeWithIDs(boxes, ids)
}

// NewTreeWithIDs builds a box tree where boxes[i] reports ids[i] as occupant.
func NewTreeWithIDs(boxes []Box, ids []int) *Tree {
	if len(boxes) == 0 {
		panic(errors.New("tree of an empty box list"))
	}
	if len(boxes) != len(ids) {
		panic(errors.New("tree ids do not match boxes").
			WithTag("boxes", len(boxes)).
			WithTag("ids", len(ids)))
	}

	t := &Tree{
		boxes: boxes,
		ids:   ids,
	}

	all := make([]int, len(boxes))
	for i := range all {
		all[i] = i
	}

	type pending struct {
		node    int
		members []int
	}

	var stack []pending
	if root := t.add(all); !t.nodes[root].full() {
		stack = append(stack, pending{node: root, members: all})
	}

	for len(stack) != 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		left, right := subdivide(t.boxes, p.members)
		l := t.add(left)
		r := t.add(right)
		t.nodes[p.node].left = l
		t.nodes[p.node].right = r

		if !t.nodes[l].full() {
			stack = append(stack, pending{node: l, members: left})
		}
		if !t.nodes[r].full() {
			stack = append(stack, pending{node: r, members: right})
		}
	}

	logs.WithTag("boxes", len(boxes)).
		WithTag("nodes", len(t.nodes)).
		Debug("box tree built")
	instrumentTreeBuild(t)
	return t
}

func (t *Tree) add(members []int) int {
	boxes := make([]Box, len(members))
	for i, m := range members {
		boxes[i] = t.boxes[m]
	}
	box, full := Superbox(boxes)

	n := treeNode{
		box:   box,
		left:  noNode,
		right: noNode,
	}
	if full {
		n.members = append([]int{}, members...)
	}

	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

func (t *Tree) kind() Kind {
	return KindBoxTree
}

// Box returns the box enclosing the whole tree.
func (t *Tree) Box() Box {
	return t.nodes[0].box
}

// Full reports whether the boxes exactly fill the root box.
func (t *Tree) Full() bool {
	return t.nodes[0].full()
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Check runs fn against the tree, depth first. A node is only opened when fn
// reports a collision with its box. Full nodes are resolved against each of
// their boxes and every collision found there is accumulated, tagged with the
// box id.
func (t *Tree) Check(fn func(Box) Report) Report {
	var report Report
	stack := []int{0}

	for len(stack) != 0 {
		n := t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		r := fn(n.box)
		if !r.Collision() {
			continue
		}

		if !n.full() {
			stack = append(stack, n.right, n.left)
			continue
		}

		if len(n.members) == 1 {
			report.Append(r.withOccupant(t.ids[n.members[0]]))
			continue
		}
		for _, m := range n.members {
			if r := fn(t.boxes[m]); r.Collision() {
				report.Append(r.withOccupant(t.ids[m]))
			}
		}
	}
	return report
}
