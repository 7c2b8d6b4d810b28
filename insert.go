package pbtree

import "pbtree/internal/seq"

// InsertKind tags which case an InsertResult carries.
type InsertKind int

const (
	// Added reports that v was not present and now occupies a new slot;
	// the subtree grew by exactly one element and did not overflow.
	Added InsertKind = iota
	// Replaced reports that an element with the same key already existed
	// and was overwritten; Old holds the value it displaced.
	Replaced
	// Split reports that inserting v overflowed this node: the caller
	// must discard the receiver and splice Left, Median, Right into its
	// own parent (or, if the receiver was the tree root, build a new
	// root over them with FromSplit).
	Split
)

// InsertResult is the outcome of inserting one value into a node. Which of
// its fields are meaningful depends on Kind:
//
//	Added    -> New is the replacement subtree root.
//	Replaced -> New is the replacement subtree root; Old is the displaced value.
//	Split    -> Left, Median, Right replace the receiver in its parent.
type InsertResult[K any, A Value[K, A]] struct {
	Kind   InsertKind
	New    *Node[K, A]
	Old    A
	Left   *Node[K, A]
	Median A
	Right  *Node[K, A]
}

// Insert returns the result of inserting v into the subtree rooted at n.
// n itself is never mutated: every node the descent touches is cloned
// first. Insert never checks whether n satisfies the B-tree invariants
// before starting — callers outside this package's own operations are
// expected to only ever pass a Node this package produced.
func (n *Node[K, A]) Insert(v A) InsertResult[K, A] {
	if n == nil || len(n.keys) == 0 {
		fanout := B
		if n != nil {
			fanout = n.fanout
		}
		tracer().Debugf("insert %v into empty node", v.Key())
		return InsertResult[K, A]{Kind: Added, New: unitWithFanout[K, A](v, fanout)}
	}
	cow := n.clone()
	p := SearchKey[K, A](cow.keys, v.Key())
	if p.Found {
		old := cow.keys[p.Index]
		cow.keys[p.Index] = v
		tracer().Debugf("replace at %d in %s", p.Index, cow.String())
		return InsertResult[K, A]{Kind: Replaced, New: cow, Old: old}
	}
	if cow.isLeaf() {
		if cow.hasRoom() {
			cow.keys = seq.InsertAt(cow.keys, p.Index, v)
			cow.children = seq.InsertAt(cow.children, p.Index, (*Node[K, A])(nil))
			cow.count++
			tracer().Debugf("insert at %d in leaf %s", p.Index, cow.String())
			return InsertResult[K, A]{Kind: Added, New: cow}
		}
		tracer().Debugf("leaf full, splitting around %d", p.Index)
		return cow.splitWith(p.Index, v, nil, nil)
	}

	child := cow.children[p.Index]
	switch childResult := child.Insert(v); childResult.Kind {
	case Added:
		cow.children[p.Index] = childResult.New
		cow.count++
		return InsertResult[K, A]{Kind: Added, New: cow}
	case Replaced:
		cow.children[p.Index] = childResult.New
		return InsertResult[K, A]{Kind: Replaced, New: cow, Old: childResult.Old}
	default: // Split
		if cow.hasRoom() {
			cow.keys = seq.InsertAt(cow.keys, p.Index, childResult.Median)
			cow.children[p.Index] = childResult.Left
			cow.children = seq.InsertAt(cow.children, p.Index+1, childResult.Right)
			cow.count++
			return InsertResult[K, A]{Kind: Added, New: cow}
		}
		tracer().Debugf("internal full, splitting around %d", p.Index)
		return cow.splitWith(p.Index, childResult.Median, childResult.Left, childResult.Right)
	}
}

// splitWith inserts one more key (and, for an internal node, the two
// children that replace the one at idx) into a node that is already at
// capacity, then splits the resulting oversized node down the middle.
// n must already be the caller's own clone.
func (n *Node[K, A]) splitWith(idx int, v A, left, right *Node[K, A]) InsertResult[K, A] {
	leaf := left == nil && right == nil

	expandedKeys := seq.InsertAt(seq.Clone(n.keys), idx, v)

	var expandedChildren seq.Seq[*Node[K, A]]
	if leaf {
		expandedChildren = seq.InsertAt(seq.Clone(n.children), idx, (*Node[K, A])(nil))
	} else {
		tmp := seq.Clone(n.children)
		tmp[idx] = left
		expandedChildren = seq.InsertAt(tmp, idx+1, right)
	}

	mid := len(expandedKeys) / 2
	medianValue := expandedKeys[mid]

	leftKeys := seq.Take(expandedKeys, 0, mid)
	rightKeys := seq.Take(expandedKeys, mid+1, len(expandedKeys))
	leftChildren := seq.Take(expandedChildren, 0, mid+1)
	rightChildren := seq.Take(expandedChildren, mid+1, len(expandedChildren))

	leftNode := &Node[K, A]{
		keys:     leftKeys,
		children: leftChildren,
		count:    len(leftKeys) + sumCounts(leftChildren),
		fanout:   n.fanout,
	}
	rightNode := &Node[K, A]{
		keys:     rightKeys,
		children: rightChildren,
		count:    len(rightKeys) + sumCounts(rightChildren),
		fanout:   n.fanout,
	}

	tracer().Debugf("split produced %s | %v | %s", leftNode.String(), medianValue.Key(), rightNode.String())

	return InsertResult[K, A]{
		Kind:   Split,
		Left:   leftNode,
		Median: medianValue,
		Right:  rightNode,
	}
}

func sumCounts[K any, A Value[K, A]](children seq.Seq[*Node[K, A]]) int {
	total := 0
	for _, c := range children {
		total += lenOf(c)
	}
	return total
}
