package pbtree

import "pbtree/internal/seq"

// RemoveKind tags which case a RemoveResult carries.
type RemoveKind int

const (
	// NoChange reports that key was never present; the receiver is left
	// untouched and New is nil, so the caller keeps its existing subtree.
	NoChange RemoveKind = iota
	// Removed reports that key was found and removing it emptied the
	// node entirely (only possible when the node held exactly one key).
	// The caller should treat the slot this subtree occupied as gone.
	Removed
	// Updated reports that key was found, removed, and New is the
	// replacement subtree. Every node below New already satisfies the
	// non-root invariants (steal or merge applied as needed); New itself
	// may hold one key fewer than the minimum, which the parent repairs
	// with rebalanceChild.
	Updated
)

// RemoveResult is the outcome of removing one key from a node.
type RemoveResult[K any, A Value[K, A]] struct {
	Kind RemoveKind
	New  *Node[K, A]
	Old  A
}

// Remove returns the result of removing key from the subtree rooted at
// n. As with Insert, n is never mutated; every node the descent touches
// is cloned before being written to. Rebalancing (steal-from-sibling or
// merge-with-sibling) is applied eagerly on the way back up: each call
// repairs the child it descended into, so every node below an Updated
// result satisfies the minimum-key invariant, while the returned node
// itself may be one key short until its own parent repairs it. When n was
// the tree root and a merge left it with no keys and a single child, the
// root collapses by returning that child directly (see collapseIfEmpty).
func (n *Node[K, A]) Remove(key K) RemoveResult[K, A] {
	if n == nil || len(n.keys) == 0 {
		return RemoveResult[K, A]{Kind: NoChange}
	}
	cow := n.clone()
	p := SearchKey[K, A](cow.keys, key)

	if cow.isLeaf() {
		if !p.Found {
			return RemoveResult[K, A]{Kind: NoChange}
		}
		old := cow.keys[p.Index]
		cow.keys, _ = seq.RemoveAt(cow.keys, p.Index)
		cow.children, _ = seq.RemoveAt(cow.children, p.Index)
		cow.count--
		tracer().Debugf("delete-at %d, %s left", p.Index, cow.String())
		if len(cow.keys) == 0 {
			return RemoveResult[K, A]{Kind: Removed, Old: old}
		}
		return RemoveResult[K, A]{Kind: Updated, Old: old, New: cow}
	}

	if p.Found {
		return cow.removeAtInternal(p.Index)
	}

	// ContinueDown: key isn't at this level, recurse into the child it
	// would live under.
	idx := p.Index
	childResult := cow.children[idx].Remove(key)
	if childResult.Kind == NoChange {
		return RemoveResult[K, A]{Kind: NoChange}
	}
	if childResult.Kind == Removed {
		cow.children[idx] = emptyNode[K, A](cow.fanout)
	} else {
		cow.children[idx] = childResult.New
	}
	cow.rebalanceChild(idx)
	cow.count = len(cow.keys) + sumCounts(cow.children)
	return RemoveResult[K, A]{Kind: Updated, Old: childResult.Old, New: cow.collapseIfEmpty()}
}

// removeAtInternal handles the case where key matches a separator key
// inside an internal node (not a leaf). It is never deleted in place —
// CLRS-style, it is replaced by its predecessor or successor, pulled up
// from whichever adjacent child can spare one without underflowing; if
// neither can, the two children and the separator between them are
// merged into one node (MergeFirst) and the removal re-applied there.
func (n *Node[K, A]) removeAtInternal(idx int) RemoveResult[K, A] {
	old := n.keys[idx]
	minKeys := median(n.fanout)
	left := n.children[idx]
	right := n.children[idx+1]

	switch {
	case len(left.keys) > minKeys:
		predVal, ok := left.Max()
		invariant(ok, "non-empty left child must have a max")
		childResult := left.Remove(predVal.Key())
		n.keys[idx] = predVal
		n.children[idx] = childResultNode(childResult, n.fanout)
		n.count = len(n.keys) + sumCounts(n.children)
		return RemoveResult[K, A]{Kind: Updated, Old: old, New: n.collapseIfEmpty()}

	case len(right.keys) > minKeys:
		succVal, ok := right.Min()
		invariant(ok, "non-empty right child must have a min")
		childResult := right.Remove(succVal.Key())
		n.keys[idx] = succVal
		n.children[idx+1] = childResultNode(childResult, n.fanout)
		n.count = len(n.keys) + sumCounts(n.children)
		return RemoveResult[K, A]{Kind: Updated, Old: old, New: n.collapseIfEmpty()}

	default:
		// Both siblings are exactly at the minimum: a rotation would
		// just move the underflow sideways, so merge them instead.
		// The separator itself (the key being deleted) goes down into
		// the merged node alongside both children's keys -- it isn't
		// retained, it's where the recursive delete below finds it.
		// No probe precedes the merge: the key is known to be this
		// separator. After the merge, the recursive delete is asserted
		// to have found it, which catches an index miscount that would
		// otherwise silently lose a subtree.
		invariant(left.fanout == right.fanout, "siblings must share a fanout")
		merged := mergeNodes[K, A](left, old, right)
		mergedResult := merged.Remove(old.Key())
		invariant(mergedResult.Kind != NoChange, "key just merged in must be found")
		n.children[idx] = childResultNode(mergedResult, n.fanout)
		n.keys, _ = seq.RemoveAt(n.keys, idx)
		n.children, _ = seq.RemoveAt(n.children, idx+1)
		n.count = len(n.keys) + sumCounts(n.children)
		return RemoveResult[K, A]{Kind: Updated, Old: old, New: n.collapseIfEmpty()}
	}
}

// childResultNode unwraps a RemoveResult known to have actually changed
// something (predecessor/successor removal can never report NoChange,
// since the key it targets was just read off that same child).
func childResultNode[K any, A Value[K, A]](r RemoveResult[K, A], fanout int) *Node[K, A] {
	switch r.Kind {
	case Removed:
		return emptyNode[K, A](fanout)
	case Updated:
		return r.New
	default:
		invariant(false, "predecessor/successor removal must change its child")
		return nil
	}
}

// collapseIfEmpty returns n's sole remaining child when a merge has
// pulled n's last key out from under it, so an internal node never
// lingers with zero keys. This is the only place the tree's depth can
// shrink, and it only ever fires on what was the tree root: any other
// node always retains at least one key, because rebalanceChild never
// lets a non-root child underflow without immediately fixing it.
func (n *Node[K, A]) collapseIfEmpty() *Node[K, A] {
	if !n.isLeaf() && len(n.keys) == 0 {
		return n.children[0]
	}
	return n
}

// rebalanceChild restores the minimum-key invariant for children[idx]
// after a removal has shrunk it, by borrowing a key from whichever
// sibling can spare one (a rotation) or, failing that, merging it with
// a sibling. n is the caller's own clone; children[idx] and the sibling
// it borrows from or merges with are cloned here before being mutated,
// since both may still be shared with another tree version.
func (n *Node[K, A]) rebalanceChild(idx int) {
	minKeys := median(n.fanout)
	if !n.children[idx].tooSmall() {
		return
	}
	if idx > 0 && len(n.children[idx-1].keys) > minKeys {
		n.rotateRight(idx)
		return
	}
	if idx < len(n.children)-1 && len(n.children[idx+1].keys) > minKeys {
		n.rotateLeft(idx)
		return
	}
	if idx > 0 {
		n.mergeAt(idx - 1)
		return
	}
	n.mergeAt(idx)
}

// rotateRight moves the last key (and, for internal nodes, last child)
// of children[idx-1] up into this node's separator, and the displaced
// separator down into the front of children[idx] -- borrowing one slot
// rightward to fix an underflow at idx without touching the tree's
// shape anywhere else.
func (n *Node[K, A]) rotateRight(idx int) {
	left := n.children[idx-1].clone()
	child := n.children[idx].clone()

	sep := n.keys[idx-1]
	var lastKey A
	lastKey, left.keys = popBack(left.keys)
	left.count--

	child.keys = seq.PushFront(child.keys, sep)
	child.count++
	if !left.isLeaf() {
		var moved *Node[K, A]
		moved, left.children = popBack(left.children)
		left.count -= lenOf(moved)
		child.children = seq.PushFront(child.children, moved)
		child.count += lenOf(moved)
	}

	n.keys[idx-1] = lastKey
	n.children[idx-1] = left
	n.children[idx] = child
	tracer().Debugf("rotate-right at %d", idx)
}

// rotateLeft is rotateRight's mirror: borrows the first key (and child)
// of children[idx+1] leftward into children[idx].
func (n *Node[K, A]) rotateLeft(idx int) {
	right := n.children[idx+1].clone()
	child := n.children[idx].clone()

	sep := n.keys[idx]
	var firstKey A
	firstKey, right.keys = popFront(right.keys)
	right.count--

	child.keys = seq.PushBack(child.keys, sep)
	child.count++
	if !right.isLeaf() {
		var moved *Node[K, A]
		moved, right.children = popFront(right.children)
		right.count -= lenOf(moved)
		child.children = seq.PushBack(child.children, moved)
		child.count += lenOf(moved)
	}

	n.keys[idx] = firstKey
	n.children[idx] = child
	n.children[idx+1] = right
	tracer().Debugf("rotate-left at %d", idx)
}

// mergeAt folds children[i], keys[i] and children[i+1] into a single
// node left at children[i], removing keys[i] and children[i+1].
func (n *Node[K, A]) mergeAt(i int) {
	merged := mergeNodes[K, A](n.children[i], n.keys[i], n.children[i+1])
	n.children[i] = merged
	n.keys, _ = seq.RemoveAt(n.keys, i)
	n.children, _ = seq.RemoveAt(n.children, i+1)
	tracer().Debugf("merge at %d -> %s", i, merged.String())
}

// mergeNodes concatenates left, the separator between left and right,
// and right into one freshly-built node.
func mergeNodes[K any, A Value[K, A]](left *Node[K, A], sep A, right *Node[K, A]) *Node[K, A] {
	keys := seq.New[A](len(left.keys) + 1 + len(right.keys))
	keys = append(keys, left.keys...)
	keys = append(keys, sep)
	keys = append(keys, right.keys...)

	var children seq.Seq[*Node[K, A]]
	if left.isLeaf() {
		children = seq.New[*Node[K, A]](len(keys) + 1)
		for i := 0; i <= len(keys); i++ {
			children = seq.PushBack(children, (*Node[K, A])(nil))
		}
	} else {
		children = seq.New[*Node[K, A]](len(left.children) + len(right.children))
		children = append(children, left.children...)
		children = append(children, right.children...)
	}

	return &Node[K, A]{
		keys:     keys,
		children: children,
		count:    left.count + right.count + 1,
		fanout:   left.fanout,
	}
}

func emptyNode[K any, A Value[K, A]](fanout int) *Node[K, A] {
	return newEmpty[K, A](fanout)
}

func popBack[T any](s seq.Seq[T]) (T, seq.Seq[T]) {
	rest, v := seq.PopBack(s)
	return v, rest
}

func popFront[T any](s seq.Seq[T]) (T, seq.Seq[T]) {
	rest, v := seq.PopFront(s)
	return v, rest
}

