package pbtree

import (
	"fmt"
	"strings"

	tp "github.com/xlab/treeprint"

	"pbtree/internal/seq"
)

// B is the default node fanout (the reference value the spec this was
// built from uses). Must be even; see NewWithFanout for a configurable
// tree. M is the corresponding median index: the minimum key count for
// any non-root node, and the split point.
const (
	B = 64
	M = (B + 1) / 2
)

// Node is a balanced B-tree node: either a leaf (all child slots empty)
// or an internal node (all child slots populated), never a mix of the
// two. A Node created through this package's constructors and operations
// always satisfies the B-tree invariants (strictly ordered keys, one more
// child slot than keys, at least M keys in every non-root node, all leaves
// at the same depth, and an exact count); callers should not construct one
// by hand outside of tests.
type Node[K any, A Value[K, A]] struct {
	count    int
	keys     seq.Seq[A]
	children seq.Seq[*Node[K, A]]
	fanout   int // B for this subtree; propagated from the owning tree
}

func median(fanout int) int { return (fanout + 1) / 2 }

// New returns an empty node (no keys, one empty — i.e. nil — child slot),
// usable as an empty tree of fanout B.
func New[K any, A Value[K, A]]() *Node[K, A] {
	return newEmpty[K, A](B)
}

// NewWithFanout returns an empty node using fanout b instead of the
// default B. b must be even and at least 4; an odd or too-small fanout is
// a caller bug, not a recoverable condition, so it panics.
func NewWithFanout[K any, A Value[K, A]](b int) *Node[K, A] {
	invariant(b >= 4 && b%2 == 0, "fanout must be even and >= 4, got %d", b)
	return newEmpty[K, A](b)
}

func newEmpty[K any, A Value[K, A]](fanout int) *Node[K, A] {
	return &Node[K, A]{
		keys:     seq.New[A](0),
		children: seq.Of[*Node[K, A]](nil),
		fanout:   fanout,
	}
}

// Unit returns a node holding exactly one value and two empty child slots,
// using the default fanout B.
func Unit[K any, A Value[K, A]](v A) *Node[K, A] {
	return unitWithFanout[K, A](v, B)
}

// unitWithFanout is Unit for a caller-chosen fanout. Insert uses it on an
// empty node so that the first value of a tree built with NewWithFanout
// keeps that fanout instead of falling back to B.
func unitWithFanout[K any, A Value[K, A]](v A, fanout int) *Node[K, A] {
	return &Node[K, A]{
		count:    1,
		keys:     seq.Of(v),
		children: seq.Of[*Node[K, A]](nil, nil),
		fanout:   fanout,
	}
}

// FromSplit builds a new parent from a median value and the two nodes a
// split produced either side of it — the shape a tree owner uses to grow
// its root by one level after a top-level Split result.
func FromSplit[K any, A Value[K, A]](left *Node[K, A], med A, right *Node[K, A]) *Node[K, A] {
	return &Node[K, A]{
		count:    left.count + right.count + 1,
		keys:     seq.Of(med),
		children: seq.Of(left, right),
		fanout:   left.fanout,
	}
}

// Len returns the number of values reachable in the subtree rooted here.
func (n *Node[K, A]) Len() int {
	if n == nil {
		return 0
	}
	return n.count
}

func lenOf[K any, A Value[K, A]](n *Node[K, A]) int {
	if n == nil {
		return 0
	}
	return n.count
}

func (n *Node[K, A]) isLeaf() bool {
	return n.children[0] == nil
}

func (n *Node[K, A]) hasRoom() bool {
	return len(n.keys) < n.fanout
}

func (n *Node[K, A]) tooSmall() bool {
	return len(n.keys) < median(n.fanout)
}

// Min returns the smallest value in the subtree, if any.
func (n *Node[K, A]) Min() (A, bool) {
	var zero A
	if n == nil || len(n.keys) == 0 {
		return zero, false
	}
	node := n
	for !node.isLeaf() {
		node = node.children[0]
	}
	return node.keys[0], true
}

// Max returns the largest value in the subtree, if any.
func (n *Node[K, A]) Max() (A, bool) {
	var zero A
	if n == nil || len(n.keys) == 0 {
		return zero, false
	}
	node := n
	for !node.isLeaf() {
		node = node.children[len(node.children)-1]
	}
	return node.keys[len(node.keys)-1], true
}

// Lookup returns the element matching key, if present.
func (n *Node[K, A]) Lookup(key K) (A, bool) {
	var zero A
	if n == nil || len(n.keys) == 0 {
		return zero, false
	}
	switch p := SearchKey[K, A](n.keys, key); {
	case p.Found:
		return n.keys[p.Index], true
	default:
		child := n.children[p.Index]
		if child == nil {
			return zero, false
		}
		return child.Lookup(key)
	}
}

// LookupMut returns a new persistent root (with make-unique applied along
// the descent path to key) together with a pointer into the key slice of
// the cloned node holding key, which the caller may write through. If key
// is absent the original root is returned unchanged and the pointer is
// nil.
//
// This differs from the reference design's &mut self shape: Go has no
// notion of borrowing a mutable path out of an otherwise-immutable tree,
// so the mutation is expressed the same way every other mutating
// operation in this package is — return the new root.
func (n *Node[K, A]) LookupMut(key K) (*Node[K, A], *A) {
	if n == nil || len(n.keys) == 0 {
		return n, nil
	}
	cow := n.clone()
	switch p := SearchKey[K, A](cow.keys, key); {
	case p.Found:
		return cow, &cow.keys[p.Index]
	default:
		child := cow.children[p.Index]
		if child == nil {
			return n, nil
		}
		newChild, slot := child.LookupMut(key)
		if slot == nil {
			return n, nil
		}
		cow.children[p.Index] = newChild
		return cow, slot
	}
}

// clone returns a shallow copy of n: its own keys/children arrays are
// freshly allocated (so the caller may mutate them), but the children
// slice still points at the same shared sub-nodes n did. This is the
// make-unique primitive every mutating descent applies before writing to
// a node; see SPEC_FULL.md §5.1 for why it clones unconditionally rather
// than checking a refcount.
func (n *Node[K, A]) clone() *Node[K, A] {
	return &Node[K, A]{
		count:    n.count,
		keys:     seq.Clone(n.keys),
		children: seq.Clone(n.children),
		fanout:   n.fanout,
	}
}

// String renders a one-line summary of this node's own keys (not its
// subtree), in the teacher's "[k0,k1,...]" style, used by DebugTree.
func (n *Node[K, A]) String() string {
	if n == nil || len(n.keys) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, k := range n.keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%v", k.Key())
	}
	sb.WriteByte(']')
	return sb.String()
}

// DebugTree renders the whole subtree as an indented tree diagram, one
// line per node, each labelled with its own String(). Meant for test
// output and ad-hoc debugging, not for parsing.
func (n *Node[K, A]) DebugTree() string {
	p := tp.New()
	ppt(p, n)
	return p.String()
}

func ppt[K any, A Value[K, A]](p tp.Tree, n *Node[K, A]) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		p.AddNode(n.String())
		return
	}
	branch := p.AddBranch(n.String())
	for _, ch := range n.children {
		ppt(branch, ch)
	}
}

func invariant(cond bool, msg string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("pbtree: "+msg, args...))
	}
}
