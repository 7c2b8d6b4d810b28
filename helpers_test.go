package pbtree

// kv is the Value implementation every test in this package inserts:
// an int key with a string payload, ordered by key alone. Using a
// payload distinct from the key lets diff tests exercise Update events
// (same key, different payload) rather than only Add/Remove.
type kv struct {
	k int
	v string
}

func (p kv) Key() int                { return p.k }
func (p kv) CompareKey(key int) int  { return p.k - key }
func (p kv) CompareTo(other kv) int  { return p.k - other.k }

func pair(k int, v string) kv { return kv{k: k, v: v} }

// rootFromInsert applies the bookkeeping a tree owner is responsible
// for: when Insert reports Split, grow the root by one level with
// FromSplit; otherwise the new root is just whatever Insert returned.
func rootFromInsert(r InsertResult[int, kv]) *Node[int, kv] {
	if r.Kind == Split {
		return FromSplit(r.Left, r.Median, r.Right)
	}
	return r.New
}

// rootFromRemove applies the owner-side bookkeeping for Remove: NoChange
// keeps the existing root, Removed means the root's last key was just
// deleted (collapse to an empty tree), Updated is the new root.
func rootFromRemove(root *Node[int, kv], r RemoveResult[int, kv]) *Node[int, kv] {
	switch r.Kind {
	case NoChange:
		return root
	case Removed:
		return emptyNode[int, kv](root.fanout)
	default:
		return r.New
	}
}

func insertAll(root *Node[int, kv], pairs ...kv) *Node[int, kv] {
	for _, p := range pairs {
		root = rootFromInsert(root.Insert(p))
	}
	return root
}

func removeAll(root *Node[int, kv], keys ...int) *Node[int, kv] {
	for _, k := range keys {
		root = rootFromRemove(root, root.Remove(k))
	}
	return root
}

func collectForward(root *Node[int, kv]) []kv {
	it := NewIter[int, kv](root)
	var out []kv
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

func collectBackward(root *Node[int, kv]) []kv {
	it := NewIter[int, kv](root)
	var out []kv
	for {
		v, ok := it.NextBack()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

// checkInvariants walks the whole subtree and fails the test if any of
// the structural invariants this package promises are violated:
// key ordering, child count, non-root minimum occupancy, uniform leaf
// depth, and a consistent count field.
func checkInvariants(t interface{ Helper(); Fatalf(string, ...any); Errorf(string, ...any) }, root *Node[int, kv], isRoot bool) int {
	t.Helper()
	if root == nil || len(root.keys) == 0 {
		return 0
	}
	if !root.isLeaf() && len(root.children) != len(root.keys)+1 {
		t.Errorf("node %s has %d children but %d keys", root.String(), len(root.children), len(root.keys))
	}
	for i := 1; i < len(root.keys); i++ {
		if root.keys[i-1].CompareTo(root.keys[i]) >= 0 {
			t.Errorf("keys out of order in %s", root.String())
		}
	}
	if !isRoot && root.tooSmall() {
		t.Errorf("non-root node %s has only %d keys, below median %d", root.String(), len(root.keys), median(root.fanout))
	}
	total := len(root.keys)
	if !root.isLeaf() {
		wantDepth := depthOf(root.children[0])
		for i, ch := range root.children {
			if ch == nil {
				t.Errorf("internal node %s has a nil child at %d", root.String(), i)
				continue
			}
			if d := depthOf(ch); d != wantDepth {
				t.Errorf("node %s: child %d has depth %d, child 0 has depth %d", root.String(), i, d, wantDepth)
			}
			total += checkInvariants(t, ch, false)
		}
	}
	if root.count != total {
		t.Errorf("node %s has count %d, counted %d", root.String(), root.count, total)
	}
	return total
}
