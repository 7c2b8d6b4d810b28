/*
Package pbtree implements the core of a persistent (immutable,
structurally-shared) B-tree: node-level search, copy-on-write insert with
split propagation, remove with steal/merge rebalancing, bidirectional
iteration, and a structural diff between two versions of a tree.

Mutation never touches a node observably reachable from another tree
version: every node on a mutating descent path is cloned before being
written to, and everything the descent doesn't visit is shared by
reference with whatever version it came from.

The package deliberately stops at the node algorithm. Building an ordered
map or set, hashing and equality adapters, and any cross-goroutine
synchronization are a caller's concern.
*/
package pbtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer selects the trace sink for node-level mutation: search, insert,
// split, remove, steal and merge.
func tracer() tracing.Trace {
	return tracing.Select("pbtree.node")
}

// iterTracer selects the trace sink for Iter/ConsumingIter traversal.
func iterTracer() tracing.Trace {
	return tracing.Select("pbtree.iter")
}

// diffTracer selects the trace sink for DiffIter traversal.
func diffTracer() tracing.Trace {
	return tracing.Select("pbtree.diff")
}
