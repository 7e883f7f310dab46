package ahocorasick

import "sort"

// edge is one (byte, child index) pair in a node's sorted child list.
type edge struct {
	b     byte
	child int32
}

// buildNode is a single node in the mutable builder trie. Children are kept
// sorted by byte at all times so BFS visits children in deterministic order
// and lookups are a binary search rather than a linear scan.
type buildNode struct {
	children []edge
	failure  int32
	payload  int32 // -1 means no payload
	keyLen   uint16
}

// nodeArena is the append-only container of builder nodes, indexed by a
// small integer rather than a pointer. Node 0 is always the root.
type nodeArena struct {
	nodes []buildNode
}

func newNodeArena() *nodeArena {
	a := &nodeArena{nodes: make([]buildNode, 0, 16)}
	a.nodes = append(a.nodes, buildNode{payload: -1})
	return a
}

func (a *nodeArena) len() int { return len(a.nodes) }

func (a *nodeArena) addNode() int32 {
	a.nodes = append(a.nodes, buildNode{payload: -1})
	return int32(len(a.nodes) - 1)
}

// childAt returns the child reached by byte b from node i, or -1 if none.
// This is the "raw" lookup used by add/contains/get_payload; the root's
// failure-link-terminating augmentation lives in failure.go, not here.
func (a *nodeArena) childAt(i int32, b byte) int32 {
	children := a.nodes[i].children
	idx := sort.Search(len(children), func(k int) bool { return children[k].b >= b })
	if idx < len(children) && children[idx].b == b {
		return children[idx].child
	}
	return -1
}

// setChild inserts or overwrites the edge for byte b from node i, keeping
// children sorted by byte.
func (a *nodeArena) setChild(i int32, b byte, child int32) {
	children := a.nodes[i].children
	idx := sort.Search(len(children), func(k int) bool { return children[k].b >= b })
	if idx < len(children) && children[idx].b == b {
		children[idx].child = child
		return
	}
	children = append(children, edge{})
	copy(children[idx+1:], children[idx:])
	children[idx] = edge{b: b, child: child}
	a.nodes[i].children = children
}

func (a *nodeArena) totalChildren() int {
	n := 0
	for _, nd := range a.nodes {
		n += len(nd.children)
	}
	return n
}
