package ahocorasick

import "sort"

// frozenTrie is the immutable, packed form of a compiled automaton: a
// handful of parallel arrays rather than a graph of pointer-linked nodes.
type frozenTrie struct {
	nodesCharsOffset []int32
	nodesFailure     []int32
	nodesCharsCount  []int16
	nodesLength      []uint16
	chars            []byte
	indices          []int32
	payloadKeys      []int32
	payloadValues    []int32
	keyCount         int
}

// newFrozenTrie consumes the builder's node arena (already failure-linked)
// and packs it into parallel arrays, preserving arena order.
func newFrozenTrie(a *nodeArena) *frozenTrie {
	n := a.len()
	f := &frozenTrie{
		nodesCharsOffset: make([]int32, n),
		nodesFailure:     make([]int32, n),
		nodesCharsCount:  make([]int16, n),
		nodesLength:      make([]uint16, n),
	}

	for i := 0; i < n; i++ {
		nd := &a.nodes[i]
		f.nodesCharsOffset[i] = int32(len(f.chars))
		f.nodesCharsCount[i] = int16(len(nd.children))
		f.nodesFailure[i] = nd.failure
		f.nodesLength[i] = nd.keyLen
		for _, e := range nd.children {
			f.chars = append(f.chars, e.b)
			f.indices = append(f.indices, e.child)
		}
		if nd.payload != -1 {
			f.payloadKeys = append(f.payloadKeys, int32(i))
			f.payloadValues = append(f.payloadValues, nd.payload)
		}
		if nd.keyLen > 0 {
			f.keyCount++
		}
	}
	return f
}

func (f *frozenTrie) nodeCount() int { return len(f.nodesFailure) }

func (f *frozenTrie) totalChildren() int { return len(f.chars) }

// rawChildAt is the exact, non-augmented lookup: -1 if node i has no child
// on byte b. Used by contains/getPayload and as the base case for the
// failure-chasing loop in find_short/find_longest.
func (f *frozenTrie) rawChildAt(i int32, b byte) int32 {
	off := int(f.nodesCharsOffset[i])
	count := int(f.nodesCharsCount[i])
	sub := f.chars[off : off+count]
	idx := sort.Search(count, func(k int) bool { return sub[k] >= b })
	if idx < count && sub[idx] == b {
		return f.indices[off+idx]
	}
	return -1
}

func (f *frozenTrie) payloadAt(i int32) int32 {
	keys := f.payloadKeys
	idx := sort.Search(len(keys), func(k int) bool { return keys[k] >= i })
	if idx < len(keys) && keys[idx] == i {
		return f.payloadValues[idx]
	}
	return -1
}

// childAt is the root-augmented lookup: the root returns 0 for any byte
// with no real child. findShort and findLongest do not call it; they
// chase failure links with their own loop over rawChildAt.
func (f *frozenTrie) childAt(i int32, b byte) int32 {
	c := f.rawChildAt(i, b)
	if c < 0 && i == 0 {
		return 0
	}
	return c
}

// findShort reports the first match at or after start: the first state
// reached whose key_length is non-zero. Only the reached state itself is
// tested; a key that ends at this position only as a proper suffix of the
// current state (a terminal on its failure chain) is not reported.
func (f *frozenTrie) findShort(text []byte, start int) (matchStart, matchEnd int, payload int32, ok bool) {
	state := int32(0)
	pos := start
	for pos < len(text) {
		b := text[pos]
		st := state
		child := f.rawChildAt(st, b)
		for child < 0 {
			if st == 0 {
				child = 0
				break
			}
			st = f.nodesFailure[st]
			child = f.rawChildAt(st, b)
		}
		state = child
		pos++

		keyLen := int(f.nodesLength[state])
		if keyLen != 0 && keyLen <= pos-start {
			matchEnd = pos
			matchStart = matchEnd - keyLen
			return matchStart, matchEnd, f.payloadAt(state), true
		}
	}
	return 0, 0, 0, false
}

// findLongest reports the longest match reachable by a contiguous run of
// transitions starting at or after start. The held candidate is committed
// as soon as the run can no longer be extended by a real transition, or
// the text ends.
//
// The keyLen <= pos-start bound below is the historical guard: it rejects
// a terminal whose key_length would reach back before this call's start,
// which can only happen if the automaton state was not reset at start.
// Kept deliberately; see TestFindLongFailureLinkMidRun.
func (f *frozenTrie) findLongest(text []byte, start int) (matchStart, matchEnd int, payload int32, ok bool) {
	state := int32(0)
	pos := start
	haveMatch := false
	var bestLen, bestEnd int
	var bestPayload int32

	for pos < len(text) {
		b := text[pos]
		direct := f.rawChildAt(state, b)
		if direct < 0 && haveMatch {
			// A candidate is already held: commit it the instant the
			// direct transition fails, without chasing failure links to
			// see if some shorter suffix state could extend the run.
			break
		}

		st := state
		child := direct
		for child < 0 {
			if st == 0 {
				child = 0
				break
			}
			st = f.nodesFailure[st]
			child = f.rawChildAt(st, b)
		}
		state = child
		pos++

		keyLen := int(f.nodesLength[state])
		if keyLen != 0 && keyLen <= pos-start {
			if keyLen > bestLen {
				bestLen = keyLen
				bestEnd = pos
				bestPayload = f.payloadAt(state)
				haveMatch = true
			}
		}
	}
	if !haveMatch {
		return 0, 0, 0, false
	}
	return bestEnd - bestLen, bestEnd, bestPayload, true
}

// containsRaw and getPayloadRaw walk the trie using the exact byte
// sequence with no failure-link fallback: a missing child anywhere means
// the key was never added.
func (f *frozenTrie) containsRaw(key []byte) bool {
	state := int32(0)
	for _, b := range key {
		state = f.rawChildAt(state, b)
		if state < 0 {
			return false
		}
	}
	return f.nodesLength[state] > 0
}

func (f *frozenTrie) getPayloadRaw(key []byte) (int32, bool) {
	state := int32(0)
	for _, b := range key {
		state = f.rawChildAt(state, b)
		if state < 0 {
			return -1, false
		}
	}
	if f.nodesLength[state] == 0 {
		return -1, false
	}
	return f.payloadAt(state), true
}
