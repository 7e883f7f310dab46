package ahocorasick

// Match is one non-overlapping result from a MatchIterator, with
// positions reported as code-point offsets (§6's External Interfaces:
// "All externally reported start/end are code-point offsets").
type Match struct {
	Start, End int
	Payload    int32
}

// MatchIterator wraps a frozen or mapped trie, the byte buffer under
// inspection, and a UTF-8 index map built once at construction. It is
// not restartable; a fresh iterator is constructed per scan.
type MatchIterator struct {
	idx    *utf8IndexMap
	cursor int
	step   func(start int) (matchStart, matchEnd int, payload int32, ok bool)
	done   bool
}

// Next returns the next match, or nil when the scan is exhausted.
func (it *MatchIterator) Next() *Match {
	if it.done {
		return nil
	}
	s, e, p, ok := it.step(it.cursor)
	if !ok {
		it.done = true
		return nil
	}
	it.cursor = e
	return &Match{
		Start:   it.idx.codepointIndex(s),
		End:     it.idx.codepointIndex(e),
		Payload: p,
	}
}

func newShortLongIterator(f *frozenTrie, text []byte, long bool) *MatchIterator {
	step := f.findShort
	if long {
		step = f.findLongest
	}
	return &MatchIterator{
		idx:  newUTF8IndexMap(text),
		step: func(start int) (int, int, int32, bool) { return step(text, start) },
	}
}

func newAnchoredIterator(v trieView, text []byte, anchor byte) *MatchIterator {
	return &MatchIterator{
		idx:  newUTF8IndexMap(text),
		step: func(start int) (int, int, int32, bool) { return findAnchored(v, text, start, anchor) },
	}
}
