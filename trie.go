// Package ahocorasick implements a multi-pattern substring matcher over
// an Aho-Corasick automaton, in two deployment modes: a mutable Trie that
// compiles a keyword dictionary into an immutable automaton and serves
// queries directly, and a MappedTrie that reconstitutes a previously
// serialized automaton from a memory-mapped file and serves anchored
// queries only.
package ahocorasick

import "math"

// Opts configures a Trie at construction. The zero value is usable and
// selects DefaultAnchorByte.
type Opts struct {
	// AnchorByte is the synthetic boundary marker used by the anchored
	// query family. Defaults to DefaultAnchorByte (0x1F) when zero.
	AnchorByte byte
}

// Trie is both the mutable builder and, once Compile has run, the
// in-memory matcher: the same object before and after compilation, per
// the original design this package follows.
type Trie struct {
	opts   Opts
	arena  *nodeArena
	frozen *frozenTrie
}

// New returns an empty, uncompiled Trie with default options.
func New() *Trie {
	return NewWithOpts(Opts{})
}

// NewWithOpts returns an empty, uncompiled Trie.
func NewWithOpts(opts Opts) *Trie {
	if opts.AnchorByte == 0 {
		opts.AnchorByte = DefaultAnchorByte
	}
	return &Trie{opts: opts, arena: newNodeArena()}
}

// Add inserts key with the given payload. Fails with ErrInvalidInput on
// an empty key, or ErrBuildState if the trie has already been compiled.
func (t *Trie) Add(key []byte, payload int32) error {
	if t.frozen != nil {
		return wrapErr(ErrBuildState, "add after compile", nil)
	}
	if len(key) == 0 {
		return wrapErr(ErrInvalidInput, "empty key", nil)
	}

	state := int32(0)
	a := t.arena
	for _, b := range key {
		child := a.childAt(state, b)
		if child < 0 {
			child = a.addNode()
			a.setChild(state, b, child)
		}
		state = child
	}
	a.nodes[state].payload = payload
	a.nodes[state].keyLen = uint16(len(key))
	return nil
}

// AddInt is Add for callers carrying a native int payload. It is the
// host-binding-layer boundary named in §6/§7.3: a payload outside the
// signed 32-bit range is rejected with ErrNonIntegerPayload rather than
// silently truncated.
func (t *Trie) AddInt(key []byte, payload int) error {
	if payload < math.MinInt32 || payload > math.MaxInt32 {
		return wrapErr(ErrNonIntegerPayload, "payload does not fit in int32", nil)
	}
	return t.Add(key, int32(payload))
}

// Compile builds failure links and freezes the trie into its packed
// representation. Idempotent: calling it twice is equivalent to calling
// it once.
func (t *Trie) Compile() error {
	if t.frozen != nil {
		return nil
	}
	buildFailureLinks(t.arena)
	t.frozen = newFrozenTrie(t.arena)
	t.arena = nil
	return nil
}

func (t *Trie) requireCompiled() error {
	if t.frozen == nil {
		return wrapErr(ErrBuildState, "operation requires a compiled trie", nil)
	}
	return nil
}

// Contains reports whether key was added before compile.
func (t *Trie) Contains(key []byte) (bool, error) {
	if err := t.requireCompiled(); err != nil {
		return false, err
	}
	return t.frozen.containsRaw(key), nil
}

// GetPayload returns the payload stored for key, and whether key exists.
func (t *Trie) GetPayload(key []byte) (int32, bool, error) {
	if err := t.requireCompiled(); err != nil {
		return 0, false, err
	}
	p, ok := t.frozen.getPayloadRaw(key)
	return p, ok, nil
}

// FindShort returns the first match in text, or ok=false if none.
func (t *Trie) FindShort(text []byte) (m Match, ok bool, err error) {
	if err = t.requireCompiled(); err != nil {
		return Match{}, false, err
	}
	s, e, p, found := t.frozen.findShort(text, 0)
	if !found {
		return Match{}, false, nil
	}
	idx := newUTF8IndexMap(text)
	return Match{Start: idx.codepointIndex(s), End: idx.codepointIndex(e), Payload: p}, true, nil
}

// FindLong returns the longest match in text, or ok=false if none.
func (t *Trie) FindLong(text []byte) (m Match, ok bool, err error) {
	if err = t.requireCompiled(); err != nil {
		return Match{}, false, err
	}
	s, e, p, found := t.frozen.findLongest(text, 0)
	if !found {
		return Match{}, false, nil
	}
	idx := newUTF8IndexMap(text)
	return Match{Start: idx.codepointIndex(s), End: idx.codepointIndex(e), Payload: p}, true, nil
}

// FindAllShort returns an iterator over non-overlapping first-matches.
func (t *Trie) FindAllShort(text []byte) (*MatchIterator, error) {
	if err := t.requireCompiled(); err != nil {
		return nil, err
	}
	return newShortLongIterator(t.frozen, text, false), nil
}

// FindAllLong returns an iterator over non-overlapping longest-matches.
func (t *Trie) FindAllLong(text []byte) (*MatchIterator, error) {
	if err := t.requireCompiled(); err != nil {
		return nil, err
	}
	return newShortLongIterator(t.frozen, text, true), nil
}

// FindAllAnchored returns an iterator over anchored matches using this
// trie's configured anchor byte (DefaultAnchorByte unless overridden).
func (t *Trie) FindAllAnchored(text []byte) (*MatchIterator, error) {
	return t.FindAllAnchoredByte(text, t.opts.AnchorByte)
}

// FindAllAnchoredByte is FindAllAnchored with an explicit anchor byte.
func (t *Trie) FindAllAnchoredByte(text []byte, anchor byte) (*MatchIterator, error) {
	if err := t.requireCompiled(); err != nil {
		return nil, err
	}
	return newAnchoredIterator(t.frozen, text, anchor), nil
}

// NodeCount, KeyCount and TotalChildren are introspection counts,
// available both before and after compile.
func (t *Trie) NodeCount() int {
	if t.frozen != nil {
		return t.frozen.nodeCount()
	}
	return t.arena.len()
}

func (t *Trie) KeyCount() int {
	if t.frozen != nil {
		return t.frozen.keyCount
	}
	n := 0
	for _, nd := range t.arena.nodes {
		if nd.keyLen > 0 {
			n++
		}
	}
	return n
}

func (t *Trie) TotalChildren() int {
	if t.frozen != nil {
		return t.frozen.totalChildren()
	}
	return t.arena.totalChildren()
}
