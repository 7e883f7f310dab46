package ahocorasick

import (
	"encoding/binary"
	"fmt"
)

// mappedArrays is a zero-copy view over a memory-mapped frozen trie file:
// it records byte offsets and element counts for each parallel array
// rather than copying them, per §4.3's "minimal heap allocation" goal.
type mappedArrays struct {
	data []byte

	nodesCharsOffsetOff, nodesCount int
	nodesFailureOff                 int
	nodesCharsCountOff              int
	nodesLengthOff                  int
	charsOff, charsLen              int
	indicesOff                      int
	payloadKeysOff, payloadCount    int
	payloadValuesOff                int
}

func parseMappedHeader(data []byte) (*mappedArrays, error) {
	br := &binReader{data: data}

	magic := br.uint16()
	if br.err != nil {
		return nil, wrapErr(ErrFormatError, "truncated header", br.err)
	}
	if magic != formatMagic {
		return nil, wrapErr(ErrFormatError, fmt.Sprintf("bad magic: got %#x want %#x", magic, formatMagic), nil)
	}

	m := &mappedArrays{data: data}

	m.nodesCount = br.usize()
	m.nodesCharsOffsetOff = br.pos
	br.need(4 * m.nodesCount)

	n2 := br.usize()
	m.nodesFailureOff = br.pos
	br.need(4 * n2)

	n3 := br.usize()
	m.nodesCharsCountOff = br.pos
	br.need(2 * n3)

	n4 := br.usize()
	m.nodesLengthOff = br.pos
	br.need(2 * n4)

	m.charsLen = br.usize()
	m.charsOff = br.pos
	br.need(m.charsLen)

	nIdx := br.usize()
	m.indicesOff = br.pos
	br.need(4 * nIdx)

	m.payloadCount = br.usize()
	m.payloadKeysOff = br.pos
	br.need(4 * m.payloadCount)

	nPV := br.usize()
	m.payloadValuesOff = br.pos
	br.need(4 * nPV)

	if br.err != nil {
		return nil, wrapErr(ErrFormatError, "truncated array", br.err)
	}
	if n2 != m.nodesCount || n3 != m.nodesCount || n4 != m.nodesCount {
		return nil, wrapErr(ErrFormatError, "node array length mismatch", nil)
	}
	if nIdx != m.charsLen {
		return nil, wrapErr(ErrFormatError, "chars/indices length mismatch", nil)
	}
	if nPV != m.payloadCount {
		return nil, wrapErr(ErrFormatError, "payload table length mismatch", nil)
	}
	if br.pos != len(data) {
		return nil, wrapErr(ErrFormatError, "trailing bytes after last array", nil)
	}
	return m, nil
}

func (m *mappedArrays) checkNode(i int32) error {
	if i < 0 || int(i) >= m.nodesCount {
		return wrapErr(ErrOutOfRange, fmt.Sprintf("node index %d out of range [0,%d)", i, m.nodesCount), nil)
	}
	return nil
}

func (m *mappedArrays) nodesCharsOffsetAt(i int32) int32 {
	return int32(binary.NativeEndian.Uint32(m.data[m.nodesCharsOffsetOff+4*int(i):]))
}

func (m *mappedArrays) nodesFailureAt(i int32) int32 {
	return int32(binary.NativeEndian.Uint32(m.data[m.nodesFailureOff+4*int(i):]))
}

func (m *mappedArrays) nodesCharsCountAt(i int32) int16 {
	return int16(binary.NativeEndian.Uint16(m.data[m.nodesCharsCountOff+2*int(i):]))
}

func (m *mappedArrays) nodesLengthAt(i int32) uint16 {
	return binary.NativeEndian.Uint16(m.data[m.nodesLengthOff+2*int(i):])
}

func (m *mappedArrays) charAt(pos int32) byte {
	return m.data[m.charsOff+int(pos)]
}

func (m *mappedArrays) indexAt(pos int32) int32 {
	return int32(binary.NativeEndian.Uint32(m.data[m.indicesOff+4*int(pos):]))
}

func (m *mappedArrays) payloadKeyAt(i int) int32 {
	return int32(binary.NativeEndian.Uint32(m.data[m.payloadKeysOff+4*i:]))
}

func (m *mappedArrays) payloadValueAt(i int) int32 {
	return int32(binary.NativeEndian.Uint32(m.data[m.payloadValuesOff+4*i:]))
}

// rawChildAt is a bounds-checked binary search over node i's child-byte
// sub-range, mirroring frozenTrie.rawChildAt but reading straight out of
// the mapped region.
func (m *mappedArrays) rawChildAt(i int32, b byte) int32 {
	if err := m.checkNode(i); err != nil {
		return -1
	}
	off := m.nodesCharsOffsetAt(i)
	count := int(m.nodesCharsCountAt(i))
	lo, hi := 0, count
	for lo < hi {
		mid := (lo + hi) / 2
		if m.charAt(off+int32(mid)) < b {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < count && m.charAt(off+int32(lo)) == b {
		return m.indexAt(off + int32(lo))
	}
	return -1
}

func (m *mappedArrays) keyLengthAt(i int32) uint16 {
	if err := m.checkNode(i); err != nil {
		return 0
	}
	return m.nodesLengthAt(i)
}

func (m *mappedArrays) payloadAt(i int32) int32 {
	lo, hi := 0, m.payloadCount
	for lo < hi {
		mid := (lo + hi) / 2
		if m.payloadKeyAt(mid) < i {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < m.payloadCount && m.payloadKeyAt(lo) == i {
		return m.payloadValueAt(lo)
	}
	return -1
}

// MappedTrie reconstitutes a frozen trie's layout from a file mapped
// read-only into memory. It answers find_anchored only (§4.3's
// rationale: find_short/find_longest's correctness is established at
// compile time and the on-disk consumer path is intentionally narrow).
type MappedTrie struct {
	arrays  *mappedArrays
	closeFn func() error
	closed  bool
}

// OpenMapped opens and maps path read-only, verifying the format header.
// On any error, resources already acquired are released before
// returning.
func OpenMapped(path string) (*MappedTrie, error) {
	data, closeFn, err := mmapFile(path)
	if err != nil {
		return nil, err
	}
	arrays, err := parseMappedHeader(data)
	if err != nil {
		closeFn()
		return nil, err
	}
	return &MappedTrie{arrays: arrays, closeFn: closeFn}, nil
}

// Close unmaps the file and closes its descriptor. Idempotent.
func (mt *MappedTrie) Close() error {
	if mt.closed {
		return nil
	}
	mt.closed = true
	return mt.closeFn()
}

// NodeCount returns the number of nodes in the mapped automaton. A
// freshly compiled trie with zero keys still has one node (the root).
func (mt *MappedTrie) NodeCount() int { return mt.arrays.nodesCount }

// FindAllAnchored returns an iterator over non-overlapping anchored
// matches using DefaultAnchorByte.
func (mt *MappedTrie) FindAllAnchored(text []byte) *MatchIterator {
	return mt.FindAllAnchoredByte(text, DefaultAnchorByte)
}

// FindAllAnchoredByte is FindAllAnchored with an explicit anchor byte.
func (mt *MappedTrie) FindAllAnchoredByte(text []byte, anchor byte) *MatchIterator {
	return newAnchoredIterator(mt.arrays, text, anchor)
}
