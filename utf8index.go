package ahocorasick

import "sort"

// utf8IndexMap translates byte offsets into a text into code-point
// offsets, so every externally visible match position is reported the
// way a caller would count characters rather than bytes.
type utf8IndexMap struct {
	leading []int // byte positions of every code-point leading byte
}

// newUTF8IndexMap scans text once, recording the position of every byte
// that is not a UTF-8 continuation byte (top two bits != 0b10).
func newUTF8IndexMap(text []byte) *utf8IndexMap {
	m := &utf8IndexMap{leading: make([]int, 0, len(text))}
	for i, b := range text {
		if b&0xC0 != 0x80 {
			m.leading = append(m.leading, i)
		}
	}
	return m
}

// codepointIndex returns the code-point offset corresponding to byteIdx.
// If byteIdx falls inside a multi-byte sequence it resolves to the index
// of the next leading byte, never a continuation byte.
func (m *utf8IndexMap) codepointIndex(byteIdx int) int {
	return sort.Search(len(m.leading), func(i int) bool { return m.leading[i] >= byteIdx })
}
