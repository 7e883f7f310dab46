package ahocorasick

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hack-pad/hackpadfs"
	hackpadfsos "github.com/hack-pad/hackpadfs/os"
)

// formatMagic is the 2-byte native-endian sentinel at the start of every
// serialized frozen trie.
const formatMagic uint16 = 0xBABB

// writeFrozen dumps f's parallel arrays in native byte order, per the
// on-disk format: a u16 magic followed by each array as a length-prefixed
// blob, in a fixed declared order. Each length prefix is 8 bytes wide on
// every platform, whatever the platform's word size.
func writeFrozen(w io.Writer, f *frozenTrie) error {
	bw := &binWriter{w: w}
	bw.putUint16(formatMagic)
	bw.putInt32Slice(f.nodesCharsOffset)
	bw.putInt32Slice(f.nodesFailure)
	bw.putInt16Slice(f.nodesCharsCount)
	bw.putUint16Slice(f.nodesLength)
	bw.putByteSlice(f.chars)
	bw.putInt32Slice(f.indices)
	bw.putInt32Slice(f.payloadKeys)
	bw.putInt32Slice(f.payloadValues)
	return bw.err
}

type binWriter struct {
	w   io.Writer
	err error
}

func (bw *binWriter) write(p []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(p)
}

func (bw *binWriter) putUint16(v uint16) {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], v)
	bw.write(buf[:])
}

func (bw *binWriter) putUsize(n int) {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], uint64(n))
	bw.write(buf[:])
}

func (bw *binWriter) putByteSlice(s []byte) {
	bw.putUsize(len(s))
	bw.write(s)
}

func (bw *binWriter) putInt32Slice(s []int32) {
	bw.putUsize(len(s))
	buf := make([]byte, 4*len(s))
	for i, v := range s {
		binary.NativeEndian.PutUint32(buf[4*i:], uint32(v))
	}
	bw.write(buf)
}

func (bw *binWriter) putInt16Slice(s []int16) {
	bw.putUsize(len(s))
	buf := make([]byte, 2*len(s))
	for i, v := range s {
		binary.NativeEndian.PutUint16(buf[2*i:], uint16(v))
	}
	bw.write(buf)
}

func (bw *binWriter) putUint16Slice(s []uint16) {
	bw.putUsize(len(s))
	buf := make([]byte, 2*len(s))
	for i, v := range s {
		binary.NativeEndian.PutUint16(buf[2*i:], v)
	}
	bw.write(buf)
}

// readFrozen parses a byte-exact dump produced by writeFrozen, rejecting
// a bad magic or a file whose declared lengths don't exhaust the buffer.
func readFrozen(data []byte) (*frozenTrie, error) {
	br := &binReader{data: data}

	magic := br.uint16()
	if br.err != nil {
		return nil, wrapErr(ErrFormatError, "truncated header", br.err)
	}
	if magic != formatMagic {
		return nil, wrapErr(ErrFormatError, fmt.Sprintf("bad magic: got %#x want %#x", magic, formatMagic), nil)
	}

	f := &frozenTrie{}
	f.nodesCharsOffset = br.int32Slice()
	f.nodesFailure = br.int32Slice()
	f.nodesCharsCount = br.int16Slice()
	f.nodesLength = br.uint16Slice()
	f.chars = br.byteSlice()
	f.indices = br.int32Slice()
	f.payloadKeys = br.int32Slice()
	f.payloadValues = br.int32Slice()
	if br.err != nil {
		return nil, wrapErr(ErrFormatError, "truncated array", br.err)
	}
	if br.pos != len(data) {
		return nil, wrapErr(ErrFormatError, "trailing bytes after last array", nil)
	}
	for _, l := range f.nodesLength {
		if l > 0 {
			f.keyCount++
		}
	}
	return f, nil
}

type binReader struct {
	data []byte
	pos  int
	err  error
}

func (br *binReader) need(n int) []byte {
	if br.err != nil {
		return nil
	}
	if br.pos+n > len(br.data) {
		br.err = io.ErrUnexpectedEOF
		return nil
	}
	p := br.data[br.pos : br.pos+n]
	br.pos += n
	return p
}

func (br *binReader) uint16() uint16 {
	p := br.need(2)
	if p == nil {
		return 0
	}
	return binary.NativeEndian.Uint16(p)
}

func (br *binReader) usize() int {
	p := br.need(8)
	if p == nil {
		return 0
	}
	return int(binary.NativeEndian.Uint64(p))
}

func (br *binReader) byteSlice() []byte {
	n := br.usize()
	p := br.need(n)
	if p == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, p)
	return out
}

func (br *binReader) int32Slice() []int32 {
	n := br.usize()
	p := br.need(4 * n)
	if p == nil {
		return nil
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.NativeEndian.Uint32(p[4*i:]))
	}
	return out
}

func (br *binReader) int16Slice() []int16 {
	n := br.usize()
	p := br.need(2 * n)
	if p == nil {
		return nil
	}
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(binary.NativeEndian.Uint16(p[2*i:]))
	}
	return out
}

func (br *binReader) uint16Slice() []uint16 {
	n := br.usize()
	p := br.need(2 * n)
	if p == nil {
		return nil
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.NativeEndian.Uint16(p[2*i:])
	}
	return out
}

// Write serializes the compiled trie to path on fs. Returns ErrBuildState
// if the trie has not been compiled.
func (t *Trie) Write(fs hackpadfs.FS, path string) error {
	if t.frozen == nil {
		return wrapErr(ErrBuildState, "write before compile", nil)
	}
	var buf bytes.Buffer
	if err := writeFrozen(&buf, t.frozen); err != nil {
		return wrapErr(ErrIoError, "encode frozen trie", err)
	}
	if err := hackpadfs.WriteFullFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return wrapErr(ErrIoError, "write frozen trie file", err)
	}
	return nil
}

// WriteFile is a convenience wrapper around Write for the common case of
// writing to the native, OS-backed filesystem. path may be relative or
// absolute; hackpadfs.FS paths never carry a leading separator, so an
// absolute path is rooted against the OS filesystem root instead.
func (t *Trie) WriteFile(path string) error {
	fs := hackpadfsos.NewFS()
	abs, err := filepath.Abs(path)
	if err != nil {
		return wrapErr(ErrIoError, "resolve path", err)
	}
	return t.Write(fs, strings.TrimPrefix(filepath.ToSlash(abs), "/"))
}
