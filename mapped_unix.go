//go:build unix

package ahocorasick

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps path read-only into memory and returns the raw bytes
// together with a close function that unmaps and closes the descriptor.
// Any error during mapping leaves nothing acquired.
func mmapFile(path string) (data []byte, closeFn func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, wrapErr(ErrIoError, "open mapped trie file", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, wrapErr(ErrIoError, "stat mapped trie file", err)
	}
	size := info.Size()
	if size == 0 {
		f.Close()
		return nil, nil, wrapErr(ErrFormatError, "empty mapped trie file", nil)
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, nil, wrapErr(ErrIoError, "mmap trie file", err)
	}

	closed := false
	closeFn = func() error {
		if closed {
			return nil
		}
		closed = true
		uerr := unix.Munmap(mapped)
		cerr := f.Close()
		if uerr != nil {
			return uerr
		}
		return cerr
	}
	return mapped, closeFn, nil
}
