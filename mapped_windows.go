//go:build windows

package ahocorasick

// mmapFile is not implemented on Windows; the Mapped Trie's read path is
// native-OS-specific by design (see §4.3's portability contract) and this
// platform's mapping syscalls were not ported.
func mmapFile(path string) (data []byte, closeFn func() error, err error) {
	return nil, nil, wrapErr(ErrIoError, "memory mapping not supported on this platform", nil)
}
