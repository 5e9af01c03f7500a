//go:build unix

package segment

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps [offset, offset+length) of file read-only, advising the
// kernel that the range will be needed soon (the original implementation's
// Advice::WillNeed on its file-backed segments).
func mmapFile(file *os.File, offset, length uint64) ([]byte, func() error, error) {
	data, err := unix.Mmap(int(file.Fd()), int64(offset), int(length), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	_ = unix.Madvise(data, unix.MADV_WILLNEED)
	return data, func() error { return unix.Munmap(data) }, nil
}

// mmapAnon creates an anonymous, initially-writable mapping of n bytes for
// stream segments to be filled into before publication.
func mmapAnon(n int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	return data, func() error { return unix.Munmap(data) }, nil
}
