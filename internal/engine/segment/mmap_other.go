//go:build !unix

package segment

import "os"

// mmapFile falls back to a buffered read on platforms without a POSIX mmap
// (the engine is documented as assuming append-only file semantics either
// way, so a plain copy preserves the same observable behavior here).
func mmapFile(file *os.File, offset, length uint64) ([]byte, func() error, error) {
	buf := make([]byte, length)
	if _, err := file.ReadAt(buf, int64(offset)); err != nil {
		return nil, nil, err
	}
	return buf, func() error { return nil }, nil
}

func mmapAnon(n int) ([]byte, func() error, error) {
	return make([]byte, n), func() error { return nil }, nil
}
