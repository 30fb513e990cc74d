package occfile

import (
	"fmt"
	"io"
)

// memFile is a tiny in-memory stand-in for *os.File: it implements the same
// ReaderAt/WriterAt pair Map's backend interface needs, growing its buffer
// on writes past the current end exactly like a real file would. Rejected
// alternative: github.com/orcaman/writerseeker, which only exposes
// sequential Write+Seek, not the random-access WriteAt this format needs
// for branch-slot patching.
type memFile struct {
	buf []byte
}

func (f *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("memFile: negative offset %d", off)
	}
	if off >= int64(len(f.buf)) {
		return 0, io.EOF
	}
	n := copy(p, f.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *memFile) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("memFile: negative offset %d", off)
	}
	end := off + int64(len(p))
	if end > int64(len(f.buf)) {
		grown := make([]byte, end)
		copy(grown, f.buf)
		f.buf = grown
	}
	n := copy(f.buf[off:end], p)
	return n, nil
}

func (f *memFile) Close() error { return nil }
