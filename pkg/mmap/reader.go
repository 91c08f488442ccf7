// Package mmap maps files into memory for zero-copy reads.
//
// A Reader hands out slices that alias the mapped region. The slices are
// valid only until Close; callers that retain bytes past Close must copy
// them first.
package mmap

import (
	"os"

	"github.com/ajitpratap0/prism/pkg/errors"
)

// Reader is a read-only memory mapping of one file.
type Reader struct {
	file     *os.File
	data     []byte
	size     int64
	pageSize int
}

// Open maps the file at path read-only and advises the kernel of
// sequential access. Empty files cannot be mapped.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file for mapping").
			WithDetail("path", path)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to stat file for mapping").
			WithDetail("path", path)
	}
	size := stat.Size()
	if size == 0 {
		f.Close()
		return nil, errors.New(errors.ErrorTypeFile, "cannot map empty file").
			WithDetail("path", path)
	}

	data, err := mmap(int(f.Fd()), 0, int(size), protRead, mapShared)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to map file").
			WithDetail("path", path)
	}
	// Advisory; the mapping behaves the same if the kernel ignores it.
	_ = madvise(data, madvSequential)

	return &Reader{
		file:     f,
		data:     data,
		size:     size,
		pageSize: os.Getpagesize(),
	}, nil
}

// Bytes returns the full mapped contents. The slice aliases the mapping.
func (r *Reader) Bytes() []byte {
	return r.data
}

// Size returns the mapped file size in bytes.
func (r *Reader) Size() int64 {
	return r.size
}

// ReadRange returns the mapped bytes in [offset, offset+length), clamped
// to the file size. The slice aliases the mapping.
func (r *Reader) ReadRange(offset, length int64) ([]byte, error) {
	if offset < 0 || offset > r.size {
		return nil, errors.Newf(errors.ErrorTypeOutOfBounds,
			"offset %d out of range [0, %d]", offset, r.size)
	}
	if length < 0 {
		return nil, errors.Newf(errors.ErrorTypeOutOfBounds, "negative length %d", length)
	}
	end := offset + length
	if end > r.size {
		end = r.size
	}
	return r.data[offset:end], nil
}

// Prefetch asks the kernel to fault in the pages covering
// [offset, offset+length) ahead of use. Best effort.
func (r *Reader) Prefetch(offset, length int64) {
	if r.data == nil || length <= 0 {
		return
	}
	// madvise wants page-aligned addresses; the mapping itself starts on
	// a page boundary.
	start := (offset / int64(r.pageSize)) * int64(r.pageSize)
	end := offset + length
	if start < 0 {
		start = 0
	}
	if end > r.size {
		end = r.size
	}
	if end <= start {
		return
	}
	_ = madvise(r.data[start:end], madvWillneed)
}

// Close unmaps the file and closes it. Slices handed out earlier are
// invalid afterwards. Close is a no-op on a closed Reader.
func (r *Reader) Close() error {
	var err error
	if r.data != nil {
		err = munmap(r.data)
		r.data = nil
	}
	if r.file != nil {
		if closeErr := r.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		r.file = nil
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to unmap file")
	}
	return nil
}
