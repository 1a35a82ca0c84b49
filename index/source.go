// Copyright 2021 Andrew Archibald. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"io"
	"os"
)

// Source is the random-access reader an Index is opened over: it must
// support positional reads and report its total length. A Source need not
// be safe for concurrent ReadAt calls from multiple goroutines unless the
// caller's queries are expected to run concurrently; the memory-mapped and
// plain-file implementations here both are.
type Source interface {
	io.ReaderAt
	Len() int64
}

// readerAtSource adapts any io.ReaderAt of known length into a Source. It
// is most useful in tests, where the built index lives in a bytes.Reader.
type readerAtSource struct {
	r    io.ReaderAt
	size int64
}

// NewSource wraps r, whose total length is size, as a Source.
func NewSource(r io.ReaderAt, size int64) Source {
	return &readerAtSource{r: r, size: size}
}

func (s *readerAtSource) ReadAt(p []byte, off int64) (int, error) { return s.r.ReadAt(p, off) }
func (s *readerAtSource) Len() int64                              { return s.size }

// mmapData is a read-only memory-mapped view of a file's contents,
// populated by the platform-specific mmapFile in mmap_*.go.
type mmapData struct {
	f *os.File
	d []byte
}

func (m *mmapData) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m.d)) {
		return 0, io.EOF
	}
	n := copy(p, m.d[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *mmapData) Len() int64 { return int64(len(m.d)) }

// Close releases the file handle backing the mapping. The mapping itself
// is left for the OS to reclaim at process exit, matching how short-lived
// CLI processes use this package; long-running servers that open and
// close many indexes should prefer OpenFile instead.
func (m *mmapData) Close() error { return m.f.Close() }

// MmapSource is a Source backed by a read-only memory mapping, opened with
// OpenMmap. This is the fast path for large indexes: queries read directly
// from the kernel page cache with no copy into a Go-managed buffer.
type MmapSource = mmapData

// OpenMmap memory-maps path read-only and returns a Source backed by it.
func OpenMmap(path string) (*MmapSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := mmapFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return m, nil
}

// fileSource is a Source backed by ordinary positional file reads, used
// where mmap is unavailable or undesirable (e.g. network filesystems).
type fileSource struct {
	f    *os.File
	size int64
}

// FileSource is a Source backed by ordinary positional file reads, opened
// with OpenFile.
type FileSource = fileSource

// OpenFile opens path for positional reads and returns a Source backed by
// it. Closing the returned value also closes the underlying file.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileSource{f: f, size: st.Size()}, nil
}

func (s *fileSource) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }
func (s *fileSource) Len() int64                              { return s.size }
func (s *fileSource) Close() error                            { return s.f.Close() }
