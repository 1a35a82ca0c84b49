// Copyright 2021 Andrew Archibald. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

// Stats reports byte and count totals produced while building an index.
// It is not part of the on-disk format; it exists purely for progress
// reporting and diagnostics.
type Stats struct {
	NumDocs     uint32
	NumTrigrams uint32

	UniqueSuccessorsBytes uint64
	MatrixBytes           uint64
	DocsBytes             uint64

	PostingsBytes  uint64
	DirectoryBytes uint64
	TotalBytes     uint64

	MinPostingBytes uint64
	MaxPostingBytes uint64
}

func (s *Stats) observePosting(n int) {
	u := uint64(n)
	s.PostingsBytes += u
	if s.NumTrigrams == 0 || u < s.MinPostingBytes {
		s.MinPostingBytes = u
	}
	if u > s.MaxPostingBytes {
		s.MaxPostingBytes = u
	}
	s.NumTrigrams++
}
