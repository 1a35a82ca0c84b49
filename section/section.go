// Copyright 2021 Andrew Archibald. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package section implements typed byte-range offsets, so that an offset
// computed relative to one region of a file can't accidentally be used as
// if it were relative to another.
package section

import "fmt"

// Section describes a byte range (Offset, Len) expressed in the coordinate
// space named by the Space type parameter. Space carries no data; it only
// keeps the compiler from mixing up Sections that belong to different
// frames of reference (e.g. an offset into the whole file versus an offset
// into one posting's body).
type Section[Space any] struct {
	Offset uint64
	Len    uint64
}

// New constructs a Section directly from an offset and length already
// known to be in Space's coordinate system.
func New[Space any](offset, length uint64) Section[Space] {
	return Section[Space]{Offset: offset, Len: length}
}

// End returns Offset+Len.
func (s Section[Space]) End() uint64 {
	return s.Offset + s.Len
}

// Narrow maps child, expressed relative to s (child.Offset is an offset
// from the start of s, not from the start of Space), into an absolute
// Section in Space. It fails if child does not fit entirely within s.
func (s Section[Space]) Narrow(child Section[Space]) (Section[Space], error) {
	if child.Offset+child.Len > s.Len {
		return Section[Space]{}, fmt.Errorf("section: child range [%d,%d) does not fit in parent of length %d", child.Offset, child.Offset+child.Len, s.Len)
	}
	return Section[Space]{Offset: s.Offset + child.Offset, Len: child.Len}, nil
}
