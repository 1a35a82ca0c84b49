// Copyright 2021 Andrew Archibald. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"encoding/binary"
	"fmt"

	"github.com/andrewarchi/trigramindex/section"
)

// FileSpace tags a Section as an absolute byte range within the index
// file. PostingsSpace tags a Section as a byte range relative to the start
// of the postings region.
type FileSpace struct{}
type PostingsSpace struct{}

// headerSize is the fixed size, in bytes, of the footer at the end of
// every index file: num_docs (4) plus 3 Sections of (offset u64, len u64).
const headerSize = 4 + 3*16

// postingHeaderSize is the fixed size, in bytes, of the header that
// precedes each posting's compressed sub-streams: trigram (3) plus 6
// uint32 fields.
const postingHeaderSize = 3 + 6*4

// indexHeader is the 52-byte footer written at the very end of the file.
type indexHeader struct {
	numDocs            uint32
	trigramPostings    section.Section[FileSpace]
	uniqueTrigrams     section.Section[FileSpace]
	trigramPostingEnds section.Section[FileSpace]
}

func (h *indexHeader) marshal() []byte {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.numDocs)
	putSection(buf[4:20], h.trigramPostings)
	putSection(buf[20:36], h.uniqueTrigrams)
	putSection(buf[36:52], h.trigramPostingEnds)
	return buf
}

func unmarshalHeader(buf []byte) (*indexHeader, error) {
	if len(buf) != headerSize {
		return nil, fmt.Errorf("%w: footer is %d bytes, want %d", ErrCorruptHeader, len(buf), headerSize)
	}
	h := &indexHeader{
		numDocs:            binary.LittleEndian.Uint32(buf[0:4]),
		trigramPostings:    getSection[FileSpace](buf[4:20]),
		uniqueTrigrams:     getSection[FileSpace](buf[20:36]),
		trigramPostingEnds: getSection[FileSpace](buf[36:52]),
	}
	if h.uniqueTrigrams.Len%3 != 0 {
		return nil, fmt.Errorf("%w: unique_trigrams length %d not a multiple of 3", ErrCorruptHeader, h.uniqueTrigrams.Len)
	}
	if h.trigramPostingEnds.Len%8 != 0 {
		return nil, fmt.Errorf("%w: trigram_posting_ends length %d not a multiple of 8", ErrCorruptHeader, h.trigramPostingEnds.Len)
	}
	if h.uniqueTrigrams.Len/3 != h.trigramPostingEnds.Len/8 {
		return nil, fmt.Errorf("%w: unique_trigrams has %d entries, trigram_posting_ends has %d", ErrCorruptHeader, h.uniqueTrigrams.Len/3, h.trigramPostingEnds.Len/8)
	}
	return h, nil
}

func putSection[S any](buf []byte, s section.Section[S]) {
	binary.LittleEndian.PutUint64(buf[0:8], s.Offset)
	binary.LittleEndian.PutUint64(buf[8:16], s.Len)
}

func getSection[S any](buf []byte) section.Section[S] {
	return section.New[S](binary.LittleEndian.Uint64(buf[0:8]), binary.LittleEndian.Uint64(buf[8:16]))
}

// postingHeader precedes each posting's three compressed sub-streams
// (unique successors U, matrix S, unique docs D) in that order.
type postingHeader struct {
	trigram                [3]byte
	uniqueSuccessorsCount  uint32
	uniqueSuccessorsBytes  uint32
	matrixCount            uint32
	matrixBytes            uint32
	docsCount              uint32
	docsBytes              uint32
}

func (h *postingHeader) marshal() []byte {
	buf := make([]byte, postingHeaderSize)
	copy(buf[0:3], h.trigram[:])
	binary.LittleEndian.PutUint32(buf[3:7], h.uniqueSuccessorsCount)
	binary.LittleEndian.PutUint32(buf[7:11], h.uniqueSuccessorsBytes)
	binary.LittleEndian.PutUint32(buf[11:15], h.matrixCount)
	binary.LittleEndian.PutUint32(buf[15:19], h.matrixBytes)
	binary.LittleEndian.PutUint32(buf[19:23], h.docsCount)
	binary.LittleEndian.PutUint32(buf[23:27], h.docsBytes)
	return buf
}

func unmarshalPostingHeader(buf []byte) (*postingHeader, error) {
	if len(buf) != postingHeaderSize {
		return nil, fmt.Errorf("%w: posting header is %d bytes, want %d", ErrCorruptHeader, len(buf), postingHeaderSize)
	}
	h := &postingHeader{
		uniqueSuccessorsCount: binary.LittleEndian.Uint32(buf[3:7]),
		uniqueSuccessorsBytes: binary.LittleEndian.Uint32(buf[7:11]),
		matrixCount:           binary.LittleEndian.Uint32(buf[11:15]),
		matrixBytes:           binary.LittleEndian.Uint32(buf[15:19]),
		docsCount:             binary.LittleEndian.Uint32(buf[19:23]),
		docsBytes:             binary.LittleEndian.Uint32(buf[23:27]),
	}
	copy(h.trigram[:], buf[0:3])
	return h, nil
}
