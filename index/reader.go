// Copyright 2021 Andrew Archibald. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/andrewarchi/trigramindex/bitpack"
	"github.com/andrewarchi/trigramindex/section"
	"github.com/andrewarchi/trigramindex/trigram"
)

// Index is an opened, read-only view of a built index file. It holds the
// trigram directory and posting-ends table in memory; posting bodies are
// read from the underlying Source on demand, one posting per query.
//
// An Index has no mutable state once opened and may serve concurrent
// queries so long as its Source's ReadAt does.
type Index struct {
	src       Source
	numDocs   uint32
	postings  section.Section[FileSpace]
	directory []trigram.Trigram // sorted, parallel to ends
	ends      []uint64          // cumulative end offset of posting i, relative to postings region
}

// NumDocs reports the number of documents recorded in the footer.
func (idx *Index) NumDocs() uint32 { return idx.numDocs }

// Open parses src's footer, trigram directory, and posting-ends table and
// returns a ready-to-query Index. It reads only those small tables;
// posting bodies are left on src until a query needs them.
func Open(src Source) (*Index, error) {
	if src.Len() < headerSize {
		return nil, fmt.Errorf("%w: file is %d bytes, shorter than the %d-byte footer", ErrCorruptHeader, src.Len(), headerSize)
	}

	buf := make([]byte, headerSize)
	if _, err := readFull(src, buf, src.Len()-headerSize); err != nil {
		return nil, fmt.Errorf("index: read footer: %w", err)
	}
	h, err := unmarshalHeader(buf)
	if err != nil {
		return nil, err
	}
	if int64(h.trigramPostings.Offset+h.trigramPostings.Len) > src.Len() ||
		int64(h.uniqueTrigrams.Offset+h.uniqueTrigrams.Len) > src.Len() ||
		int64(h.trigramPostingEnds.Offset+h.trigramPostingEnds.Len) > src.Len() {
		return nil, fmt.Errorf("%w: section extends past end of file", ErrCorruptHeader)
	}

	n := int(h.uniqueTrigrams.Len / 3)
	dirBuf := make([]byte, h.uniqueTrigrams.Len)
	if _, err := readFull(src, dirBuf, int64(h.uniqueTrigrams.Offset)); err != nil {
		return nil, fmt.Errorf("index: read trigram directory: %w", err)
	}
	directory := make([]trigram.Trigram, n)
	for i := 0; i < n; i++ {
		copy(directory[i][:], dirBuf[3*i:3*i+3])
		if i > 0 && !directory[i-1].Less(directory[i]) {
			return nil, fmt.Errorf("%w: trigram directory is not strictly sorted at index %d", ErrCorruptHeader, i)
		}
	}

	endsBuf := make([]byte, h.trigramPostingEnds.Len)
	if _, err := readFull(src, endsBuf, int64(h.trigramPostingEnds.Offset)); err != nil {
		return nil, fmt.Errorf("index: read posting-ends table: %w", err)
	}
	ends := make([]uint64, n)
	for i := 0; i < n; i++ {
		ends[i] = binary.LittleEndian.Uint64(endsBuf[8*i : 8*i+8])
	}

	return &Index{
		src:       src,
		numDocs:   h.numDocs,
		postings:  h.trigramPostings,
		directory: directory,
		ends:      ends,
	}, nil
}

func readFull(src Source, buf []byte, off int64) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := src.ReadAt(buf[total:], off+int64(total))
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, fmt.Errorf("%w: short read", ErrCorruptHeader)
		}
	}
	return total, nil
}

// Candidates resolves query to the set of DocIDs that may contain it. A
// query shorter than 3 bytes cannot be resolved against any posting, so
// every DocID is returned; the caller must brute-force scan in that case.
// A miss on the leading trigram, or a hit on it with an unindexed
// remainder, yields an empty (nil) slice and no error. The result never
// contains a duplicate DocID.
//
// Queries longer than 6 bytes are filtered only on their first 6 bytes
// (Plan C, per the format's single-successor matrix); the caller must
// verify matches found this way against the remaining query bytes.
func (idx *Index) Candidates(query []byte) ([]uint32, error) {
	if len(query) < 3 {
		all := make([]uint32, idx.numDocs)
		for i := range all {
			all[i] = uint32(i)
		}
		return all, nil
	}

	var lead trigram.Trigram
	copy(lead[:], query[:3])
	k := sort.Search(len(idx.directory), func(i int) bool { return !idx.directory[i].Less(lead) })
	if k == len(idx.directory) || idx.directory[k] != lead {
		return nil, nil
	}

	start := uint64(0)
	if k > 0 {
		start = idx.ends[k-1]
	}
	end := idx.ends[k]

	ph, uBytes, sBytes, dBytes, err := idx.readPosting(start, end)
	if err != nil {
		return nil, err
	}
	if trigram.Trigram(ph.trigram) != lead {
		return nil, fmt.Errorf("%w: posting %d trigram %x does not match directory entry %x", ErrCorruptHeader, k, ph.trigram, lead)
	}

	docs, err := bitpack.DecodeU32Delta(bytes.NewReader(dBytes), int(ph.docsCount))
	if err != nil {
		return nil, err
	}

	remainder := query[3:]
	if len(remainder) == 0 {
		return docs, nil
	}

	unique, err := bitpack.DecodeU32Delta(bytes.NewReader(uBytes), int(ph.uniqueSuccessorsCount))
	if err != nil {
		return nil, err
	}

	var lo, hi int
	if len(remainder) >= 3 {
		target := trigram.Trigram{remainder[0], remainder[1], remainder[2]}.Int()
		pos := sort.Search(len(unique), func(i int) bool { return unique[i] >= target })
		if pos == len(unique) || unique[pos] != target {
			return nil, nil
		}
		lo, hi = pos, pos+1
	} else {
		shift := uint((3 - len(remainder)) * 8)
		var prefix uint32
		for _, b := range remainder {
			prefix = prefix<<8 | uint32(b)
		}
		lo = sort.Search(len(unique), func(i int) bool { return (unique[i] >> shift) >= prefix })
		hi = sort.Search(len(unique), func(i int) bool { return (unique[i] >> shift) > prefix })
	}
	if lo == hi {
		return nil, nil
	}

	matrix, err := bitpack.DecodeU32Delta(bytes.NewReader(sBytes), int(ph.matrixCount))
	if err != nil {
		return nil, err
	}

	width := uint32(len(unique))
	var result []uint32
	lastDocIdx := -1
	for _, v := range matrix {
		docIdx := int(v / width)
		succIdx := int(v % width)
		if succIdx < lo || succIdx >= hi {
			continue
		}
		if docIdx == lastDocIdx {
			continue
		}
		lastDocIdx = docIdx
		result = append(result, docs[docIdx])
	}
	return result, nil
}

// readPosting reads the posting occupying [start, end) of the postings
// region and splits it into its header and three compressed sub-streams.
func (idx *Index) readPosting(start, end uint64) (*postingHeader, []byte, []byte, []byte, error) {
	length := end - start
	if length < postingHeaderSize {
		return nil, nil, nil, nil, fmt.Errorf("%w: posting shorter than its header", ErrCorruptHeader)
	}
	buf := make([]byte, length)
	if _, err := readFull(idx.src, buf, int64(idx.postings.Offset+start)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("index: read posting: %w", err)
	}
	ph, err := unmarshalPostingHeader(buf[:postingHeaderSize])
	if err != nil {
		return nil, nil, nil, nil, err
	}
	want := uint64(postingHeaderSize) + uint64(ph.uniqueSuccessorsBytes) + uint64(ph.matrixBytes) + uint64(ph.docsBytes)
	if want != length {
		return nil, nil, nil, nil, fmt.Errorf("%w: posting declares %d bytes, region is %d", ErrCorruptHeader, want, length)
	}
	body := buf[postingHeaderSize:]
	uBytes := body[:ph.uniqueSuccessorsBytes]
	sBytes := body[ph.uniqueSuccessorsBytes : ph.uniqueSuccessorsBytes+ph.matrixBytes]
	dBytes := body[ph.uniqueSuccessorsBytes+ph.matrixBytes:]
	return ph, uBytes, sBytes, dBytes, nil
}
