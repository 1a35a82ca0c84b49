// Copyright 2021 Andrew Archibald. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/andrewarchi/trigramindex/bitpack"
	"github.com/andrewarchi/trigramindex/trigram"
)

// docEntry is one document's contribution to a posting being built: the
// document that contains the trigram, and the set of trigrams observed to
// follow it in that document.
type docEntry struct {
	docID      uint32
	successors map[trigram.Trigram]struct{}
}

// buildPosting computes U, S, D for one trigram's accumulated entries
// (already in ascending DocID order) and serializes the posting header
// followed by the three compressed sub-streams.
func buildPosting(t trigram.Trigram, entries []docEntry) ([]byte, error) {
	unique := uniqueSuccessors(entries)

	var matrix []uint32
	for i, e := range entries {
		local := make([]uint32, 0, len(e.successors))
		for s := range e.successors {
			pos := sort.Search(len(unique), func(j int) bool { return unique[j] >= s.Int() })
			if pos == len(unique) || unique[pos] != s.Int() {
				return nil, fmt.Errorf("index: successor %v not found in unique set for trigram %v", s, t)
			}
			local = append(local, uint32(i)*uint32(len(unique))+uint32(pos))
		}
		sort.Slice(local, func(a, b int) bool { return local[a] < local[b] })
		matrix = append(matrix, local...)
	}

	docs := make([]uint32, len(entries))
	for i, e := range entries {
		docs[i] = e.docID
	}

	var uBuf, sBuf, dBuf bytes.Buffer
	if _, err := bitpack.EncodeU32Delta(&uBuf, unique); err != nil {
		return nil, err
	}
	if _, err := bitpack.EncodeU32Delta(&sBuf, matrix); err != nil {
		return nil, err
	}
	if _, err := bitpack.EncodeU32Delta(&dBuf, docs); err != nil {
		return nil, err
	}

	h := postingHeader{
		uniqueSuccessorsCount: uint32(len(unique)),
		uniqueSuccessorsBytes: uint32(uBuf.Len()),
		matrixCount:           uint32(len(matrix)),
		matrixBytes:           uint32(sBuf.Len()),
		docsCount:             uint32(len(docs)),
		docsBytes:             uint32(dBuf.Len()),
	}
	copy(h.trigram[:], t[:])

	out := make([]byte, 0, postingHeaderSize+uBuf.Len()+sBuf.Len()+dBuf.Len())
	out = append(out, h.marshal()...)
	out = append(out, uBuf.Bytes()...)
	out = append(out, sBuf.Bytes()...)
	out = append(out, dBuf.Bytes()...)
	return out, nil
}

// uniqueSuccessors returns the sorted distinct union, as 24-bit integer
// forms, of every successor trigram across all of a posting's entries.
func uniqueSuccessors(entries []docEntry) []uint32 {
	set := make(map[uint32]struct{})
	for _, e := range entries {
		for s := range e.successors {
			set[s.Int()] = struct{}{}
		}
	}
	unique := make([]uint32, 0, len(set))
	for v := range set {
		unique = append(unique, v)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	return unique
}
