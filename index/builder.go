// Copyright 2021 Andrew Archibald. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package index implements the on-disk trigram postings index: accumulating
// documents into postings (Builder), and opening a built index to resolve
// substring queries to candidate documents (Index).
package index

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/andrewarchi/trigramindex/section"
	"github.com/andrewarchi/trigramindex/trigram"
)

// Builder accumulates documents and serializes them into a finished index
// file. The zero value is ready to use. A Builder is not safe for
// concurrent use; add_doc is specified as synchronous and single-threaded.
type Builder struct {
	combined map[trigram.Trigram][]docEntry
	numDocs  uint32
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{combined: make(map[trigram.Trigram][]docEntry)}
}

// AddDoc extracts trigrams from content and folds them into the builder's
// accumulated postings under a freshly allocated DocID. The returned ID is
// dense, starting at 0, in the order documents are added.
//
// Idempotence is not guaranteed across repeated calls with identical
// content: each call allocates a new DocID regardless of whether content
// was seen before. Callers own document identity.
func (b *Builder) AddDoc(content []byte) (uint32, error) {
	if b.combined == nil {
		b.combined = make(map[trigram.Trigram][]docEntry)
	}
	if b.numDocs == math.MaxUint32 {
		return 0, ErrTooManyDocs
	}
	docID := b.numDocs
	b.numDocs++

	for t, succ := range trigram.Extract(content) {
		b.combined[t] = append(b.combined[t], docEntry{docID: docID, successors: succ})
	}
	return docID, nil
}

// Build serializes all accumulated postings to w in the layout documented
// in the package's format.go: postings region, trigram directory,
// posting-ends table, then the fixed-size footer. It returns per-component
// statistics as a by-product; Stats is not part of the on-disk format.
func (b *Builder) Build(w io.Writer) (Stats, error) {
	trigrams := make([]trigram.Trigram, 0, len(b.combined))
	for t := range b.combined {
		trigrams = append(trigrams, t)
	}
	sort.Slice(trigrams, func(i, j int) bool { return trigrams[i].Less(trigrams[j]) })

	var stats Stats
	stats.NumDocs = b.numDocs

	var postingsLen uint64
	ends := make([]uint64, 0, len(trigrams))
	dir := make([]byte, 0, 3*len(trigrams))

	for _, t := range trigrams {
		entries := b.combined[t]
		sort.Slice(entries, func(i, j int) bool { return entries[i].docID < entries[j].docID })

		data, err := buildPosting(t, entries)
		if err != nil {
			return stats, err
		}
		if _, err := w.Write(data); err != nil {
			return stats, fmt.Errorf("index: write posting for %v: %w", t, err)
		}
		stats.observePosting(len(data))
		ph, err := unmarshalPostingHeader(data[:postingHeaderSize])
		if err != nil {
			return stats, err
		}
		stats.UniqueSuccessorsBytes += uint64(ph.uniqueSuccessorsBytes)
		stats.MatrixBytes += uint64(ph.matrixBytes)
		stats.DocsBytes += uint64(ph.docsBytes)
		postingsLen += uint64(len(data))
		ends = append(ends, postingsLen)
		dir = append(dir, t[0], t[1], t[2])
	}

	if _, err := w.Write(dir); err != nil {
		return stats, fmt.Errorf("index: write trigram directory: %w", err)
	}

	endsBuf := make([]byte, 8*len(ends))
	for i, e := range ends {
		binary.LittleEndian.PutUint64(endsBuf[8*i:8*i+8], e)
	}
	if _, err := w.Write(endsBuf); err != nil {
		return stats, fmt.Errorf("index: write posting-ends table: %w", err)
	}

	h := indexHeader{
		numDocs:            b.numDocs,
		trigramPostings:    section.New[FileSpace](0, postingsLen),
		uniqueTrigrams:     section.New[FileSpace](postingsLen, uint64(len(dir))),
		trigramPostingEnds: section.New[FileSpace](postingsLen+uint64(len(dir)), uint64(len(endsBuf))),
	}
	if _, err := w.Write(h.marshal()); err != nil {
		return stats, fmt.Errorf("index: write footer: %w", err)
	}

	stats.DirectoryBytes = uint64(len(dir)) + uint64(len(endsBuf))
	stats.TotalBytes = postingsLen + stats.DirectoryBytes + headerSize
	return stats, nil
}
