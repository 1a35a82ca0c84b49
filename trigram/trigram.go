// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trigram implements the Trigram type and the document-to-postings
// extraction that underlies the index.
package trigram

import "fmt"

// Sentinel is the byte used to pad synthetic trigrams at document ends. It
// must never appear in real document content; callers indexing binary data
// are responsible for escaping or choosing a different convention upstream.
const Sentinel = 0xFF

// Trigram is an ordered triple of bytes.
type Trigram [3]byte

// Int packs t into its 24-bit integer form, big-endian: b0<<16 | b1<<8 | b2.
// This packing preserves lexicographic order.
func (t Trigram) Int() uint32 {
	return uint32(t[0])<<16 | uint32(t[1])<<8 | uint32(t[2])
}

// FromInt is the inverse of Int. Only the low 24 bits of v are used.
func FromInt(v uint32) Trigram {
	return Trigram{byte(v >> 16), byte(v >> 8), byte(v)}
}

func (t Trigram) String() string {
	return fmt.Sprintf("%02x%02x%02x", t[0], t[1], t[2])
}

// Less reports whether t sorts before o. Because Int preserves
// lexicographic order, this agrees with comparing the two triples
// byte-by-byte.
func (t Trigram) Less(o Trigram) bool {
	return t.Int() < o.Int()
}
