// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bitpack implements the fixed-width bit-packing scheme used to
// store blocks of 32-bit integers compactly: each value in a block takes
// exactly numBits bits, packed contiguously starting from the low bit of
// the first byte.
package bitpack

import "math/bits"

// BlockLen is the number of values packed into one full block. It is part
// of the on-disk format and must never change.
const BlockLen = 128

// MaxBits is the largest per-value bit width a block header can express.
const MaxBits = 32

// numBits returns the number of bits needed to represent the largest value
// in block, 0 if block is empty or all zero.
func numBits(block []uint32) int {
	var max uint32
	for _, v := range block {
		if v > max {
			max = v
		}
	}
	return bits.Len32(max)
}

// packedLen returns the number of bytes produced by packing BlockLen values
// at numBits bits each.
func packedLen(numBits int) int {
	return numBits * BlockLen / 8
}

// pack writes len(values) values, each numBits wide, into dst starting at
// its low bit. dst must have at least packedLen(numBits) bytes of capacity
// for a full block; for partial use (callers never do: packing only ever
// happens on full BlockLen-sized blocks) the caller is responsible for
// sizing dst.
func pack(dst []byte, values []uint32, numBits int) {
	if numBits == 0 {
		return
	}
	var bitBuf uint64
	var bitCount uint
	pos := 0
	mask := uint64(1)<<uint(numBits) - 1
	for _, v := range values {
		bitBuf |= (uint64(v) & mask) << bitCount
		bitCount += uint(numBits)
		for bitCount >= 8 {
			dst[pos] = byte(bitBuf)
			bitBuf >>= 8
			bitCount -= 8
			pos++
		}
	}
	if bitCount > 0 {
		dst[pos] = byte(bitBuf)
	}
}

// unpack reads n values, each numBits wide, from src and returns them.
func unpack(src []byte, n int, numBits int) []uint32 {
	values := make([]uint32, n)
	if numBits == 0 {
		return values
	}
	var bitBuf uint64
	var bitCount uint
	pos := 0
	mask := uint64(1)<<uint(numBits) - 1
	for i := 0; i < n; i++ {
		for bitCount < uint(numBits) {
			bitBuf |= uint64(src[pos]) << bitCount
			bitCount += 8
			pos++
		}
		values[i] = uint32(bitBuf & mask)
		bitBuf >>= uint(numBits)
		bitCount -= uint(numBits)
	}
	return values
}
