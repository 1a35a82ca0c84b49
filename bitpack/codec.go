// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitpack

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrCorruptStream is returned (wrapped) when a decoder hits an
// unexpected EOF or an out-of-range num_bits header byte.
var ErrCorruptStream = errors.New("bitpack: corrupt stream")

// EncodeU32 writes values to w using the unsorted block codec: values are
// split into blocks of BlockLen, each full block preceded by a one-byte
// num_bits header and bit-packed at that width; any 0-127 leftover values
// are written as a varint-encoded tail. It returns the number of bytes
// written.
func EncodeU32(w io.Writer, values []uint32) (int, error) {
	return encode(w, values, false)
}

// EncodeU32Delta is like EncodeU32, but values must be non-decreasing: each
// block is encoded as deltas from the last value of the previous block (0
// for the first), which the decoder reverses with a running prefix sum.
func EncodeU32Delta(w io.Writer, values []uint32) (int, error) {
	return encode(w, values, true)
}

func encode(w io.Writer, values []uint32, delta bool) (int, error) {
	total := 0
	var prev uint32
	packBuf := make([]byte, packedLen(MaxBits))
	blockBuf := make([]uint32, BlockLen)
	hdr := [1]byte{}

	n := len(values)
	i := 0
	for ; i+BlockLen <= n; i += BlockLen {
		block := values[i : i+BlockLen]
		toPack := block
		if delta {
			for j, v := range block {
				blockBuf[j] = v - prev
				prev = v
			}
			toPack = blockBuf
		}
		nb := numBits(toPack)
		hdr[0] = byte(nb)
		if _, err := w.Write(hdr[:]); err != nil {
			return total, err
		}
		total++
		plen := packedLen(nb)
		pack(packBuf[:plen], toPack, nb)
		if _, err := w.Write(packBuf[:plen]); err != nil {
			return total, err
		}
		total += plen
	}

	var vbuf [binary.MaxVarintLen32]byte
	for ; i < n; i++ {
		x := values[i]
		if delta {
			x = values[i] - prev
			prev = values[i]
		}
		m := binary.PutUvarint(vbuf[:], uint64(x))
		if _, err := w.Write(vbuf[:m]); err != nil {
			return total, err
		}
		total += m
	}
	return total, nil
}

// byteReader is the minimal interface decode needs: ReadFull for block
// payloads, ReadByte for varint tails and block headers.
type byteReader interface {
	io.Reader
	io.ByteReader
}

func ensureByteReader(r io.Reader) byteReader {
	if br, ok := r.(byteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// DecodeU32 reads exactly count values written by EncodeU32.
func DecodeU32(r io.Reader, count int) ([]uint32, error) {
	return decode(r, count, false)
}

// DecodeU32Delta reads exactly count values written by EncodeU32Delta.
func DecodeU32Delta(r io.Reader, count int) ([]uint32, error) {
	return decode(r, count, true)
}

func decode(r io.Reader, count int, delta bool) ([]uint32, error) {
	br := ensureByteReader(r)
	out := make([]uint32, 0, count)
	var prev uint32

	remaining := count
	for remaining >= BlockLen {
		nb, err := br.ReadByte()
		if err != nil {
			return nil, corruptf("reading block header: %v", err)
		}
		if int(nb) > MaxBits {
			return nil, corruptf("num_bits %d exceeds %d", nb, MaxBits)
		}
		plen := packedLen(int(nb))
		buf := make([]byte, plen)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, corruptf("reading packed block: %v", err)
		}
		vals := unpack(buf, BlockLen, int(nb))
		if delta {
			for _, d := range vals {
				prev += d
				out = append(out, prev)
			}
		} else {
			out = append(out, vals...)
		}
		remaining -= BlockLen
	}

	for ; remaining > 0; remaining-- {
		x, err := binary.ReadUvarint(br)
		if err != nil {
			return nil, corruptf("reading varint tail: %v", err)
		}
		if delta {
			prev += uint32(x)
			out = append(out, prev)
		} else {
			out = append(out, uint32(x))
		}
	}
	return out, nil
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorruptStream}, args...)...)
}
