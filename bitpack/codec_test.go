// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitpack

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestU32RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 5, 127, 128, 129, 256, 257, 1000} {
		values := randomU32(n, 1<<24)
		var buf bytes.Buffer
		written, err := EncodeU32(&buf, values)
		require.NoError(t, err)
		require.Equal(t, buf.Len(), written)

		got, err := DecodeU32(&buf, n)
		require.NoError(t, err)
		require.Equal(t, values, got)
	}
}

func TestU32DeltaRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 5, 127, 128, 129, 256, 257, 1000} {
		values := sortedU32(n, 1<<24)
		var buf bytes.Buffer
		written, err := EncodeU32Delta(&buf, values)
		require.NoError(t, err)
		require.Equal(t, buf.Len(), written)

		got, err := DecodeU32Delta(&buf, n)
		require.NoError(t, err)
		require.Equal(t, values, got)
	}
}

func TestU32AllZero(t *testing.T) {
	values := make([]uint32, 200)
	var buf bytes.Buffer
	_, err := EncodeU32(&buf, values)
	require.NoError(t, err)
	got, err := DecodeU32(&buf, len(values))
	require.NoError(t, err)
	require.Equal(t, values, got)
}

func TestU32DeltaConstant(t *testing.T) {
	values := make([]uint32, 300)
	for i := range values {
		values[i] = 42
	}
	var buf bytes.Buffer
	_, err := EncodeU32Delta(&buf, values)
	require.NoError(t, err)
	got, err := DecodeU32Delta(&buf, len(values))
	require.NoError(t, err)
	require.Equal(t, values, got)
}

func TestU32MaxValue(t *testing.T) {
	values := make([]uint32, 128)
	for i := range values {
		values[i] = 0xFFFFFFFF
	}
	var buf bytes.Buffer
	_, err := EncodeU32(&buf, values)
	require.NoError(t, err)
	got, err := DecodeU32(&buf, len(values))
	require.NoError(t, err)
	require.Equal(t, values, got)
}

func TestDecodeCorruptNumBits(t *testing.T) {
	buf := bytes.NewBuffer([]byte{33}) // > MaxBits
	_, err := DecodeU32(buf, 128)
	require.ErrorIs(t, err, ErrCorruptStream)
}

func TestDecodeUnexpectedEOF(t *testing.T) {
	var buf bytes.Buffer
	_, err := EncodeU32(&buf, randomU32(128, 1<<20))
	require.NoError(t, err)
	truncated := buf.Bytes()[:buf.Len()-1]
	_, err = DecodeU32(bytes.NewReader(truncated), 128)
	require.ErrorIs(t, err, ErrCorruptStream)
}

func randomU32(n int, max uint32) []uint32 {
	r := rand.New(rand.NewSource(int64(n)*7 + int64(max)))
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(r.Int63n(int64(max)))
	}
	return out
}

func sortedU32(n int, max uint32) []uint32 {
	out := randomU32(n, max)
	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1] {
			out[i] = out[i-1]
		}
	}
	return out
}
