// Copyright 2021 Andrew Archibald. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTestIndex(t *testing.T, docs ...string) *Index {
	t.Helper()
	b := NewBuilder()
	for _, d := range docs {
		if _, err := b.AddDoc([]byte(d)); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if _, err := b.Build(&buf); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	ix, err := Open(NewSource(bytes.NewReader(data), int64(len(data))))
	if err != nil {
		t.Fatal(err)
	}
	return ix
}

func sortedCopy(ids []uint32) []uint32 {
	out := append([]uint32(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestBuildThenOpen(t *testing.T) {
	require := require.New(t)
	ix := buildTestIndex(t, "test string 1", "test string 2", "abracadabra")
	require.EqualValues(3, ix.NumDocs())
	for i := 1; i < len(ix.directory); i++ {
		require.True(ix.directory[i-1].Less(ix.directory[i]), "directory not sorted at %d", i)
	}
}

// Scenarios S1-S6 from the testable-properties scenario table.
func TestScenarios(t *testing.T) {
	cases := []struct {
		name  string
		docs  []string
		query string
		want  []uint32
	}{
		{"S1", []string{"test string 1", "test string 2", "abracadabra"}, "string", []uint32{0, 1}},
		{"S2", []string{"test string 1", "test string 2", "abracadabra"}, "str", []uint32{0, 1}},
		{"S3", []string{"test string 1", "test string 2", "abracadabra"}, "abr", []uint32{2}},
		{"S4", []string{"test string 1", "test string 2", "abracadabra"}, "zzz", nil},
		{"S5", []string{"abc", "xabcx"}, "abc", []uint32{0, 1}},
		{"S6", []string{"hello world"}, "ll", []uint32{0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require := require.New(t)
			ix := buildTestIndex(t, c.docs...)
			got, err := ix.Candidates([]byte(c.query))
			require.NoError(err)
			require.ElementsMatch(c.want, sortedCopy(got))
		})
	}
}

func TestEmptyDocumentYieldsOnlySentinelKeys(t *testing.T) {
	require := require.New(t)
	ix := buildTestIndex(t, "")
	require.EqualValues(1, ix.NumDocs())
	got, err := ix.Candidates([]byte("abc"))
	require.NoError(err)
	require.Empty(got)
}

func TestShortDocuments(t *testing.T) {
	require := require.New(t)
	ix := buildTestIndex(t, "a", "ab")
	require.EqualValues(2, ix.NumDocs())
	got, err := ix.Candidates([]byte("abc"))
	require.NoError(err)
	require.Empty(got)
}

func TestSingleSentinelByteDocument(t *testing.T) {
	require := require.New(t)
	ix := buildTestIndex(t, string([]byte{0xFF}))
	require.EqualValues(1, ix.NumDocs())
}

func TestShortQueryReturnsAllDocs(t *testing.T) {
	require := require.New(t)
	ix := buildTestIndex(t, "hello world", "goodbye world")
	got, err := ix.Candidates([]byte("ll"))
	require.NoError(err)
	require.ElementsMatch([]uint32{0, 1}, sortedCopy(got))
}

func TestMissingTrigramIsEmptyNotError(t *testing.T) {
	require := require.New(t)
	ix := buildTestIndex(t, "hello")
	got, err := ix.Candidates([]byte("xyz"))
	require.NoError(err)
	require.Empty(got)
}

func TestNoDuplicateDocIDs(t *testing.T) {
	require := require.New(t)
	ix := buildTestIndex(t, "abcabcabc", "xabcx", "abc")
	got, err := ix.Candidates([]byte("abc"))
	require.NoError(err)
	seen := make(map[uint32]bool)
	for _, id := range got {
		require.False(seen[id], "duplicate DocID %d in result", id)
		seen[id] = true
	}
	require.ElementsMatch([]uint32{0, 1, 2}, sortedCopy(got))
}

// Substring candidate soundness: every substring of length 3-6 of a
// document must surface that document's ID, per the Plan C approximation
// boundary noted in the package's Candidates doc comment.
func TestSubstringSoundness(t *testing.T) {
	require := require.New(t)
	docs := []string{
		"the quick brown fox jumps over the lazy dog",
		"pack my box with five dozen liquor jugs",
		"abracadabra",
	}
	ix := buildTestIndex(t, docs...)
	for docID, d := range docs {
		for length := 3; length <= 6 && length <= len(d); length++ {
			for start := 0; start+length <= len(d); start++ {
				q := d[start : start+length]
				got, err := ix.Candidates([]byte(q))
				require.NoError(err)
				require.Contains(sortedCopy(got), uint32(docID), "query %q missed doc %d", q, docID)
			}
		}
	}
}

func TestPlanBPrefixQueries(t *testing.T) {
	require := require.New(t)
	ix := buildTestIndex(t, "abcdef", "abcxyz")
	got, err := ix.Candidates([]byte("abcd"))
	require.NoError(err)
	require.ElementsMatch([]uint32{0}, sortedCopy(got))

	got, err = ix.Candidates([]byte("abcx"))
	require.NoError(err)
	require.ElementsMatch([]uint32{1}, sortedCopy(got))

	got, err = ix.Candidates([]byte("abcq"))
	require.NoError(err)
	require.Empty(got)
}
