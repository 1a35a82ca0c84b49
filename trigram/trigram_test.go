// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trigram

import (
	"math/rand"
	"sort"
	"testing"
)

func TestIntRoundTrip(t *testing.T) {
	cases := []Trigram{{0, 0, 0}, {255, 255, 255}, {1, 2, 3}, {'f', 'o', 'o'}}
	for _, tr := range cases {
		if got := FromInt(tr.Int()); got != tr {
			t.Errorf("FromInt(%v.Int()) = %v, want %v", tr, got, tr)
		}
	}
}

func TestIntPreservesOrder(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	trigrams := make([]Trigram, 500)
	for i := range trigrams {
		trigrams[i] = Trigram{byte(r.Intn(256)), byte(r.Intn(256)), byte(r.Intn(256))}
	}
	byBytes := append([]Trigram(nil), trigrams...)
	sort.Slice(byBytes, func(i, j int) bool {
		return byBytes[i][0] < byBytes[j][0] ||
			(byBytes[i][0] == byBytes[j][0] && byBytes[i][1] < byBytes[j][1]) ||
			(byBytes[i][0] == byBytes[j][0] && byBytes[i][1] == byBytes[j][1] && byBytes[i][2] < byBytes[j][2])
	})
	byInt := append([]Trigram(nil), trigrams...)
	sort.Slice(byInt, func(i, j int) bool { return byInt[i].Less(byInt[j]) })

	for i := range byBytes {
		if byBytes[i] != byInt[i] {
			t.Fatalf("order mismatch at %d: byte-sort %v, int-sort %v", i, byBytes[i], byInt[i])
		}
	}
}
