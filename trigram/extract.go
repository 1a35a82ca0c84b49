// Copyright 2021 Andrew Archibald. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trigram

// Extract returns, for every trigram present in content, the set of
// trigrams observed immediately following it anywhere in content. Overlapping
// windows are used: for content of length n, a trigram exists at every
// position i in [0, n-3].
//
// Document-end padding. Three bytes past the end of content are treated as
// Sentinel, so the trigrams nearest the end of a short document get a
// synthetic successor instead of running off the edge. Those
// document-boundary trigrams are also always present as keys (with a
// possibly-empty successor set), so a query for the literal last three
// bytes of a document still finds it even when nothing ever follows them.
// A zero-length document contributes only the fully-sentinel boundary key,
// so that even an empty document is representable as a key in the result.
func Extract(content []byte) map[Trigram]map[Trigram]struct{} {
	n := len(content)
	res := make(map[Trigram]map[Trigram]struct{})

	ensureKey(res, Trigram{Sentinel, Sentinel, Sentinel})
	if n >= 1 {
		ensureKey(res, Trigram{content[n-1], Sentinel, Sentinel})
	}
	if n >= 2 {
		ensureKey(res, Trigram{content[n-2], content[n-1], Sentinel})
	}

	if n < 3 {
		return res
	}

	padded := make([]byte, n+3)
	copy(padded, content)
	padded[n] = Sentinel
	padded[n+1] = Sentinel
	padded[n+2] = Sentinel

	for i := 0; i <= n-3; i++ {
		t := Trigram{padded[i], padded[i+1], padded[i+2]}
		s := Trigram{padded[i+3], padded[i+4], padded[i+5]}
		addSuccessor(res, t, s)
	}
	return res
}

func ensureKey(res map[Trigram]map[Trigram]struct{}, t Trigram) {
	if _, ok := res[t]; !ok {
		res[t] = make(map[Trigram]struct{})
	}
}

func addSuccessor(res map[Trigram]map[Trigram]struct{}, t, succ Trigram) {
	set, ok := res[t]
	if !ok {
		set = make(map[Trigram]struct{})
		res[t] = set
	}
	set[succ] = struct{}{}
}
