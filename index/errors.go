// Copyright 2021 Andrew Archibald. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import "errors"

var (
	// ErrCorruptHeader is returned by Open when the file's footer or
	// section layout is malformed or internally inconsistent, and by
	// Candidates when a posting's header does not match its region or its
	// directory entry.
	ErrCorruptHeader = errors.New("index: corrupt header")

	// ErrUnsupportedVersion is reserved for a future format version byte;
	// the current format has none, so nothing returns this yet.
	ErrUnsupportedVersion = errors.New("index: unsupported format version")

	// ErrTooManyDocs is returned by AddDoc when more documents have been
	// added than fit in a 32-bit DocID space.
	ErrTooManyDocs = errors.New("index: too many documents")
)
