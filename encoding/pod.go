// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

import (
	"encoding/binary"

	"honnef.co/go/safeish"
)

// podFastPath reports whether POD slices may be copied into the buffer
// verbatim. The stream is little-endian, so this only holds on
// little-endian hosts.
var podFastPath = isLittleEndian()

func isLittleEndian() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	return b[0] == 1
}

// appendPODs appends the memory of elems. E must be a padding-free struct
// with a host layout.
func appendPODs[E any](w *Writer, elems []E) {
	if len(elems) == 0 {
		return
	}
	w.buf = append(w.buf, safeish.SliceCast[[]byte](elems)...)
}
