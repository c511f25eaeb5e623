// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package script

import "github.com/luxfi/plog/internal/varint"

// markerTag is the leading byte that distinguishes a SUCCESS marker's wire
// form from an ordinary opaque byte string.
const markerTag = 0xFE

// Marker is the SUCCESS(n) sentinel pushed onto the return stack by a
// successful check_* call. n is the check_count at the moment of success
// and doubles as the lock's precedence payload.
type Marker struct {
	N uint64
}

// Success constructs a SUCCESS(n) marker.
func Success(n uint64) Marker {
	return Marker{N: n}
}

// Bytes encodes the marker as the distinguishable sentinel byte sequence
// described in the host spec: a fixed tag byte followed by n as a uvarint.
// This is the representation a script may push directly onto param_stack
// when chaining checks, and the one check_signature scans for there.
func (m Marker) Bytes() []byte {
	out := []byte{markerTag}
	return varint.PutUvarint(out, m.N)
}

// DecodeMarker reports whether b is exactly a SUCCESS marker's wire form,
// returning the decoded marker if so.
func DecodeMarker(b []byte) (Marker, bool) {
	if len(b) == 0 || b[0] != markerTag {
		return Marker{}, false
	}
	n, rest, err := varint.ReadUvarint(b[1:])
	if err != nil || len(rest) != 0 {
		return Marker{}, false
	}
	return Marker{N: n}, true
}
